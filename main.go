package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/ekaya-inc/element-catalog/pkg/adapters/datasource/mssql"
	_ "github.com/ekaya-inc/element-catalog/pkg/adapters/datasource/postgres"
	"github.com/ekaya-inc/element-catalog/pkg/config"
	"github.com/ekaya-inc/element-catalog/pkg/crypto"
	"github.com/ekaya-inc/element-catalog/pkg/database"
	"github.com/ekaya-inc/element-catalog/pkg/handlers"
	"github.com/ekaya-inc/element-catalog/pkg/metrics"
	"github.com/ekaya-inc/element-catalog/pkg/middleware"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
	"github.com/ekaya-inc/element-catalog/pkg/repositories/memory"
	"github.com/ekaya-inc/element-catalog/pkg/retry"
	"github.com/ekaya-inc/element-catalog/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsLocal() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Bool("unique_names", cfg.Catalog.UniqueNames),
		zap.String("seed_file", cfg.Catalog.SeedFile))

	var (
		repos  repositories.Catalog
		db     *database.DB
		pinger handlers.Pinger
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		var err error
		db, err = openPostgres(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		var sealer *crypto.Sealer
		if cfg.CredentialsKey != "" {
			if sealer, err = crypto.NewSealer(cfg.CredentialsKey); err != nil {
				return fmt.Errorf("credentials key: %w", err)
			}
		} else {
			logger.Warn("CREDENTIALS_KEY not set; database config connection URLs are stored in plaintext")
		}
		repos = repositories.NewPostgresCatalog(db, sealer)
		pinger = db
	default:
		repos = memory.NewStore().Catalog()
	}

	svc := services.NewCatalog(repos, services.Options{
		UniqueNames: cfg.Catalog.UniqueNames,
		SeedFile:    cfg.Catalog.SeedFile,
	}, logger)

	httpMetrics := metrics.NewHTTP()

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, pinger, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", httpMetrics.Handler())
	handlers.RegisterCatalogRoutes(mux, svc, logger.Named("http"))

	chain := []func(http.Handler) http.Handler{
		middleware.Recover(logger),
		middleware.RequestID(),
		middleware.RequestLogger(logger.Named("access")),
		middleware.Timeout(cfg.RequestTimeout),
	}
	if db != nil {
		chain = append(chain, database.WithScope(db, logger))
	}
	// Metrics wraps the mux directly so it sees the matched pattern.
	chain = append(chain, middleware.Metrics(httpMetrics))

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.Chain(mux, chain...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting element catalog", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	// Postgres may still be starting when the catalog comes up.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.URL(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s:%d/%s: %w",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Database, err)
	}

	if err := database.RunMigrations(db.SQL(), logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("Connected to postgres",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Database))
	return db, nil
}
