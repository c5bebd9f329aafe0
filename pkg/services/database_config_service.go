package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/adapters/datasource"
	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/audit"
	"github.com/ekaya-inc/element-catalog/pkg/logging"
	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// DefaultConnectionTestTimeout bounds a single connection test.
const DefaultConnectionTestTimeout = 10 * time.Second

// ConnectionOpener opens a tester for a connection URL.
// datasource.Open is the production implementation.
type ConnectionOpener func(ctx context.Context, connectionURL string) (datasource.ConnectionTester, error)

// ConnectionTestResult is the outcome of testing a database config.
type ConnectionTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DatabaseConfigService provides operations for managing database configs.
type DatabaseConfigService interface {
	List(ctx context.Context) ([]*models.DatabaseConfig, error)
	Create(ctx context.Context, d *models.DatabaseConfig) (*models.DatabaseConfig, error)
	Get(ctx context.Context, id int64) (*models.DatabaseConfig, error)
	Update(ctx context.Context, id int64, patch models.DatabaseConfigPatch) (*models.DatabaseConfig, error)
	// Delete fails with a ConflictError while mappings use the config.
	Delete(ctx context.Context, id int64) error

	// TestConnection connects to the configured database. A failed
	// connection is reported in the result, not as an error. An unsupported
	// URL scheme is a ValidationError.
	TestConnection(ctx context.Context, id int64) (*ConnectionTestResult, error)
}

type databaseConfigService struct {
	repo    repositories.DatabaseConfigRepository
	open    ConnectionOpener
	timeout time.Duration
	auditor *audit.SecurityAuditor
	logger  *zap.Logger
}

// NewDatabaseConfigService creates a new DatabaseConfigService. A nil
// opener defaults to datasource.Open.
func NewDatabaseConfigService(repo repositories.DatabaseConfigRepository, open ConnectionOpener, logger *zap.Logger) DatabaseConfigService {
	if open == nil {
		open = datasource.Open
	}
	return &databaseConfigService{
		repo:    repo,
		open:    open,
		timeout: DefaultConnectionTestTimeout,
		auditor: audit.NewSecurityAuditor(logger),
		logger:  logger.Named("database-config-service"),
	}
}

var _ DatabaseConfigService = (*databaseConfigService)(nil)

func (s *databaseConfigService) List(ctx context.Context) ([]*models.DatabaseConfig, error) {
	return s.repo.List(ctx)
}

func (s *databaseConfigService) Create(ctx context.Context, d *models.DatabaseConfig) (*models.DatabaseConfig, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create database config: %w", err)
	}

	s.logger.Info("Created database config",
		zap.Int64("database_config_id", d.ID),
		zap.String("name", d.Name),
		zap.String("connection_url", logging.SanitizeConnectionString(d.ConnectionURL)))
	s.auditCredentials(ctx, d.ID, "created", d.ConnectionURL)
	return d, nil
}

func (s *databaseConfigService) Get(ctx context.Context, id int64) (*models.DatabaseConfig, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *databaseConfigService) Update(ctx context.Context, id int64, patch models.DatabaseConfigPatch) (*models.DatabaseConfig, error) {
	updated, err := s.repo.Update(ctx, id, func(d *models.DatabaseConfig) error {
		patch.Apply(d)
		return d.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated database config",
		zap.Int64("database_config_id", id),
		zap.Bool("connection_url_changed", patch.ConnectionURL != nil))
	if patch.ConnectionURL != nil {
		s.auditCredentials(ctx, id, "updated", updated.ConnectionURL)
	}
	return updated, nil
}

func (s *databaseConfigService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted database config", zap.Int64("database_config_id", id))
	s.auditCredentials(ctx, id, "deleted", "")
	return nil
}

func (s *databaseConfigService) auditCredentials(ctx context.Context, id int64, action, connectionURL string) {
	details := audit.CredentialDetails{DatabaseConfigID: id, Action: action}
	if u, err := url.Parse(connectionURL); err == nil {
		details.Scheme = u.Scheme
	}
	s.auditor.LogCredentialChange(ctx, details)
}

func (s *databaseConfigService) TestConnection(ctx context.Context, id int64) (*ConnectionTestResult, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tester, err := s.open(ctx, cfg.ConnectionURL)
	if errors.Is(err, datasource.ErrUnsupportedScheme) {
		return nil, apperrors.Invalid("connectionUrl", "%s", err.Error())
	}
	if err != nil {
		return s.failed(id, err), nil
	}
	defer func() {
		if err := tester.Close(); err != nil {
			s.logger.Warn("Failed to close connection tester",
				zap.Int64("database_config_id", id),
				zap.String("error", logging.SanitizeError(err)))
		}
	}()

	if err := tester.TestConnection(ctx); err != nil {
		return s.failed(id, err), nil
	}

	s.logger.Info("Connection test succeeded", zap.Int64("database_config_id", id))
	return &ConnectionTestResult{Success: true, Message: "Connection successful"}, nil
}

func (s *databaseConfigService) failed(id int64, err error) *ConnectionTestResult {
	msg := logging.SanitizeError(err)
	s.logger.Info("Connection test failed",
		zap.Int64("database_config_id", id),
		zap.String("error", msg))
	return &ConnectionTestResult{Success: false, Message: msg}
}
