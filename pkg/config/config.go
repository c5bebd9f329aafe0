package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the element catalog.
// Configuration can come from an optional YAML file (config.yaml) and from
// environment variables. Environment variables always override YAML values.
// Secrets (PGPASSWORD, CREDENTIALS_KEY) only come from the environment.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// StorageBackend selects where the catalog lives: "memory" or "postgres".
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"memory"`

	Database DatabaseConfig `yaml:"database"`

	Catalog CatalogConfig `yaml:"catalog"`

	// RequestTimeout bounds a single API request, including storage calls.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"30s"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`

	// CredentialsKey encrypts database config connection URLs at rest.
	// Either a base64 32-byte key (openssl rand -base64 32) or a passphrase.
	// Only used by the postgres backend; empty stores URLs in plaintext.
	CredentialsKey string `yaml:"-" env:"CREDENTIALS_KEY"`
}

// CatalogConfig holds catalog behaviour switches.
type CatalogConfig struct {
	// UniqueNames rejects case-insensitive duplicate names for categories,
	// owner groups and elements.
	UniqueNames bool `yaml:"unique_names" env:"CATALOG_UNIQUE_NAMES" env-default:"false"`
	// SeedFile replaces the built-in sample catalog used by POST /api/seed.
	SeedFile string `yaml:"seed_file" env:"SEED_FILE" env-default:""`
}

// DatabaseConfig holds PostgreSQL connection settings for the postgres backend.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"catalog"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"element_catalog"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// configFile is read when present. A missing file is not an error.
const configFile = "config.yaml"

// Load reads config.yaml if it exists, then applies environment variables.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	var err error
	if _, statErr := os.Stat(configFile); statErr == nil {
		err = cleanenv.ReadConfig(configFile, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values cleanenv cannot.
func (c *Config) Validate() error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("storage_backend must be %q or %q, got %q", StorageMemory, StoragePostgres, c.StorageBackend)
	}

	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.BindAddr, c.Port)
}

// IsLocal reports whether the service runs in a developer environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

// URL returns a postgres:// connection URL for pgxpool. When running in
// Docker, a loopback host is replaced with the Docker host alias.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(ResolveHostForDocker(c.Host), strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.Password == "" {
		u.User = url.User(c.User)
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
