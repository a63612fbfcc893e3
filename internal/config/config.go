package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryRemote   = "remote"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Finboard"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finboard"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	Ledger struct {
		// LookaheadDays is the window in which unpaid bills count as upcoming.
		LookaheadDays   int           `envconfig:"LOOKAHEAD_DAYS" default:"30"`
		PersistTimeout  time.Duration `envconfig:"PERSIST_TIMEOUT" default:"5s"`
		RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"1m"`
		Repository      string        `envconfig:"REPOSITORY" default:"postgres"`
	}

	Remote struct {
		URL      string `envconfig:"REMOTE_URL"`
		User     string `envconfig:"REMOTE_USER"`
		Password string `envconfig:"REMOTE_PASSWORD"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"finboard"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Validate() error {
	if c.Ledger.LookaheadDays < 0 {
		return fmt.Errorf("LOOKAHEAD_DAYS must not be negative, got %d", c.Ledger.LookaheadDays)
	}

	if c.Ledger.PersistTimeout <= 0 {
		return fmt.Errorf("PERSIST_TIMEOUT must be positive, got %s", c.Ledger.PersistTimeout)
	}

	if c.Ledger.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.Ledger.RefreshInterval)
	}

	switch c.Ledger.Repository {
	case RepositoryPostgres:
	case RepositoryRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("REMOTE_URL is required when REPOSITORY=%s", RepositoryRemote)
		}
	default:
		return fmt.Errorf("unknown REPOSITORY %q", c.Ledger.Repository)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
