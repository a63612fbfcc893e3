// Package app wires the ledger, its repository and the services built on it
// from configuration. Both the API server and the terminal dashboard start
// from here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/database"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/ledger/remote"
	ledgerStore "github.com/MrJamesThe3rd/finboard/internal/ledger/store"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/finboard/internal/matching/store"
	"github.com/MrJamesThe3rd/finboard/internal/metrics"
)

type App struct {
	Config   *config.Config
	Metrics  *metrics.Metrics
	Ledger   *ledger.Ledger
	Matching *matching.Service
	Importer *importer.Service
	Export   *export.Service

	db *sql.DB
}

type repositories struct {
	ledger ledger.Repository
	rules  matching.Repository
}

// New opens the configured repository, loads the ledger and builds the
// services. reg may be nil to skip metrics.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	a := &App{Config: cfg}

	if reg != nil {
		a.Metrics = metrics.New(reg)
	}

	repos, err := a.open(cfg)
	if err != nil {
		return nil, err
	}

	l, err := ledger.New(repos.ledger, ledger.Options{
		Lookahead:      cfg.Ledger.LookaheadDays,
		PersistTimeout: cfg.Ledger.PersistTimeout,
		Metrics:        a.Metrics,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating ledger: %w", err)
	}

	if err := l.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	a.Ledger = l
	a.Matching = matching.NewService(repos.rules)
	a.Importer = importer.NewService(a.Matching)
	a.Export = export.NewService(cfg.Ledger.LookaheadDays)

	return a, nil
}

func (a *App) open(cfg *config.Config) (repositories, error) {
	switch cfg.Ledger.Repository {
	case config.RepositoryRemote:
		slog.Info("using remote repository", "url", cfg.Remote.URL)

		c := remote.New(remote.Config{
			URL:      cfg.Remote.URL,
			Username: cfg.Remote.User,
			Password: cfg.Remote.Password,
		})

		return repositories{ledger: c, rules: c}, nil
	case config.RepositoryPostgres:
		if cfg.DB.Migrate {
			if err := database.Migrate(cfg.ConnectionString()); err != nil {
				return repositories{}, fmt.Errorf("migrating database: %w", err)
			}
		}

		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return repositories{}, fmt.Errorf("connecting to database: %w", err)
		}

		a.db = db

		return repositories{ledger: ledgerStore.New(db), rules: matchingStore.New(db)}, nil
	}

	return repositories{}, fmt.Errorf("unknown repository %q", cfg.Ledger.Repository)
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}

	return nil
}
