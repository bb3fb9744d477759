// Package cli implements the interactive worklog shell: login, record
// entry, editing, export, and the admin directory.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/railcrew/worklog/internal/access"
	"github.com/railcrew/worklog/internal/config"
	"github.com/railcrew/worklog/internal/logging"
	"github.com/railcrew/worklog/internal/store"
	"github.com/railcrew/worklog/internal/syncgw"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	session *access.Session
	reader  *bufio.Reader
	db      *sql.DB
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, repo := openStore(ctx, cfg, logger)

	session := access.NewSession(syncgw.New(repo, logger), logger)

	return &App{
		config:  cfg,
		logger:  logger,
		session: session,
		reader:  bufio.NewReader(os.Stdin),
		db:      db,
	}, nil
}

// openStore connects the configured backing store. Failures are not fatal:
// the app warns and continues memory-only, per the degrade policy.
func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (*sql.DB, store.Repository) {
	if cfg.DatabaseDSN == "" || cfg.DatabaseDriver == "none" {
		logger.Warn(ctx, "no backing store configured, records will not be persisted")
		return nil, nil
	}

	switch cfg.DatabaseDriver {
	case "postgres":
		db, err := store.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Warn(ctx, "backing store unavailable, continuing memory-only", "error", err.Error())
			return nil, nil
		}
		return db, store.NewPostgresRepository(db)
	case "sqlite":
		db, err := store.OpenSQLite(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Warn(ctx, "backing store unavailable, continuing memory-only", "error", err.Error())
			return nil, nil
		}
		return db, store.NewSQLiteRepository(db)
	default:
		logger.Warn(ctx, "unknown database driver, continuing memory-only", "driver", cfg.DatabaseDriver)
		return nil, nil
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State() != access.LoggedOut
}

func (a *App) isAdmin() bool {
	return a.session.State() == access.ActiveAsAdminViewing
}

// opCtx bounds one backing-store round-trip.
func (a *App) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.PersistTimeout)
}
