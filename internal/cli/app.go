// Package cli implements the interactive command loop of the jobkeeper
// client. It is a thin presentation layer: all CRUD goes through the service
// facade and all synchronization through the sync engine.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/jobkeeper/internal/config"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/dmitrijs2005/jobkeeper/internal/remote"
	"github.com/dmitrijs2005/jobkeeper/internal/service"
	"github.com/dmitrijs2005/jobkeeper/internal/store"
	"github.com/dmitrijs2005/jobkeeper/internal/syncer"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type App struct {
	config  *config.Config
	tracker *service.Tracker
	engine  *syncer.Engine
	userID  string
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	// Without a project id the app runs offline-only; login is rejected by
	// the engine because there is no remote store to bind.
	var rs remote.Store
	if c.FirestoreProjectID != "" {
		client, err := remote.NewClient(ctx, c.FirestoreProjectID)
		if err != nil {
			return nil, err
		}
		rs = remote.NewFirestoreStore(client)
	}

	engine := syncer.New(st, rs, logger, syncer.Options{
		Debounce: c.SyncDebounce,
		Throttle: c.SyncThrottle,
	})
	tracker := service.NewTracker(st, engine, logger)

	return &App{
		config:  c,
		tracker: tracker,
		engine:  engine,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}
