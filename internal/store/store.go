// Package store is the local persistence layer: SQLite-backed repositories
// for applications and stages plus a transactional unit-of-work helper. Both
// the user-facing service and the sync engine mutate the database through
// this package so their commits cannot interleave into torn writes.
package store

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/dbx"
	"github.com/dmitrijs2005/jobkeeper/internal/store/migrations"
	"github.com/pressly/goose/v3"
)

// Store owns the database handle and hands out repositories bound to it.
type Store struct {
	db *sql.DB
}

// Repositories bundles the per-entity repositories sharing one DBTX, so a
// unit of work can touch both tables atomically.
type Repositories struct {
	Applications *ApplicationRepository
	Stages       *StageRepository
}

func newRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Applications: NewApplicationRepository(db),
		Stages:       NewStageRepository(db),
	}
}

// RunMigrations applies all embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the SQLite database at dsn and applies
// migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an already opened and migrated database handle.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

// Repos returns repositories bound directly to the database, outside any
// transaction.
func (s *Store) Repos() *Repositories {
	return newRepositories(s.db)
}

// WithTx runs fn as one atomic unit of work: either every mutation in fn is
// committed, or none is.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}

// Timestamps are stored as integer unix nanoseconds so comparisons survive
// the driver round-trip unchanged. Zero time maps to 0.

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
