// Package sqlitestore is the persistence layer: a single `todo` table in a
// local SQLite file, with a live query that pushes the full ordered list to
// subscribers after every change.
//
// A Store is opened explicitly and handed to whoever needs it; there is no
// package-level handle.
package sqlitestore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/live"
	"github.com/idilsaglam/snaptodo/internal/model"

	_ "modernc.org/sqlite"
)

// DefaultFileName mirrors the database name used by the mobile app.
const DefaultFileName = "Todo_DB.sqlite"

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db   *sqlx.DB
	path string

	// mu serializes refreshes so snapshots are published in commit order.
	mu       sync.Mutex
	feed     *live.Feed[[]model.TodoItem]
	// snapshot reads the table for the live query, normally List.
	snapshot func(context.Context) ([]model.TodoItem, error)
}

// Open opens (creating if needed) the database at path, applies migrations
// and loads the first snapshot for the live query.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: writes are single-row and the pragmas below are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:   db,
		path: path,
		feed: live.NewFeed[[]model.TodoItem](),
	}
	s.snapshot = s.List
	if err := s.refresh(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("store opened")
	return s, nil
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	res, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range res {
		log.Info().Int64("version", r.Source.Version).Msg("applied migration")
	}
	return nil
}

// Path is the database file location.
func (s *Store) Path() string { return s.path }

// Close detaches live subscribers and closes the database.
func (s *Store) Close() error {
	s.feed.Close()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}
