// Package regstore persists the declarative actors_registered table
// (name -> path) across daemon restarts, so a restarted server can reload
// its actors automatically. Dispatch never reads from here directly; only
// cmd/actorwired's startup path does, to repopulate internal/registry
// before serving traffic.
package regstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlite_migrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one persisted registration row.
type Entry struct {
	Name string
	Path string
}

// Store wraps a sqlite-backed actors_registered table.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default location for the registration database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".actorwire", "registered_actors.db"), nil
}

// Open opens (creating if necessary) the sqlite database at path and
// applies any pending migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	driver, err := sqlite_migrate.WithInstance(s.db, &sqlite_migrate.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite migration driver: %w", err)
	}

	src, err := httpfs.New(http.FS(migrations), "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("migrations", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("constructing migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// Insert persists name -> path, overwriting any existing row for name.
func (s *Store) Insert(ctx context.Context, name, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO actors_registered (name, path, registered_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET path = excluded.path,
			registered_at = excluded.registered_at`,
		name, path, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("inserting registration for %q: %w", name, err)
	}
	return nil
}

// Delete removes name's registration row. Idempotent: deleting an absent
// name is not an error, matching the in-memory registry's unregister
// semantics.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM actors_registered WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting registration for %q: %w", name, err)
	}
	return nil
}

// All returns every persisted registration, for replay into
// internal/registry at daemon startup.
func (s *Store) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, path FROM actors_registered ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Path); err != nil {
			return nil, fmt.Errorf("scanning registration row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Replay loads every persisted registration via reload (typically
// system.register_actor's underlying handler), logging and skipping any
// entry that fails to load rather than aborting startup. A failed load is
// fatal only to that registration; other actors are unaffected.
func Replay(ctx context.Context, s *Store, reload func(name, path string) error) {
	entries, err := s.All(ctx)
	if err != nil {
		slog.Error("failed to read persisted actor registrations", "error", err)
		return
	}
	for _, e := range entries {
		if err := reload(e.Name, e.Path); err != nil {
			slog.Error("failed to reload persisted actor",
				"name", e.Name, "path", e.Path, "error", err)
		}
	}
}
