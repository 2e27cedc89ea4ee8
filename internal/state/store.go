package state

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store remembers the last confirmed selection per project, keyed by the
// canonicalized project root. It backs the selector's "continue where I left
// off" behavior and nothing in the interactive flow depends on it being
// available.
type Store struct {
	DB     *sqlx.DB
	Logger *slog.Logger
}

var migrations = []struct {
	name string
	up   string
}{
	{
		name: "create_projects_table",
		up: `
			CREATE TABLE IF NOT EXISTS projects (
				key TEXT PRIMARY KEY,
				updated_at TIMESTAMP NOT NULL
			);
		`,
	},
	{
		name: "create_selections_table",
		up: `
			CREATE TABLE IF NOT EXISTS selections (
				project_key TEXT NOT NULL,
				path TEXT NOT NULL,
				PRIMARY KEY (project_key, path)
			);
		`,
	},
}

// DefaultPath returns the state database location under the user config
// directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(configDir, "treetxt", "state.db"), nil
}

// Open opens (creating if needed) the state database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}

	s := &Store{DB: db, Logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, m := range migrations {
		if _, err := s.DB.Exec(m.up); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}
	return nil
}

// ProjectKey canonicalizes a project directory into a stable store key.
func ProjectKey(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// Load returns the saved selection for the project, or an empty list when the
// project has no saved state.
func (s *Store) Load(projectKey string) ([]string, error) {
	var paths []string
	err := s.DB.Select(&paths,
		"SELECT path FROM selections WHERE project_key = ? ORDER BY path",
		projectKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load selections: %w", err)
	}
	return paths, nil
}

// Save replaces the saved selection for the project with paths.
func (s *Store) Save(projectKey string, paths []string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM selections WHERE project_key = ?", projectKey); err != nil {
		return fmt.Errorf("failed to clear selections: %w", err)
	}

	for _, p := range paths {
		if _, err := tx.Exec(
			"INSERT INTO selections (project_key, path) VALUES (?, ?)",
			projectKey, p,
		); err != nil {
			return fmt.Errorf("failed to save selection %s: %w", p, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO projects (key, updated_at) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET updated_at = excluded.updated_at",
		projectKey, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to update project timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit selections: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
