// Package history records command invocations in a local SQLite database
// so users can audit what a tool did and when.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Entry is one recorded invocation.
type Entry struct {
	// ID is a time-ordered unique identifier. Record assigns it when empty.
	ID string `json:"id"`

	// Command is the dispatched command name, empty for help requests
	// and unknown commands.
	Command string `json:"command"`

	// Argv is the full argument vector as typed, command name included.
	Argv []string `json:"argv"`

	// Outcome is the dispatch outcome: invoked, help or error.
	Outcome string `json:"outcome"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`

	// ExitCode is the process exit code the invocation produced.
	ExitCode int `json:"exit_code"`

	// StartedAt is when dispatch began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the invocation ran.
	Duration time.Duration `json:"duration"`
}

// Store is an append-mostly invocation log backed by SQLite. It is safe
// for concurrent use; SQLite serializes writers and the busy timeout
// covers short contention between processes.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id          TEXT PRIMARY KEY,
	command     TEXT NOT NULL,
	argv        TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	exit_code   INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_started_at ON invocations(started_at);
`

// Open opens or creates the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// WAL keeps readers from blocking the recording writer.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure history database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DefaultPath returns the history database location for appName under
// the XDG state directory.
func DefaultPath(appName string) string {
	return filepath.Join(xdg.StateHome, appName, "history.db")
}

// Record appends one invocation. A missing ID is assigned and a missing
// StartedAt defaults to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	argv, err := json.Marshal(e.Argv)
	if err != nil {
		return fmt.Errorf("failed to encode argv: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, command, argv, outcome, error, exit_code, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Command, string(argv), e.Outcome, e.Error, e.ExitCode,
		e.StartedAt.UnixMilli(), e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A non-positive
// limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, command, argv, outcome, error, exit_code, started_at, duration_ms
	          FROM invocations ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			argv       string
			startedAt  int64
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.Command, &argv, &e.Outcome, &e.Error, &e.ExitCode, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(argv), &e.Argv); err != nil {
			return nil, fmt.Errorf("failed to decode argv for entry %s: %w", e.ID, err)
		}
		e.StartedAt = time.UnixMilli(startedAt)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune keeps only the newest keep entries and reports how many rows
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM invocations WHERE id NOT IN
		 (SELECT id FROM invocations ORDER BY started_at DESC, id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM invocations"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
