// Package store persists the single high score value in SQLite
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database connection
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and applies the schema
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("open store: %s: %w", pragma, err)
		}
	}

	s := &Store{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS high_score (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		value INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}
	return nil
}

// HighScore returns the best score so far, 0 on a fresh database
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, "SELECT value FROM high_score WHERE id = 1").Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}
	return n, nil
}

// SubmitScore keeps the larger of n and the stored high score and returns
// the result
func (s *Store) SubmitScore(ctx context.Context, n int) (int, error) {
	if n < 0 {
		n = 0
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO high_score (id, value) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET
			value = max(value, excluded.value),
			updated_at = CASE WHEN excluded.value > value THEN CURRENT_TIMESTAMP ELSE updated_at END`,
		n,
	)
	if err != nil {
		return 0, fmt.Errorf("submit score: %w", err)
	}
	return s.HighScore(ctx)
}
