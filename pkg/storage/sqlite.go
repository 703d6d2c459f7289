package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/leaderboard"

	_ "modernc.org/sqlite"
)

// SQLite stores the high score and leaderboard in an embedded database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Writers serialize in sqlite; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS high_scores (
			key TEXT PRIMARY KEY,
			high_score INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS leaderboard (
			id TEXT PRIMARY KEY,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS leaderboard_score_idx ON leaderboard (score DESC, created_at ASC)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table (%s): %w", query, err)
		}
	}
	return nil
}

// LoadHighScore returns the stored high score, 0 when none is stored.
func (s *SQLite) LoadHighScore(ctx context.Context) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT high_score FROM high_scores WHERE key = ?`, config.HighScoreKey,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load high score: %w", err)
	}
	return score, nil
}

// SaveHighScore stores score if it beats the stored value.
func (s *SQLite) SaveHighScore(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO high_scores (key, high_score, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			high_score = MAX(high_scores.high_score, excluded.high_score),
			updated_at = excluded.updated_at`,
		config.HighScoreKey, score, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	return nil
}

// AddScore inserts a leaderboard entry. Re-adding an existing ID is ignored.
func (s *SQLite) AddScore(ctx context.Context, e leaderboard.Entry) (leaderboard.Entry, error) {
	e = e.Complete()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO leaderboard (id, player_name, score, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.PlayerName, e.Score, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("failed to add score: %w", err)
	}
	return e, nil
}

// TopScores returns up to limit entries, best first; ties go to the earlier entry.
func (s *SQLite) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_name, score, created_at FROM leaderboard
		 ORDER BY score DESC, created_at ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]leaderboard.Entry, 0, limit)
	for rows.Next() {
		var (
			e       leaderboard.Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &created); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
