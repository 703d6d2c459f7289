package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/sirupsen/logrus"
)

// ExportedScore matches a row of the hosted leaderboard table export
type ExportedScore struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// importScores adds every valid row of the JSON array in r to store.
// Rows with an invalid name or score are skipped; re-importing a row with
// the same id is a no-op for stores that key on it.
func importScores(ctx context.Context, store leaderboard.Store, r io.Reader, log logrus.FieldLogger) (imported, skipped int, err error) {
	var rows []ExportedScore
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return 0, 0, fmt.Errorf("failed to parse export: %w", err)
	}
	log.Infof("Found %d scores to migrate...", len(rows))

	for _, row := range rows {
		entry, err := leaderboard.NewEntry(row.PlayerName, row.Score)
		if err != nil {
			log.WithError(err).WithField("player", row.PlayerName).Warn("Skipping row")
			skipped++
			continue
		}
		if row.ID != "" {
			entry.ID = row.ID
		}
		if !row.CreatedAt.IsZero() {
			entry.CreatedAt = row.CreatedAt.UTC()
		}
		if _, err := store.AddScore(ctx, entry); err != nil {
			return imported, skipped, fmt.Errorf("failed to import %s: %w", entry.PlayerName, err)
		}
		imported++
	}
	return imported, skipped, nil
}
