// Package storage persists the high score and server-side leaderboard.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/sirupsen/logrus"
)

// ErrUnknownBackend is returned by Open for an unsupported store name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// HighScoreStore keeps the best score across sessions. Saving a lower
// score than the stored one leaves the stored value unchanged.
type HighScoreStore interface {
	LoadHighScore(ctx context.Context) (int, error)
	SaveHighScore(ctx context.Context, score int) error
}

// Store is a full storage backend.
type Store interface {
	HighScoreStore
	leaderboard.Store
	Close() error
}

// Open returns the backend selected by s.Store.
func Open(ctx context.Context, s config.Settings, log logrus.FieldLogger) (Store, error) {
	switch s.Store {
	case "", "sqlite":
		st, err := OpenSQLite(ctx, s.DBPath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", s.DBPath).Info("Using sqlite store")
		return st, nil
	case "redis":
		st, err := OpenRedis(ctx, s.RedisAddr)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", s.RedisAddr).Info("Using redis store")
		return st, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Store)
}
