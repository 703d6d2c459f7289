package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	score, err := s.LoadHighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, score, "absent high score defaults to 0")

	require.NoError(t, s.SaveHighScore(ctx, 12))
	require.NoError(t, s.SaveHighScore(ctx, 7))
	score, err = s.LoadHighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, score, "high score never decreases")

	require.NoError(t, s.SaveHighScore(ctx, 15))
	score, err = s.LoadHighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, score)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, sc := range []int{3, 9, 5, 9} {
		_, err := s.AddScore(ctx, leaderboard.Entry{
			PlayerName: string(rune('a' + i)),
			Score:      sc,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	top, err := s.TopScores(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 9, top[0].Score)
	assert.Equal(t, 9, top[1].Score)
	assert.Equal(t, 5, top[2].Score)
	for _, e := range top {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestSQLiteStore(t *testing.T) {
	s := openTestSQLite(t)
	exerciseStore(t, s)

	// Equal scores list the earlier entry first
	top, err := s.TopScores(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "b", top[0].PlayerName)
	assert.Equal(t, "d", top[1].PlayerName)
}

func TestSQLiteAddScoreIgnoresDuplicateID(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	e, err := leaderboard.NewEntry("alice", 4)
	require.NoError(t, err)
	_, err = s.AddScore(ctx, e)
	require.NoError(t, err)
	_, err = s.AddScore(ctx, e)
	require.NoError(t, err)

	top, err := s.TopScores(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, e.ID, top[0].ID)
	assert.True(t, e.CreatedAt.Truncate(time.Millisecond).Equal(top[0].CreatedAt))
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveHighScore(ctx, 21))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	score, err := s.LoadHighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 21, score)
}

func TestOpenSelectsBackend(t *testing.T) {
	settings := config.Defaults()
	settings.DBPath = filepath.Join(t.TempDir(), "game.db")

	s, err := Open(context.Background(), settings, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	settings.Store = "postgres"
	_, err = Open(context.Background(), settings, discardLogger())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SNAKE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SNAKE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r, err := OpenRedis(ctx, addr)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.rdb.Del(ctx, redisHighScoresKey, redisLeaderboardKey).Err())
	exerciseStore(t, r)
}
