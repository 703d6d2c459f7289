package main

import (
	"context"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hetfly/snake-demo/pkg/game"
	"github.com/hetfly/snake-demo/pkg/input"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/hetfly/snake-demo/pkg/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T) (*host, *storage.SQLite) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := newHost(store, leaderboard.NewService(nil, nil, time.Second, log), log)
	return h, store
}

func TestHostRestoresHighScore(t *testing.T) {
	h, store := newTestHost(t)
	ctx := context.Background()
	require.NoError(t, store.SaveHighScore(ctx, 17))

	require.NoError(t, h.loadHighScore(ctx))
	assert.Equal(t, 17, h.game.HighScore())
}

func TestHostPlaysUntilGameOver(t *testing.T) {
	h, store := newTestHost(t)
	ctx := context.Background()
	h.player = "alice"
	h.game = game.NewGame(0, rand.New(rand.NewSource(5)))

	h.apply(ctx, input.Command{Kind: input.CmdStart})
	for i := 0; i < 40 && h.game.Status() == game.StatusPlaying; i++ {
		h.step(ctx)
	}
	snap := h.game.Snapshot()
	require.Equal(t, game.StatusGameOver, snap.Status)

	stored, err := store.LoadHighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.HighScore, stored)

	footer := strings.Join(h.footer(), "\n")
	assert.Contains(t, footer, "Submitted")
	assert.Contains(t, footer, "Leaderboard (fallback)")
	assert.Contains(t, footer, "alice")

	// Reset clears the leaderboard lines and keeps the high score
	h.apply(ctx, input.Command{Kind: input.CmdReset})
	assert.Empty(t, h.footer())
	assert.Equal(t, game.StatusIdle, h.game.Status())
	assert.Equal(t, snap.HighScore, h.game.HighScore())
}

func TestHostRejectsLongPlayerName(t *testing.T) {
	h, _ := newTestHost(t)
	h.player = strings.Repeat("n", 30)

	h.finish(context.Background(), 3)
	footer := strings.Join(h.footer(), "\n")
	assert.Contains(t, footer, "Score not submitted")
	assert.Contains(t, footer, "No scores yet")
}
