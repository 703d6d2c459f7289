package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/game"
	"github.com/hetfly/snake-demo/pkg/input"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/hetfly/snake-demo/pkg/storage"
	"github.com/sirupsen/logrus"
)

// host owns the engine and connects it to persistence, the leaderboard and
// the recorder.
type host struct {
	game     *game.Game
	store    storage.HighScoreStore
	board    *leaderboard.Service
	recorder *game.GameRecorder
	log      logrus.FieldLogger
	player   string

	mu        sync.Mutex
	stepCount int
	status    []string // Extra lines shown under the board
}

func newHost(store storage.HighScoreStore, board *leaderboard.Service, log logrus.FieldLogger) *host {
	return &host{
		game:  game.NewGame(0, nil),
		store: store,
		board: board,
		log:   log,
	}
}

// loadHighScore seeds a fresh engine with the persisted high score.
func (h *host) loadHighScore(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	score, err := h.store.LoadHighScore(ctx)
	if err != nil {
		return err
	}
	h.game = game.NewGame(score, nil)
	h.log.WithField("highScore", score).Info("Restored high score")
	return nil
}

func (h *host) apply(ctx context.Context, cmd input.Command) {
	if !input.Apply(h.game, cmd) {
		return
	}
	switch cmd.Kind {
	case input.CmdReset:
		h.setFooter(nil)
	case input.CmdStart:
		h.log.Debug("Game started")
	}
}

// step advances the game once and handles what the move caused.
func (h *host) step(ctx context.Context) {
	res := h.game.Tick()
	if !res.Moved {
		return
	}

	snap := h.game.Snapshot()
	if h.recorder != nil {
		h.mu.Lock()
		h.stepCount++
		n := h.stepCount
		h.mu.Unlock()
		h.recorder.RecordStep(game.StepRecord{Step: n, Time: time.Now(), Snapshot: snap})
	}

	if res.HighScoreRose {
		h.saveHighScore(ctx, snap.HighScore)
	}
	if res.GameOver {
		h.log.WithFields(logrus.Fields{
			"score": snap.Score,
			"crash": res.CrashPoint,
		}).Info("Game over")
		h.finish(ctx, snap.Score)
	}
}

func (h *host) saveHighScore(ctx context.Context, score int) {
	if h.store == nil {
		return
	}
	if err := h.store.SaveHighScore(ctx, score); err != nil {
		h.log.WithError(err).Warn("Failed to persist high score")
	}
}

// finish submits the final score when a player name is set and shows the
// leaderboard.
func (h *host) finish(ctx context.Context, score int) {
	var lines []string
	if h.player != "" {
		res := h.board.Submit(ctx, h.player, score)
		switch {
		case leaderboard.IsValidation(res.Err):
			lines = append(lines, fmt.Sprintf("Score not submitted: %v", res.Err))
		case res.Err != nil:
			lines = append(lines, "Leaderboard unreachable, score kept locally")
		default:
			lines = append(lines, fmt.Sprintf("Submitted %d for %s", score, h.player))
		}
	}

	top := h.board.Top(ctx, config.DefaultLeaderboardLimit)
	lines = append(lines, "", fmt.Sprintf("🏆 Leaderboard (%s)", top.Source))
	if len(top.Entries) == 0 {
		lines = append(lines, "No scores yet. Be the first!")
	}
	lines = append(lines, formatLeaderboard(top.Entries)...)
	h.setFooter(lines)
}

func formatLeaderboard(entries []leaderboard.Entry) []string {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("#%-3d %-20s %5d", i+1, e.PlayerName, e.Score))
	}
	return lines
}

func (h *host) setFooter(lines []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = lines
}

func (h *host) footer() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.status))
	copy(out, h.status)
	return out
}
