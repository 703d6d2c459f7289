package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/game"
	"github.com/hetfly/snake-demo/pkg/input"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/hetfly/snake-demo/pkg/renderer"
	"github.com/hetfly/snake-demo/pkg/storage"
	"golang.org/x/sync/errgroup"
)

var errQuit = errors.New("quit")

func main() {
	var (
		envFile = flag.String("env", ".env", "env file with SNAKE_* settings")
		player  = flag.String("player", "", "name to submit to the leaderboard on game over")
		record  = flag.Bool("record", false, "record every step for cmd/replay")
		logPath = flag.String("log", "snake.log", "log file (the terminal is used for the board)")
	)
	flag.Parse()

	settings, warnings, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading settings:", err)
		os.Exit(1)
	}

	log := config.NewLogger(settings.LogLevel, settings.LogFormat)
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	for _, w := range warnings {
		log.Warn(w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Open(ctx, settings, log)
	if err != nil {
		// Play on without persistence rather than refusing to start
		log.WithError(err).Warn("High score will not be persisted")
	} else {
		defer store.Close()
	}

	var remote *leaderboard.RemoteClient
	if settings.LeaderboardConfigured() {
		remote = leaderboard.NewRemoteClient(settings.LeaderboardURL, settings.LeaderboardKey, nil)
	}
	board := leaderboard.NewService(remote, leaderboard.NewFallbackStore(config.FallbackCapacity), settings.HTTPTimeout, log)

	h := newHost(store, board, log)
	h.player = *player
	if err := h.loadHighScore(ctx); err != nil {
		log.WithError(err).Warn("Could not restore high score")
	}

	if *record {
		rec, err := game.NewRecorder(settings.RecordDir, uuid.NewString()[:8], log)
		if err != nil {
			log.WithError(err).Warn("Recording disabled")
		} else {
			h.recorder = rec
			defer rec.Close()
		}
	}

	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	render := renderer.NewTerminalRenderer(config.GridSize)
	render.HideCursor()
	defer render.ShowCursor()

	if err := h.run(ctx, inputHandler.GetInputChan(), render); err != nil && !errors.Is(err, errQuit) {
		log.WithError(err).Error("Game loop stopped")
	}
	fmt.Println("\n  Thanks for playing! 👋")
}

// run drives three loops until the player quits: input applies commands,
// the simulation ticks at the game's speed and the renderer redraws every
// frame from a snapshot.
func (h *host) run(ctx context.Context, keys <-chan input.KeyInput, render *renderer.TerminalRenderer) error {
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case key, ok := <-keys:
				if !ok {
					return errQuit
				}
				cmd := input.ParseCommand(key, h.game.Status())
				if cmd.Kind == input.CmdQuit {
					return errQuit
				}
				h.apply(ctx, cmd)
			}
		}
	})

	grp.Go(func() error {
		timer := time.NewTimer(h.game.Speed())
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
				h.step(ctx)
				timer.Reset(h.game.Speed())
			}
		}
	})

	grp.Go(func() error {
		ticker := time.NewTicker(config.FrameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				render.Render(h.game.Snapshot(), h.footer()...)
			}
		}
	})

	return grp.Wait()
}

