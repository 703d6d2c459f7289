package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/game"
	"github.com/hetfly/snake-demo/pkg/input"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/hetfly/snake-demo/pkg/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ServerMessage is everything the server pushes to a client
type ServerMessage struct {
	Type    string              `json:"type"`
	Config  *game.GameConfig    `json:"config,omitempty"`
	State   *game.Snapshot      `json:"state,omitempty"`
	Entry   *leaderboard.Entry  `json:"entry,omitempty"`
	Entries []leaderboard.Entry `json:"entries,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// ClientMessage is an action sent by a client. Name is only used by "submit".
type ClientMessage struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
}

// session is one connected player with its own engine
type session struct {
	game   *game.Game
	scores storage.HighScoreStore
	board  leaderboard.Store
	log    logrus.FieldLogger
	send   func(v any) error

	mu        sync.Mutex
	player    string
	submitted bool
}

func newSession(scores storage.HighScoreStore, board leaderboard.Store, log logrus.FieldLogger, send func(v any) error) *session {
	return &session{
		game:   game.NewGame(0, nil),
		scores: scores,
		board:  board,
		log:    log,
		send:   send,
	}
}

// restore seeds the engine with the shared high score.
func (s *session) restore(ctx context.Context) {
	if s.scores == nil {
		return
	}
	score, err := s.scores.LoadHighScore(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Could not load high score")
		return
	}
	s.game = game.NewGame(score, nil)
}

func (s *session) sendConfig() error {
	cfg := s.game.GetGameConfig()
	return s.send(ServerMessage{Type: "config", Config: &cfg})
}

func (s *session) sendState() error {
	snap := s.game.Snapshot()
	return s.send(ServerMessage{Type: "state", State: &snap})
}

func (s *session) sendError(msg string) error {
	return s.send(ServerMessage{Type: "error", Error: msg})
}

// handle applies one client message and answers with the resulting state.
func (s *session) handle(ctx context.Context, msg ClientMessage) error {
	if msg.Action == "submit" {
		return s.handleSubmit(ctx, msg.Name)
	}

	cmd := input.ParseAction(msg.Action, s.game.Status())
	if cmd.Kind == input.CmdNone {
		return s.sendError("unknown action " + msg.Action)
	}
	if input.Apply(s.game, cmd) && cmd.Kind == input.CmdReset {
		s.mu.Lock()
		s.submitted = false
		s.mu.Unlock()
	}
	return s.sendState()
}

// handleSubmit remembers the player name. The score is posted right away
// when the game is already over, otherwise when it ends.
func (s *session) handleSubmit(ctx context.Context, name string) error {
	name, err := leaderboard.NormalizeName(name)
	if err != nil {
		return s.sendError(err.Error())
	}
	s.mu.Lock()
	s.player = name
	s.mu.Unlock()

	snap := s.game.Snapshot()
	if snap.Status == game.StatusGameOver {
		return s.submit(ctx, snap.Score)
	}
	return nil
}

// step advances the engine once and reports whether the snake moved.
func (s *session) step(ctx context.Context) (bool, error) {
	res := s.game.Tick()
	if !res.Moved {
		return false, nil
	}
	snap := s.game.Snapshot()
	if res.HighScoreRose && s.scores != nil {
		if err := s.scores.SaveHighScore(ctx, snap.HighScore); err != nil {
			s.log.WithError(err).Warn("Failed to persist high score")
		}
	}
	if res.GameOver {
		s.log.WithFields(logrus.Fields{"score": snap.Score, "crash": res.CrashPoint}).Info("Game over")
		if err := s.submit(ctx, snap.Score); err != nil {
			return true, err
		}
	}
	return true, nil
}

// submit posts score once per game for the named player, then sends the
// leaderboard.
func (s *session) submit(ctx context.Context, score int) error {
	s.mu.Lock()
	player, done := s.player, s.submitted
	if player != "" {
		s.submitted = true
	}
	s.mu.Unlock()
	if player == "" || done {
		return nil
	}

	entry, err := leaderboard.NewEntry(player, score)
	if err != nil {
		return s.sendError(err.Error())
	}
	stored, err := s.board.AddScore(ctx, entry)
	if err != nil {
		s.log.WithError(err).Error("Failed to store score")
		return s.sendError("failed to store score")
	}
	if err := s.send(ServerMessage{Type: "submitted", Entry: &stored}); err != nil {
		return err
	}

	top, err := s.board.TopScores(ctx, config.DefaultLeaderboardLimit)
	if err != nil {
		s.log.WithError(err).Error("Failed to read leaderboard")
		return nil
	}
	return s.send(ServerMessage{Type: "leaderboard", Entries: top})
}

// run serves conn until the client leaves or ctx ends: one goroutine reads
// actions and one ticks the engine at its current speed.
func (s *session) run(ctx context.Context, conn *websocket.Conn) error {
	if err := s.sendConfig(); err != nil {
		return err
	}
	if err := s.sendState(); err != nil {
		return err
	}

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		<-ctx.Done()
		// Unblocks the reader
		conn.Close()
		return nil
	})

	grp.Go(func() error {
		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return errClientLeft
				}
				return err
			}
			if err := s.handle(ctx, msg); err != nil {
				return err
			}
		}
	})

	grp.Go(func() error {
		timer := time.NewTimer(s.game.Speed())
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
				moved, err := s.step(ctx)
				if err != nil {
					return err
				}
				if moved {
					if err := s.sendState(); err != nil {
						return err
					}
				}
				timer.Reset(s.game.Speed())
			}
		}
	})

	err := grp.Wait()
	if errors.Is(err, errClientLeft) {
		return nil
	}
	return err
}

var errClientLeft = errors.New("client left")
