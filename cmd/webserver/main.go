package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/hetfly/snake-demo/pkg/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// server hosts websocket games and the leaderboard REST API on one mux
type server struct {
	store storage.Store
	log   logrus.FieldLogger
	ctx   context.Context

	// Tracks open game connections so shutdown can wait for them
	conns sync.WaitGroup
}

func newServer(ctx context.Context, store storage.Store, log logrus.FieldLogger) *server {
	return &server{store: store, log: log, ctx: ctx}
}

// routes builds the mux. staticDir is served at / when set.
func (s *server) routes(apiKey, secretKey, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	leaderboard.NewHandler(s.store, apiKey, secretKey, s.log.WithField("component", "rest")).Register(mux)
	mux.HandleFunc("/ws", s.handleWebSocket)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Upgrade error")
		return
	}
	defer conn.Close()

	s.conns.Add(1)
	defer s.conns.Done()

	log := s.log.WithField("remote", r.RemoteAddr)
	log.Info("New WebSocket connection")

	// Mutex to protect concurrent writes to the WebSocket connection
	var writeMu sync.Mutex
	safeWriteJSON := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	sess := newSession(s.store, s.store, log, safeWriteJSON)
	sess.restore(r.Context())
	if err := sess.run(s.ctx, conn); err != nil {
		log.WithError(err).Debug("Connection closed")
		return
	}
	log.Info("Client disconnected")
}

func main() {
	var (
		envFile   = flag.String("env", ".env", "env file with SNAKE_* settings")
		staticDir = flag.String("static", "", "directory with a web client to serve at /")
		secretKey = flag.String("secret-key", os.Getenv("SNAKE_SECRET_KEY"), "key refused on the public API")
	)
	flag.Parse()

	settings, warnings, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading settings:", err)
		os.Exit(1)
	}
	log := config.NewLogger(settings.LogLevel, settings.LogFormat)
	for _, w := range warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, settings, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open storage")
	}
	defer store.Close()

	if err := serve(ctx, settings.ListenAddr, newServer(ctx, store, log), settings.LeaderboardKey, *secretKey, *staticDir); err != nil {
		log.WithError(err).Error("Server stopped")
		return
	}
	log.Info("Server stopped")
}

// serve runs the HTTP server until ctx ends, then shuts it down and waits
// for the game connections to finish.
func serve(ctx context.Context, addr string, s *server, apiKey, secretKey, staticDir string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(apiKey, secretKey, staticDir),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		s.log.WithField("addr", addr).Info("🚀 Snake web server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.conns.Wait()
		return err
	})
	return grp.Wait()
}
