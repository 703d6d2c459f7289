package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Settings holds runtime configuration shared by the commands.
type Settings struct {
	LeaderboardURL string
	LeaderboardKey string
	HTTPTimeout    time.Duration

	Store     string // "sqlite" or "redis"
	DBPath    string
	RedisAddr string

	ListenAddr string
	RecordDir  string

	LogLevel  string
	LogFormat string // "text" or "json"
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		HTTPTimeout: DefaultHTTPTimeout,
		Store:       "sqlite",
		DBPath:      "data/game.db",
		RedisAddr:   "localhost:6379",
		ListenAddr:  ":8080",
		RecordDir:   "records",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads the given env files (".env" when none are given) and then the
// process environment. Missing env files are ignored. Values that cannot be
// parsed keep their default and are returned as warnings.
func Load(envFiles ...string) (Settings, []string, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	s := Defaults()
	var warnings []string

	s.LeaderboardURL = strings.TrimRight(os.Getenv("SNAKE_LEADERBOARD_URL"), "/")
	s.LeaderboardKey = os.Getenv("SNAKE_LEADERBOARD_KEY")
	setString(&s.Store, "SNAKE_STORE")
	setString(&s.DBPath, "SNAKE_DB_PATH")
	setString(&s.RedisAddr, "SNAKE_REDIS_ADDR")
	setString(&s.ListenAddr, "SNAKE_LISTEN_ADDR")
	setString(&s.RecordDir, "SNAKE_RECORD_DIR")
	setString(&s.LogLevel, "SNAKE_LOG_LEVEL")
	setString(&s.LogFormat, "SNAKE_LOG_FORMAT")

	if v := os.Getenv("SNAKE_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			warnings = append(warnings, fmt.Sprintf("invalid SNAKE_HTTP_TIMEOUT %q, using %s", v, s.HTTPTimeout))
		} else {
			s.HTTPTimeout = d
		}
	}

	return s, warnings, nil
}

// LeaderboardConfigured reports whether a remote leaderboard is set up.
func (s Settings) LeaderboardConfigured() bool {
	return s.LeaderboardURL != "" && s.LeaderboardKey != ""
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// NewLogger builds the logger used by the commands. An unknown level falls
// back to info.
func NewLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
