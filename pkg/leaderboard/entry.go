package leaderboard

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hetfly/snake-demo/pkg/config"
)

var (
	ErrEmptyName     = errors.New("player name is empty")
	ErrNameTooLong   = errors.New("player name is too long")
	ErrNegativeScore = errors.New("score is negative")
)

// Entry is one leaderboard row. The JSON shape matches the REST service.
type Entry struct {
	ID         string    `json:"id,omitempty"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is a source of leaderboard entries ordered by score.
type Store interface {
	AddScore(ctx context.Context, e Entry) (Entry, error)
	TopScores(ctx context.Context, limit int) ([]Entry, error)
}

// NewEntry validates the submission and fills in the ID and timestamp.
func NewEntry(playerName string, score int) (Entry, error) {
	name, err := NormalizeName(playerName)
	if err != nil {
		return Entry{}, err
	}
	if score < 0 {
		return Entry{}, ErrNegativeScore
	}
	return Entry{
		ID:         uuid.NewString(),
		PlayerName: name,
		Score:      score,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// NormalizeName trims the name and checks its length in characters.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > config.MaxPlayerNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Complete fills in a missing ID and timestamp, used by stores that accept
// entries built elsewhere.
func (e Entry) Complete() Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e
}

// ClampLimit maps non-positive limits to the default and caps the rest.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultLeaderboardLimit
	}
	if limit > config.FallbackCapacity {
		return config.FallbackCapacity
	}
	return limit
}

// IsValidation reports whether err comes from rejecting a submission
// rather than from the transport.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) || errors.Is(err, ErrNameTooLong) || errors.Is(err, ErrNegativeScore)
}
