package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/leaderboard"
	"github.com/redis/go-redis/v9"
)

const (
	redisHighScoresKey  = "snake:highscores"  // sorted set: identifier -> best score
	redisLeaderboardKey = "snake:leaderboard" // sorted set: entry id -> score
	redisEntryPrefix    = "snake:entry:"      // hash per entry
)

// Redis stores the high score and leaderboard in sorted sets.
type Redis struct {
	rdb *redis.Client
}

// OpenRedis connects to addr and checks the connection.
func OpenRedis(ctx context.Context, addr string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Redis{rdb: rdb}, nil
}

// LoadHighScore returns the stored high score, 0 when none is stored.
func (r *Redis) LoadHighScore(ctx context.Context) (int, error) {
	score, err := r.rdb.ZScore(ctx, redisHighScoresKey, config.HighScoreKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load high score: %w", err)
	}
	return int(score), nil
}

// SaveHighScore stores score if it beats the stored value (ZADD GT).
func (r *Redis) SaveHighScore(ctx context.Context, score int) error {
	err := r.rdb.ZAddArgs(ctx, redisHighScoresKey, redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(score), Member: config.HighScoreKey}},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	return nil
}

// AddScore stores the entry hash and indexes it by score.
func (r *Redis) AddScore(ctx context.Context, e leaderboard.Entry) (leaderboard.Entry, error) {
	e = e.Complete()
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, redisEntryPrefix+e.ID,
			"player_name", e.PlayerName,
			"score", e.Score,
			"created_at", e.CreatedAt.UnixMilli(),
		)
		p.ZAdd(ctx, redisLeaderboardKey, redis.Z{Score: float64(e.Score), Member: e.ID})
		return nil
	})
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("failed to add score: %w", err)
	}
	return e, nil
}

// TopScores returns up to limit entries, best first.
func (r *Redis) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	ids, err := r.rdb.ZRevRange(ctx, redisLeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, redisEntryPrefix+id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard entries: %w", err)
	}

	entries := make([]leaderboard.Entry, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // Index points at a deleted hash
		}
		score, _ := strconv.Atoi(fields["score"])
		created, _ := strconv.ParseInt(fields["created_at"], 10, 64)
		entries = append(entries, leaderboard.Entry{
			ID:         ids[i],
			PlayerName: fields["player_name"],
			Score:      score,
			CreatedAt:  time.UnixMilli(created).UTC(),
		})
	}
	return entries, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
