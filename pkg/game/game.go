package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/hetfly/snake-demo/pkg/config"
)

// Game is the simulation engine. It has no timers of its own: a host calls
// Tick at the interval reported by Speed. All methods are safe to call from
// several goroutines and run as one critical section.
type Game struct {
	mu sync.Mutex

	snake         []Point
	food          Point
	direction     Direction // Committed direction of the last move
	nextDirection Direction // Pending direction applied on the next Tick
	score         int
	highScore     int
	speed         time.Duration
	status        Status

	rng *rand.Rand
}

// TickResult describes what a single Tick did
type TickResult struct {
	Moved         bool
	Ate           bool
	HighScoreRose bool
	GameOver      bool
	CrashPoint    Point
}

// NewGame creates a new idle game. highScore seeds the high score, usually
// from a persisted value. A nil rng gets a time-seeded source.
func NewGame(highScore int, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if highScore < 0 {
		highScore = 0
	}
	g := &Game{highScore: highScore, rng: rng}
	g.resetLocked()
	return g
}

func (g *Game) resetLocked() {
	g.snake = InitialSnake()
	g.food = PlaceFood(g.rng, g.snake)
	g.direction = InitialDirection
	g.nextDirection = InitialDirection
	g.score = 0
	g.speed = config.InitialSpeed
	g.status = StatusIdle
}

// Start moves an idle game to playing
func (g *Game) Start() bool {
	return g.transition(StatusIdle, StatusPlaying)
}

// Pause moves a running game to paused
func (g *Game) Pause() bool {
	return g.transition(StatusPlaying, StatusPaused)
}

// Resume moves a paused game back to playing
func (g *Game) Resume() bool {
	return g.transition(StatusPaused, StatusPlaying)
}

func (g *Game) transition(from, to Status) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != from {
		return false
	}
	g.status = to
	return true
}

// Reset restores a fresh idle game. The high score is kept.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

// ChangeDirection buffers dir for the next Tick. It is ignored unless the
// game is playing, and when dir reverses the committed direction. A later
// call before the next Tick replaces the buffered value.
func (g *Game) ChangeDirection(dir Direction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != StatusPlaying || !dir.Valid() {
		return false
	}
	if dir == g.direction.Opposite() {
		return false
	}
	g.nextDirection = dir
	return true
}

// Tick advances the game by one step. It does nothing unless playing.
func (g *Game) Tick() TickResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	var res TickResult
	if g.status != StatusPlaying {
		return res
	}
	res.Moved = true

	g.direction = g.nextDirection
	newHead := NextPosition(g.snake[0], g.direction)

	if FoodCollision(newHead, g.food) {
		res.Ate = true
		g.snake = append([]Point{newHead}, g.snake...)
		g.score++
		if g.score > g.highScore {
			g.highScore = g.score
			res.HighScoreRose = true
		}
		g.speed -= config.SpeedIncrement
		if g.speed < config.MinSpeed {
			g.speed = config.MinSpeed
		}
		g.food = PlaceFood(g.rng, g.snake)
	} else {
		moved := make([]Point, len(g.snake))
		moved[0] = newHead
		copy(moved[1:], g.snake[:len(g.snake)-1])
		g.snake = moved
	}

	// Growth above is not rolled back when the same move collides
	if WallCollision(newHead) || SelfCollision(g.snake) {
		g.status = StatusGameOver
		res.GameOver = true
		res.CrashPoint = newHead
	}
	return res
}

// Status returns the current status
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Speed returns the interval the host should wait between two Ticks
func (g *Game) Speed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speed
}

// HighScore returns the best score seen by this engine
func (g *Game) HighScore() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.highScore
}

// Snapshot returns a copy of the game state for serialization and rendering
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snake := make([]Point, len(g.snake))
	copy(snake, g.snake)
	return Snapshot{
		Snake:         snake,
		Food:          g.food,
		Direction:     g.direction,
		NextDirection: g.nextDirection,
		Score:         g.score,
		HighScore:     g.highScore,
		Speed:         g.speed,
		Status:        g.status,
	}
}

// GetGameConfig returns the current game configuration
func (g *Game) GetGameConfig() GameConfig {
	return GameConfig{
		GridSize:     config.GridSize,
		CellSize:     config.CellSize,
		InitialSpeed: int(config.InitialSpeed.Milliseconds()),
		MinSpeed:     int(config.MinSpeed.Milliseconds()),
	}
}
