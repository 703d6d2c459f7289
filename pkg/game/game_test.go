package game

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPlayingGame builds a game already in the playing state with the given
// body, committed direction and food.
func newPlayingGame(t *testing.T, snake []Point, dir Direction, food Point) *Game {
	t.Helper()
	g := NewGame(0, rand.New(rand.NewSource(1)))
	require.True(t, g.Start())
	g.snake = snake
	g.direction = dir
	g.nextDirection = dir
	g.food = food
	return g
}

func TestNewGameIsIdle(t *testing.T) {
	g := NewGame(7, rand.New(rand.NewSource(1)))
	s := g.Snapshot()

	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, InitialSnake(), s.Snake)
	assert.Equal(t, Right, s.Direction)
	assert.Equal(t, Right, s.NextDirection)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 7, s.HighScore)
	assert.Equal(t, config.InitialSpeed, s.Speed)
	assert.False(t, occupies(s.Snake, s.Food), "food %v on snake", s.Food)
}

func TestStatusTransitions(t *testing.T) {
	g := NewGame(0, rand.New(rand.NewSource(1)))

	assert.False(t, g.Pause(), "pause from idle")
	assert.False(t, g.Resume(), "resume from idle")
	assert.True(t, g.Start())
	assert.Equal(t, StatusPlaying, g.Status())

	assert.False(t, g.Start(), "start while playing")
	assert.False(t, g.Resume(), "resume while playing")
	assert.True(t, g.Pause())
	assert.Equal(t, StatusPaused, g.Status())

	assert.False(t, g.Pause(), "pause while paused")
	assert.False(t, g.Start(), "start while paused")
	assert.True(t, g.Resume())
	assert.Equal(t, StatusPlaying, g.Status())

	g.Reset()
	assert.Equal(t, StatusIdle, g.Status())
}

func TestTickDoesNothingUnlessPlaying(t *testing.T) {
	g := NewGame(0, rand.New(rand.NewSource(1)))
	before := g.Snapshot()

	res := g.Tick()
	assert.False(t, res.Moved)
	assert.Equal(t, before, g.Snapshot())

	g.Start()
	g.Pause()
	res = g.Tick()
	assert.False(t, res.Moved)
	assert.Equal(t, before.Snake, g.Snapshot().Snake)
}

func TestChangeDirectionRejectsReversal(t *testing.T) {
	g := newPlayingGame(t, []Point{{10, 10}, {9, 10}, {8, 10}}, Right, Point{0, 0})

	assert.False(t, g.ChangeDirection(Left))
	assert.Equal(t, Right, g.Snapshot().NextDirection)

	g.Tick()
	assert.Equal(t, []Point{{11, 10}, {10, 10}, {9, 10}}, g.Snapshot().Snake)
}

func TestChangeDirectionComparesCommittedDirection(t *testing.T) {
	g := newPlayingGame(t, []Point{{10, 10}, {9, 10}, {8, 10}}, Right, Point{0, 0})

	// Up is pending, but Down is still legal: only the committed Right counts
	assert.True(t, g.ChangeDirection(Up))
	assert.False(t, g.ChangeDirection(Left))
	assert.Equal(t, Up, g.Snapshot().NextDirection)
	assert.True(t, g.ChangeDirection(Down))
	assert.Equal(t, Down, g.Snapshot().NextDirection)

	g.Tick()
	s := g.Snapshot()
	assert.Equal(t, Down, s.Direction)
	assert.Equal(t, Point{10, 11}, s.Head())
}

func TestChangeDirectionIgnoredUnlessPlaying(t *testing.T) {
	g := NewGame(0, rand.New(rand.NewSource(1)))
	assert.False(t, g.ChangeDirection(Up))
	assert.Equal(t, Right, g.Snapshot().NextDirection)

	g.Start()
	g.Pause()
	assert.False(t, g.ChangeDirection(Up))
	assert.Equal(t, Right, g.Snapshot().NextDirection)
}

func TestChangeDirectionRejectsUnknownValue(t *testing.T) {
	g := newPlayingGame(t, InitialSnake(), Right, Point{0, 0})
	assert.False(t, g.ChangeDirection(Direction(42)))
	assert.Equal(t, Right, g.Snapshot().NextDirection)
}

func TestTickWallCollision(t *testing.T) {
	g := newPlayingGame(t, []Point{{19, 10}, {18, 10}, {17, 10}}, Right, Point{0, 0})

	res := g.Tick()
	s := g.Snapshot()

	assert.True(t, res.GameOver)
	assert.Equal(t, Point{20, 10}, res.CrashPoint)
	assert.Equal(t, Point{20, 10}, s.Head())
	assert.Equal(t, StatusGameOver, s.Status)

	// Nothing moves after game over
	g.Tick()
	assert.Equal(t, s, g.Snapshot())
}

func TestTickEatsFood(t *testing.T) {
	g := newPlayingGame(t, []Point{{10, 10}, {9, 10}, {8, 10}}, Right, Point{11, 10})

	res := g.Tick()
	s := g.Snapshot()

	assert.True(t, res.Ate)
	assert.True(t, res.HighScoreRose)
	assert.False(t, res.GameOver)
	assert.Equal(t, []Point{{11, 10}, {10, 10}, {9, 10}, {8, 10}}, s.Snake)
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, 1, s.HighScore)
	assert.Equal(t, config.InitialSpeed-config.SpeedIncrement, s.Speed)
	assert.False(t, occupies(s.Snake, s.Food), "new food %v on snake", s.Food)
	assert.True(t, InBounds(s.Food))
}

func TestEatingKeepsHigherHighScore(t *testing.T) {
	g := newPlayingGame(t, InitialSnake(), Right, Point{11, 10})
	g.highScore = 50

	res := g.Tick()
	assert.True(t, res.Ate)
	assert.False(t, res.HighScoreRose)
	assert.Equal(t, 50, g.HighScore())
}

func TestSpeedIsFloored(t *testing.T) {
	g := newPlayingGame(t, InitialSnake(), Right, Point{11, 10})
	g.speed = config.MinSpeed + config.SpeedIncrement/2

	g.Tick()
	assert.Equal(t, config.MinSpeed, g.Speed())

	g.food = NextPosition(g.Snapshot().Head(), Right)
	g.Tick()
	assert.Equal(t, config.MinSpeed, g.Speed())
}

func TestLengthInvariantWithoutFood(t *testing.T) {
	g := newPlayingGame(t, InitialSnake(), Right, Point{0, 0})

	moves := []Direction{Right, Down, Down, Left, Left, Up, Left, Down}
	for _, m := range moves {
		g.ChangeDirection(m)
		res := g.Tick()
		require.False(t, res.GameOver)
		require.False(t, res.Ate)
		assert.Len(t, g.Snapshot().Snake, len(InitialSnake()))
	}
}

func TestEatingThenSelfCollisionIsGameOver(t *testing.T) {
	// Food on the tail cell cannot happen in play; it is placed by hand to
	// check that growth from the same move is kept on game over.
	snake := []Point{{5, 5}, {6, 5}, {6, 6}, {5, 6}}
	g := newPlayingGame(t, snake, Left, Point{5, 6})
	require.True(t, g.ChangeDirection(Down))

	res := g.Tick()
	s := g.Snapshot()

	assert.True(t, res.Ate)
	assert.True(t, res.GameOver)
	assert.Equal(t, StatusGameOver, s.Status)
	assert.Len(t, s.Snake, 5)
	assert.Equal(t, 1, s.Score)
}

func TestSelfCollisionDuringPlay(t *testing.T) {
	// Head turns back into the body of a five segment snake
	snake := []Point{{5, 5}, {6, 5}, {6, 6}, {5, 6}, {4, 6}}
	g := newPlayingGame(t, snake, Left, Point{0, 0})
	require.True(t, g.ChangeDirection(Down))

	res := g.Tick()
	assert.True(t, res.GameOver)
	assert.False(t, res.Ate)
	assert.Equal(t, StatusGameOver, g.Status())
}

func TestResetAfterGameOver(t *testing.T) {
	g := newPlayingGame(t, []Point{{19, 10}, {18, 10}, {17, 10}}, Right, Point{0, 0})
	g.score = 12
	g.highScore = 12
	g.speed = config.MinSpeed

	g.Tick()
	require.Equal(t, StatusGameOver, g.Status())

	g.Reset()
	s := g.Snapshot()
	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, InitialSnake(), s.Snake)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 12, s.HighScore)
	assert.Equal(t, config.InitialSpeed, s.Speed)
	assert.Equal(t, Right, s.Direction)
	assert.Equal(t, Right, s.NextDirection)
	assert.False(t, occupies(s.Snake, s.Food))
}

func TestSnapshotIsACopy(t *testing.T) {
	g := NewGame(0, rand.New(rand.NewSource(1)))
	s := g.Snapshot()
	s.Snake[0] = Point{X: -5, Y: -5}

	assert.Equal(t, InitialSnake()[0], g.Snapshot().Head())
}

func TestScoreProgression(t *testing.T) {
	g := newPlayingGame(t, InitialSnake(), Right, Point{11, 10})

	prev := g.Snapshot()
	for i := 0; i < 3; i++ {
		g.food = NextPosition(g.Snapshot().Head(), Right)
		res := g.Tick()
		require.True(t, res.Ate)

		cur := g.Snapshot()
		assert.Equal(t, prev.Score+1, cur.Score)
		assert.GreaterOrEqual(t, cur.HighScore, prev.HighScore)
		assert.LessOrEqual(t, cur.Speed, prev.Speed)
		assert.GreaterOrEqual(t, cur.Speed, config.MinSpeed)
		assert.Len(t, cur.Snake, len(prev.Snake)+1)
		prev = cur
	}
}

func TestConcurrentDirectionChangesAndTicks(t *testing.T) {
	g := newPlayingGame(t, InitialSnake(), Right, Point{0, 0})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			g.ChangeDirection([]Direction{Up, Right, Down, Right}[i%4])
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			g.Tick()
		}
	}()
	wg.Wait()

	// Whatever interleaving happened, the snake never reversed into its neck
	s := g.Snapshot()
	if s.Status == StatusPlaying {
		assert.Len(t, s.Snake, 3)
		assert.NotEqual(t, s.Snake[0], s.Snake[1])
	}
}

func TestGameConfig(t *testing.T) {
	cfg := NewGame(0, nil).GetGameConfig()
	assert.Equal(t, config.GridSize, cfg.GridSize)
	assert.Equal(t, 150, cfg.InitialSpeed)
	assert.Equal(t, 80, cfg.MinSpeed)
}
