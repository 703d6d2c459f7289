package config

import "time"

// Board dimensions
const (
	GridSize = 20 // Cells per side, the board is GridSize x GridSize
	CellSize = 20 // Pixel size of a cell for graphical clients
)

// Speed settings: Speed is the interval between two simulation steps
const (
	InitialSpeed   = 150 * time.Millisecond
	SpeedIncrement = 5 * time.Millisecond // Faster by this much per food eaten
	MinSpeed       = 80 * time.Millisecond
)

// Loop settings
const (
	FrameInterval = 16 * time.Millisecond // Render loop (~60 FPS)
)

// Persistence and leaderboard settings
const (
	HighScoreKey            = "snake-game-state"
	MaxPlayerNameLength     = 20
	FallbackCapacity        = 100 // Top entries kept when the remote leaderboard is unavailable
	DefaultLeaderboardLimit = 10
	DefaultHTTPTimeout      = 5 * time.Second
)

// Emoji characters for rendering
const (
	CharEmpty = "  " // Two spaces to match emoji width
	CharWall  = "⬜"
	CharHead  = "🟢"
	CharBody  = "🟩"
	CharFood  = "🔴"
	CharCrash = "💥"
)
