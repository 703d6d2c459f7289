package game

import "time"

// Point represents a coordinate on the game board
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is one of the four movement directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the one-cell offset for the direction
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 1, Y: 0}
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return "UNKNOWN"
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection parses "up", "DOWN", ... into a Direction
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up", "UP":
		return Up, true
	case "down", "DOWN":
		return Down, true
	case "left", "LEFT":
		return Left, true
	case "right", "RIGHT":
		return Right, true
	}
	return 0, false
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(b []byte) error {
	dir, ok := ParseDirection(string(b))
	if !ok {
		return &UnknownValueError{Kind: "direction", Value: string(b)}
	}
	*d = dir
	return nil
}

// Status is the top-level state of a game
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "gameOver"
	}
	return "unknown"
}

// MarshalText encodes the status by name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name
func (s *Status) UnmarshalText(b []byte) error {
	for _, st := range []Status{StatusIdle, StatusPlaying, StatusPaused, StatusGameOver} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return &UnknownValueError{Kind: "status", Value: string(b)}
}

// UnknownValueError is returned when decoding an enum name fails
type UnknownValueError struct {
	Kind  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return "unknown " + e.Kind + " " + e.Value
}

// Snapshot is a read-only copy of the game for renderers and clients
type Snapshot struct {
	Snake         []Point       `json:"snake"`
	Food          Point         `json:"food"`
	Direction     Direction     `json:"direction"`
	NextDirection Direction     `json:"nextDirection"`
	Score         int           `json:"score"`
	HighScore     int           `json:"highScore"`
	Speed         time.Duration `json:"speed"`
	Status        Status        `json:"status"`
}

// Head returns the head of the snake in the snapshot
func (s Snapshot) Head() Point {
	if len(s.Snake) == 0 {
		return Point{}
	}
	return s.Snake[0]
}

// GameConfig is a DTO for game settings sent to client on connect
type GameConfig struct {
	GridSize     int `json:"gridSize"`
	CellSize     int `json:"cellSize"`
	InitialSpeed int `json:"initialSpeed"` // milliseconds
	MinSpeed     int `json:"minSpeed"`     // milliseconds
}

// StepRecord is one line of a game recording
type StepRecord struct {
	Step     int       `json:"step"`
	Time     time.Time `json:"time"`
	Snapshot Snapshot  `json:"snapshot"`
}
