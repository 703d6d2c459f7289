package game

import "github.com/hetfly/snake-demo/pkg/config"

// InitialDirection is the committed direction of a fresh game
const InitialDirection = Right

// InitialSnake returns the starting snake, head first
func InitialSnake() []Point {
	return []Point{
		{X: 10, Y: 10},
		{X: 9, Y: 10},
		{X: 8, Y: 10},
	}
}

// NextPosition returns p moved one cell towards dir. The result may lie
// outside the board; WallCollision detects that.
func NextPosition(p Point, dir Direction) Point {
	d := dir.Delta()
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// InBounds reports whether p lies on the board
func InBounds(p Point) bool {
	return p.X >= 0 && p.X < config.GridSize && p.Y >= 0 && p.Y < config.GridSize
}
