package game

import (
	"math/rand"

	"github.com/hetfly/snake-demo/pkg/config"
)

// PlaceFood picks a uniformly random free cell by rejection sampling.
// It never returns a cell occupied by the snake. If the snake covers the
// whole board it does not return; snakes never get that long in play.
func PlaceFood(rng *rand.Rand, snake []Point) Point {
	for {
		pos := Point{
			X: rng.Intn(config.GridSize),
			Y: rng.Intn(config.GridSize),
		}
		if !occupies(snake, pos) {
			return pos
		}
	}
}
