package game

// SelfCollisionMinLength is the shortest snake that can run into itself.
// A snake one segment longer than the initial one is the first that can
// reach its own body in a single move, so shorter snakes are never checked.
var SelfCollisionMinLength = len(InitialSnake()) + 1

// WallCollision reports whether p is outside the board
func WallCollision(p Point) bool {
	return !InBounds(p)
}

// SelfCollision reports whether the head overlaps any other segment
func SelfCollision(snake []Point) bool {
	if len(snake) < SelfCollisionMinLength {
		return false
	}
	head := snake[0]
	for _, s := range snake[1:] {
		if s == head {
			return true
		}
	}
	return false
}

// FoodCollision reports whether the head is on the food
func FoodCollision(head, food Point) bool {
	return head == food
}

func occupies(snake []Point, p Point) bool {
	for _, s := range snake {
		if s == p {
			return true
		}
	}
	return false
}
