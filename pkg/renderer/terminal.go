package renderer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/game"
)

// TerminalRenderer handles terminal-based rendering. It only reads the
// snapshots it is given.
type TerminalRenderer struct {
	out    io.Writer
	board  [][]int
	buffer strings.Builder
	clear  bool
}

// Cell types for the board
const (
	cellEmpty = iota
	cellWall
	cellHead
	cellBody
	cellFood
	cellCrash
)

// NewTerminalRenderer creates a renderer for a gridSize board writing to
// stdout.
func NewTerminalRenderer(gridSize int) *TerminalRenderer {
	return NewRenderer(os.Stdout, gridSize, true)
}

// NewRenderer creates a renderer writing to out. clear controls whether
// every frame starts by clearing the screen.
func NewRenderer(out io.Writer, gridSize int, clear bool) *TerminalRenderer {
	// Board plus a one cell wall on every side, allocated once
	size := gridSize + 2
	board := make([][]int, size)
	for i := range board {
		board[i] = make([]int, size)
	}

	return &TerminalRenderer{
		out:   out,
		board: board,
		clear: clear,
	}
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Fprint(r.out, "\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Fprint(r.out, "\033[?25l")
}

// Render draws one frame. extra lines (leaderboard, prompts) are printed
// below the board.
func (r *TerminalRenderer) Render(s game.Snapshot, extra ...string) {
	r.buffer.Reset()
	if r.clear {
		// Cursor home and clear, written with the frame to avoid flicker
		r.buffer.WriteString("\033[H\033[2J\033[3J")
	}

	size := len(r.board)
	for y := range r.board {
		for x := range r.board[y] {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				r.board[y][x] = cellWall
			} else {
				r.board[y][x] = cellEmpty
			}
		}
	}

	r.set(s.Food, cellFood)
	for i := len(s.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			r.set(s.Snake[i], cellHead)
		} else {
			r.set(s.Snake[i], cellBody)
		}
	}
	if s.Status == game.StatusGameOver && len(s.Snake) > 0 {
		r.set(s.Snake[0], cellCrash)
	}

	r.buffer.WriteString("\n  🐍 SNAKE 🐍\n")
	r.buffer.WriteString(fmt.Sprintf("  Score: %d  |  High Score: %d  |  Speed: %dms\n\n",
		s.Score, s.HighScore, s.Speed.Milliseconds()))

	for _, row := range r.board {
		r.buffer.WriteString("  ")
		for _, cell := range row {
			switch cell {
			case cellEmpty:
				r.buffer.WriteString(config.CharEmpty)
			case cellWall:
				r.buffer.WriteString(config.CharWall)
			case cellHead:
				r.buffer.WriteString(config.CharHead)
			case cellBody:
				r.buffer.WriteString(config.CharBody)
			case cellFood:
				r.buffer.WriteString(config.CharFood)
			case cellCrash:
				r.buffer.WriteString(config.CharCrash)
			}
		}
		r.buffer.WriteString("\n")
	}

	r.buffer.WriteString("\n  Use WASD or Arrow keys to move\n")
	r.buffer.WriteString("  SPACE to start/pause, Q to quit\n")

	switch s.Status {
	case game.StatusIdle:
		r.buffer.WriteString("\n  ▶️  Press SPACE to start\n")
	case game.StatusPaused:
		r.buffer.WriteString("\n  ⏸️  PAUSED - Press SPACE to continue\n")
	case game.StatusGameOver:
		r.buffer.WriteString(fmt.Sprintf("\n  💀 GAME OVER! Final score: %d. Press R to restart or Q to quit\n", s.Score))
	}

	for _, line := range extra {
		r.buffer.WriteString("  " + line + "\n")
	}

	io.WriteString(r.out, r.buffer.String())
}

// set marks a board cell; positions off the board and its walls are skipped.
func (r *TerminalRenderer) set(p game.Point, cell int) {
	y, x := p.Y+1, p.X+1
	if y < 0 || y >= len(r.board) || x < 0 || x >= len(r.board[y]) {
		return
	}
	r.board[y][x] = cell
}
