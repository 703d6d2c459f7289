package input

import "github.com/hetfly/snake-demo/pkg/game"

// CommandKind is an abstract request to the engine
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdStart
	CmdPause
	CmdResume
	CmdChangeDirection
	CmdReset
	CmdQuit
)

// Command is what the host applies to the engine
type Command struct {
	Kind      CommandKind
	Direction game.Direction
}

// Engine is the part of the game the commands drive
type Engine interface {
	Start() bool
	Pause() bool
	Resume() bool
	Reset()
	ChangeDirection(game.Direction) bool
}

// ToggleCommand maps the single start/pause/resume key to the command that
// fits the current status.
func ToggleCommand(status game.Status) Command {
	switch status {
	case game.StatusIdle:
		return Command{Kind: CmdStart}
	case game.StatusPlaying:
		return Command{Kind: CmdPause}
	case game.StatusPaused:
		return Command{Kind: CmdResume}
	}
	return Command{Kind: CmdNone}
}

// ParseCommand translates a key press into a command for a game in status.
// Reset is only offered once the game is over.
func ParseCommand(in KeyInput, status game.Status) Command {
	switch {
	case IsQuit(in):
		return Command{Kind: CmdQuit}
	case IsToggle(in):
		return ToggleCommand(status)
	case IsRestart(in):
		if status == game.StatusGameOver {
			return Command{Kind: CmdReset}
		}
		return Command{Kind: CmdNone}
	}
	if dir, ok := ParseDirection(in); ok {
		return Command{Kind: CmdChangeDirection, Direction: dir}
	}
	return Command{Kind: CmdNone}
}

// ParseAction translates a client action name ("up", "pause", ...) into a
// command, as sent by web clients.
func ParseAction(action string, status game.Status) Command {
	switch action {
	case "start":
		return Command{Kind: CmdStart}
	case "pause":
		return Command{Kind: CmdPause}
	case "resume":
		return Command{Kind: CmdResume}
	case "toggle":
		return ToggleCommand(status)
	case "reset", "restart":
		return Command{Kind: CmdReset}
	}
	if dir, ok := game.ParseDirection(action); ok {
		return Command{Kind: CmdChangeDirection, Direction: dir}
	}
	return Command{Kind: CmdNone}
}

// Apply runs cmd against e and reports whether the state changed.
func Apply(e Engine, cmd Command) bool {
	switch cmd.Kind {
	case CmdStart:
		return e.Start()
	case CmdPause:
		return e.Pause()
	case CmdResume:
		return e.Resume()
	case CmdChangeDirection:
		return e.ChangeDirection(cmd.Direction)
	case CmdReset:
		e.Reset()
		return true
	}
	return false
}
