// Package action describes what the bot does to the board: single clicks,
// the queue that orders them, and the decision a brain returns per cycle.
package action

import (
	"fmt"

	"github.com/entrhq/powersweeper/pkg/board"
)

// Kind is the type of click.
type Kind int

const (
	// Clear uncovers a cell.
	Clear Kind = iota
	// Flag marks a cell as a mine.
	Flag
)

func (k Kind) String() string {
	switch k {
	case Clear:
		return "clear"
	case Flag:
		return "flag"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is a single click on one cell.
type Action struct {
	Kind     Kind
	Location board.TileLocation
	// Speculative marks clicks that were guessed rather than deduced.
	Speculative bool
}

// NewClear returns a deduced clear of loc.
func NewClear(loc board.TileLocation) Action {
	return Action{Kind: Clear, Location: loc}
}

// NewFlag returns a deduced flag of loc.
func NewFlag(loc board.TileLocation) Action {
	return Action{Kind: Flag, Location: loc}
}

// NewSpeculativeClear returns a guessed clear of loc.
func NewSpeculativeClear(loc board.TileLocation) Action {
	return Action{Kind: Clear, Location: loc, Speculative: true}
}

// Coordinate returns the target cell.
func (a Action) Coordinate() board.Coordinate {
	return a.Location.Coordinate()
}

func (a Action) String() string {
	if a.Speculative {
		return fmt.Sprintf("%s %s (speculative)", a.Kind, a.Coordinate())
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Coordinate())
}
