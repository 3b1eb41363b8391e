package bot

import (
	"github.com/entrhq/powersweeper/pkg/action"
	"github.com/entrhq/powersweeper/pkg/board"
)

// EventType identifies what happened in the loop.
type EventType int

const (
	// EventStarted is sent once the first chunk is shown.
	EventStarted EventType = iota
	// EventObserved carries a freshly classified chunk.
	EventObserved
	// EventDecided carries the brain's decision.
	EventDecided
	// EventActed carries an executed or refused action.
	EventActed
	// EventMoved is sent after moving to another chunk.
	EventMoved
	// EventStopped is sent when Run returns.
	EventStopped
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventObserved:
		return "observed"
	case EventDecided:
		return "decided"
	case EventActed:
		return "acted"
	case EventMoved:
		return "moved"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is delivered to the observer synchronously from the loop.
type Event struct {
	Type     EventType
	Location board.ChunkLocation

	// Chunk is set on EventObserved.
	Chunk *board.Snapshot
	// Decision is set on EventDecided.
	Decision *action.Decision
	// Action and Applied are set on EventActed.
	Action  *action.Action
	Applied bool
	// Err is set on EventStopped when the run failed.
	Err error

	Stats Stats
}

// Observer receives loop events.
type Observer func(Event)
