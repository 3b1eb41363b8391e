package action

import (
	"errors"
	"fmt"
)

// Outcome is the kind of result a brain produced.
type Outcome int

const (
	// OutcomeAct carries deduced actions.
	OutcomeAct Outcome = iota
	// OutcomeExplore carries a speculative click.
	OutcomeExplore
	// OutcomeNavigate asks to move to another chunk.
	OutcomeNavigate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAct:
		return "act"
	case OutcomeExplore:
		return "explore"
	case OutcomeNavigate:
		return "navigate"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Offset is a relative chunk move.
type Offset struct {
	DX int64
	DY int64
}

// IsZero reports whether the offset moves nowhere.
func (o Offset) IsZero() bool {
	return o.DX == 0 && o.DY == 0
}

func (o Offset) String() string {
	return fmt.Sprintf("%+d,%+d", o.DX, o.DY)
}

// Decision is what a brain wants done after looking at a chunk.
type Decision struct {
	Outcome Outcome
	Actions []Action
	Offset  Offset
}

// Act returns a decision carrying deduced actions.
func Act(actions ...Action) Decision {
	return Decision{Outcome: OutcomeAct, Actions: actions}
}

// Explore returns a decision carrying speculative actions.
func Explore(actions ...Action) Decision {
	return Decision{Outcome: OutcomeExplore, Actions: actions}
}

// Navigate returns a decision to move by (dx, dy) chunks.
func Navigate(dx, dy int64) Decision {
	return Decision{Outcome: OutcomeNavigate, Offset: Offset{DX: dx, DY: dy}}
}

// ErrInvalidDecision is matched by every Validate failure.
var ErrInvalidDecision = errors.New("invalid decision")

// Validate checks that the decision is well formed.
func (d Decision) Validate() error {
	switch d.Outcome {
	case OutcomeAct, OutcomeExplore:
		if len(d.Actions) == 0 {
			return fmt.Errorf("%w: %s without actions", ErrInvalidDecision, d.Outcome)
		}
		if !d.Offset.IsZero() {
			return fmt.Errorf("%w: %s with offset %s", ErrInvalidDecision, d.Outcome, d.Offset)
		}
	case OutcomeNavigate:
		if d.Offset.IsZero() {
			return fmt.Errorf("%w: navigate without offset", ErrInvalidDecision)
		}
		if len(d.Actions) > 0 {
			return fmt.Errorf("%w: navigate with %d actions", ErrInvalidDecision, len(d.Actions))
		}
	default:
		return fmt.Errorf("%w: unknown outcome %d", ErrInvalidDecision, int(d.Outcome))
	}
	return nil
}

func (d Decision) String() string {
	if d.Outcome == OutcomeNavigate {
		return fmt.Sprintf("navigate %s", d.Offset)
	}
	return fmt.Sprintf("%s (%d actions)", d.Outcome, len(d.Actions))
}
