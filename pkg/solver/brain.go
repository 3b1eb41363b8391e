// Package solver decides what to do with an observed chunk.
//
// Every Brain looks at one fully classified chunk and returns exactly one
// action.Decision. Brains keep no memory of earlier chunks; Budgeted counts
// invocations but never inspects past boards.
package solver

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/entrhq/powersweeper/pkg/action"
	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/logging"
)

// Brain turns a chunk into a decision.
type Brain interface {
	Think(chunk *board.Chunk) (action.Decision, error)
}

// Brain names accepted by New.
const (
	NameDeduce = "deduce"
	NameRandom = "random"
	NameBudget = "budget"
)

// DefaultMoveBudget is the number of invocations after which Budgeted moves
// on to the next chunk.
const DefaultMoveBudget = 150

// Names lists the brains New knows about.
func Names() []string {
	names := []string{NameDeduce, NameRandom, NameBudget}
	sort.Strings(names)
	return names
}

type options struct {
	rng    *rand.Rand
	log    *logging.Logger
	budget int
}

// Option configures a brain.
type Option func(*options)

// WithRand sets the random source used for speculative clicks.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMoveBudget sets the invocation budget of the budget brain.
func WithMoveBudget(n int) Option {
	return func(o *options) { o.budget = n }
}

func newOptions(opts []Option) options {
	o := options{budget: DefaultMoveBudget}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.log == nil {
		o.log = logging.Nop()
	}
	if o.budget <= 0 {
		o.budget = DefaultMoveBudget
	}
	return o
}

// New returns the brain registered under name.
func New(name string, opts ...Option) (Brain, error) {
	switch name {
	case NameDeduce:
		return NewEngine(opts...), nil
	case NameRandom:
		return NewRandom(opts...), nil
	case NameBudget:
		o := newOptions(opts)
		return NewBudgeted(NewRandom(opts...), o.budget, WithLogger(o.log)), nil
	default:
		return nil, fmt.Errorf("unknown brain %q (known: %v)", name, Names())
	}
}

// Random clicks one uniformly random cell per invocation.
type Random struct {
	rng *rand.Rand
	log *logging.Logger
}

// NewRandom creates a Random brain.
func NewRandom(opts ...Option) *Random {
	o := newOptions(opts)
	return &Random{rng: o.rng, log: o.log}
}

// Think picks any cell regardless of its state. Cells that are not
// untouched are refused by the game, which costs the cycle but nothing else.
func (r *Random) Think(chunk *board.Chunk) (action.Decision, error) {
	x, y := r.rng.Intn(chunk.Width()), r.rng.Intn(chunk.Height())
	loc, err := chunk.TileLocation(x, y)
	if err != nil {
		return action.Decision{}, err
	}
	r.log.Debugf("random click on %s", loc)
	return action.Explore(action.NewSpeculativeClear(loc)), nil
}

// Budgeted moves on to the next chunk after a fixed number of invocations
// and delegates to another brain in between.
type Budgeted struct {
	inner   Brain
	budget  int
	counter int
	log     *logging.Logger
}

// NewBudgeted wraps inner. A non-positive budget uses DefaultMoveBudget.
func NewBudgeted(inner Brain, budget int, opts ...Option) *Budgeted {
	o := newOptions(append([]Option{WithMoveBudget(budget)}, opts...))
	return &Budgeted{inner: inner, budget: o.budget, log: o.log}
}

// Think counts the invocation. The last invocation of every budget yields a
// move to the chunk at (+1, 0) and resets the count.
func (b *Budgeted) Think(chunk *board.Chunk) (action.Decision, error) {
	b.counter++
	b.log.Debugf("%d moves out of %d performed", b.counter, b.budget)

	if b.counter >= b.budget {
		b.log.Infof("finished chunk %s, moving on", chunk.Location())
		b.counter = 0
		return action.Navigate(1, 0), nil
	}
	return b.inner.Think(chunk)
}

// Counter returns the invocations since the last move.
func (b *Budgeted) Counter() int {
	return b.counter
}
