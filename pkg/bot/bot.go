// Package bot runs the observe, decide and act loop against a game.
package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/entrhq/powersweeper/pkg/action"
	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/game"
	"github.com/entrhq/powersweeper/pkg/logging"
	"github.com/entrhq/powersweeper/pkg/metrics"
	"github.com/entrhq/powersweeper/pkg/solver"
)

// DefaultDelay is the pause between two loop iterations.
const DefaultDelay = 750 * time.Millisecond

// Random starts fall in [startOrigin, startOrigin+startSpread) on both axes.
const (
	startOrigin = 1337
	startSpread = 3000
)

// Bot drives one game with one brain. A Bot runs once.
type Bot struct {
	game     game.Interface
	brain    solver.Brain
	log      *logging.Logger
	delay    time.Duration
	maxCycle int
	recorder *metrics.Recorder
	observer Observer

	queue   *action.Queue
	stats   Stats
	stopped atomic.Bool
}

// Option configures a Bot.
type Option func(*Bot)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(b *Bot) { b.log = l }
}

// WithDelay sets the pause between iterations. Zero disables pausing.
func WithDelay(d time.Duration) Option {
	return func(b *Bot) { b.delay = d }
}

// WithMaxCycles stops the run after n observations once the queue is
// drained. Zero means unlimited.
func WithMaxCycles(n int) Option {
	return func(b *Bot) { b.maxCycle = n }
}

// WithRecorder counts loop activity.
func WithRecorder(r *metrics.Recorder) Option {
	return func(b *Bot) { b.recorder = r }
}

// WithObserver receives every loop event.
func WithObserver(o Observer) Option {
	return func(b *Bot) { b.observer = o }
}

// New creates a Bot.
func New(g game.Interface, brain solver.Brain, opts ...Option) *Bot {
	b := &Bot{
		game:  g,
		brain: brain,
		log:   logging.Nop(),
		delay: DefaultDelay,
		queue: action.NewQueue(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logging.Nop()
	}
	return b
}

// RandomStart returns the start chunk with x and y where given. Each nil axis
// is picked at random.
func RandomStart(rng *rand.Rand, x, y *int64) board.ChunkLocation {
	axis := func(v *int64) int64 {
		if v != nil {
			return *v
		}
		return int64(startOrigin + rng.Intn(startSpread))
	}
	return board.ChunkLocation{X: axis(x), Y: axis(y)}
}

// Stop ends the run at the next iteration. Safe for concurrent use.
func (b *Bot) Stop() {
	b.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (b *Bot) Stopped() bool {
	return b.stopped.Load()
}

// Pending returns the queued actions.
func (b *Bot) Pending() int {
	return b.queue.Len()
}

// Run moves to start and loops until Stop, the cycle limit, an error or ctx
// cancellation. Stats are returned in every case.
func (b *Bot) Run(ctx context.Context, start board.ChunkLocation) (*Stats, error) {
	b.stats = Stats{StartTime: time.Now()}

	err := b.run(ctx, start)

	b.stats.EndTime = time.Now()
	b.emit(Event{Type: EventStopped, Location: b.game.Location(), Err: err})
	if err != nil {
		b.log.Errorf("run ended: %v", err)
	} else {
		b.log.Infof("run ended after %d cycles (%d clears, %d flags, %d chunks)",
			b.stats.Cycles, b.stats.Clears, b.stats.Flags, len(b.stats.Chunks))
	}

	stats := b.stats.clone()
	return &stats, err
}

func (b *Bot) run(ctx context.Context, start board.ChunkLocation) error {
	if err := b.moveTo(ctx, start); err != nil {
		return err
	}
	b.emit(Event{Type: EventStarted, Location: start})

	for !b.stopped.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if b.queue.Empty() {
			if b.maxCycle > 0 && b.stats.Cycles >= b.maxCycle {
				b.log.Infof("reached %d cycles", b.maxCycle)
				return nil
			}
			if err := b.cycle(ctx); err != nil {
				return err
			}
		} else {
			a, _ := b.queue.Pop()
			if err := b.perform(ctx, a); err != nil {
				return err
			}
		}

		if err := b.sleep(ctx); err != nil {
			return err
		}
	}
	return nil
}

// cycle observes the chunk, asks the brain and applies its decision.
func (b *Bot) cycle(ctx context.Context) error {
	b.stats.Cycles++
	b.recorder.Cycle()

	begin := time.Now()
	chunk, err := b.game.Update(ctx)
	if err != nil {
		return fmt.Errorf("failed to observe chunk %s: %w", b.game.Location(), err)
	}
	b.recorder.ObserveUpdate(time.Since(begin))

	snap := chunk.Snapshot()
	b.emit(Event{Type: EventObserved, Location: chunk.Location(), Chunk: &snap})

	decision, err := b.brain.Think(chunk)
	if err != nil {
		return fmt.Errorf("brain failed on chunk %s: %w", chunk.Location(), err)
	}
	if err := decision.Validate(); err != nil {
		return err
	}

	b.recorder.Decision(decision.Outcome.String())
	b.log.Debugf("cycle %d: %s", b.stats.Cycles, decision)
	b.emit(Event{Type: EventDecided, Location: chunk.Location(), Decision: &decision})

	switch decision.Outcome {
	case action.OutcomeAct:
		b.stats.Deductions++
		b.queue.Push(decision.Actions...)
	case action.OutcomeExplore:
		b.stats.Explorations++
		b.queue.Push(decision.Actions...)
	case action.OutcomeNavigate:
		b.queue.Reset()
		return b.moveTo(ctx, b.game.Location().Relative(decision.Offset.DX, decision.Offset.DY))
	}
	return nil
}

// perform executes one queued action. Refused clicks are counted and
// skipped; failed clicks are logged and skipped.
func (b *Bot) perform(ctx context.Context, a action.Action) error {
	var (
		ok  bool
		err error
	)
	switch a.Kind {
	case action.Flag:
		ok, err = b.game.Flag(ctx, a.Location.X, a.Location.Y)
	default:
		ok, err = b.game.Uncover(ctx, a.Location.X, a.Location.Y)
	}

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, board.ErrOutOfBounds) {
			return fmt.Errorf("failed to %s: %w", a, err)
		}
		b.stats.Failed++
		b.recorder.Action(a.Kind.String(), metrics.ResultError)
		b.log.Warnf("failed to %s: %v", a, err)
		return nil
	}

	if !ok {
		b.stats.Refused++
		b.recorder.Action(a.Kind.String(), metrics.ResultRefused)
		b.log.Debugf("refused %s", a)
	} else {
		switch a.Kind {
		case action.Flag:
			b.stats.Flags++
		default:
			b.stats.Clears++
		}
		if a.Speculative {
			b.stats.Speculative++
		}
		b.recorder.Action(a.Kind.String(), metrics.ResultApplied)
		b.log.Verbosef("%s", a)
	}

	b.emit(Event{Type: EventActed, Location: b.game.Location(), Action: &a, Applied: ok})
	return nil
}

func (b *Bot) moveTo(ctx context.Context, loc board.ChunkLocation) error {
	if err := b.game.MoveTo(ctx, loc); err != nil {
		return err
	}
	if len(b.stats.Chunks) > 0 {
		b.stats.Navigations++
		b.recorder.Navigation()
		b.emit(Event{Type: EventMoved, Location: loc})
	}
	b.stats.visit(loc)
	return nil
}

func (b *Bot) sleep(ctx context.Context) error {
	if b.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *Bot) emit(e Event) {
	if b.observer == nil {
		return
	}
	e.Stats = b.stats.clone()
	b.observer(e)
}
