package solver

import (
	"math/rand"
	"sort"

	"github.com/entrhq/powersweeper/pkg/action"
	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/logging"
)

const (
	// minContext is the smallest neighbor set a number tile needs to take
	// part in deduction. Edge and corner tiles fall below it.
	minContext = 6

	// Exploration tiles have a full neighborhood, a low value and plenty of
	// untouched neighbors.
	exploreMinNeighbors = 5
	exploreMaxValue     = 4
	exploreMinUntouched = 4
)

// Engine applies single pass local deduction to a chunk and falls back to
// guesses or navigation when nothing can be proven.
type Engine struct {
	rng *rand.Rand
	log *logging.Logger
}

// NewEngine creates the deduction brain.
func NewEngine(opts ...Option) *Engine {
	o := newOptions(opts)
	return &Engine{rng: o.rng, log: o.log}
}

// candidate is a number tile whose neighborhood triggered a rule.
type candidate struct {
	tile      *board.NumberTile
	neighbors []board.Tile
}

func (c candidate) coordinate() board.Coordinate {
	return c.tile.Location().Coordinate()
}

// Think returns deduced flags and clears, or falls back in order to a random
// guess on an unexplored chunk, a guess next to a promising number, a random
// guess on a mostly untouched chunk, and finally a move to (+1, 0).
func (e *Engine) Think(chunk *board.Chunk) (action.Decision, error) {
	numbers := chunk.NumberTiles()

	toFlag, toClear, err := e.collect(chunk, numbers)
	if err != nil {
		return action.Decision{}, err
	}

	if toFlag, err = prune(chunk, toFlag, true); err != nil {
		return action.Decision{}, err
	}
	if toClear, err = prune(chunk, toClear, false); err != nil {
		return action.Decision{}, err
	}

	if actions := emit(toFlag, toClear); len(actions) > 0 {
		e.log.Verbosef("deduced %d actions from %d flag and %d clear candidates", len(actions), len(toFlag), len(toClear))
		return action.Act(actions...), nil
	}

	return e.fallback(chunk, numbers)
}

// collect evaluates the local rules for every resolved number tile.
func (e *Engine) collect(chunk *board.Chunk, numbers []*board.NumberTile) (toFlag, toClear []candidate, err error) {
	for _, n := range numbers {
		if !n.Resolved() {
			continue
		}

		loc := n.Location()
		neighbors, err := chunk.Neighbors(loc.X, loc.Y)
		if err != nil {
			return nil, nil, err
		}
		if len(neighbors) < minContext {
			continue
		}

		v := n.Value()
		bombCount := board.CountByKind(neighbors, board.KindBomb) + board.CountByKind(neighbors, board.KindFlagged)
		blankCount := board.CountByKind(neighbors, board.KindUntouched)

		c := candidate{tile: n, neighbors: neighbors}
		switch {
		case bombCount == v && blankCount > 0:
			toClear = append(toClear, c)
		case v == 1 && blankCount == 1,
			bombCount == v-1 && blankCount == 1,
			blankCount > 0 && bombCount+blankCount == v:
			toFlag = append(toFlag, c)
		}
	}
	return toFlag, toClear, nil
}

// prune drops candidates contained in a stronger one. Candidates are visited
// by descending value; a surviving candidate removes every other candidate
// among its neighbors and, when transitive is set, among the neighbors of
// its untouched neighbors.
func prune(chunk *board.Chunk, cands []candidate, transitive bool) ([]candidate, error) {
	if len(cands) < 2 {
		return cands, nil
	}

	sorted := make([]candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].tile.Value() > sorted[j].tile.Value()
	})

	removed := make([]bool, len(sorted))
	for i, c := range sorted {
		if removed[i] {
			continue
		}

		reach, err := reachable(chunk, c, transitive)
		if err != nil {
			return nil, err
		}
		for j, other := range sorted {
			if j != i && !removed[j] && reach[other.coordinate()] {
				removed[j] = true
			}
		}
	}

	kept := sorted[:0:0]
	for i, c := range sorted {
		if !removed[i] {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func reachable(chunk *board.Chunk, c candidate, transitive bool) (map[board.Coordinate]bool, error) {
	reach := make(map[board.Coordinate]bool, len(c.neighbors))
	for _, n := range c.neighbors {
		reach[n.Location().Coordinate()] = true
		if !transitive || n.Kind() != board.KindUntouched {
			continue
		}

		loc := n.Location()
		second, err := chunk.Neighbors(loc.X, loc.Y)
		if err != nil {
			return nil, err
		}
		for _, s := range second {
			reach[s.Location().Coordinate()] = true
		}
	}
	return reach, nil
}

// emit turns candidates into actions, flags first. Each coordinate is
// targeted at most once; the first action wins.
func emit(toFlag, toClear []candidate) []action.Action {
	seen := make(map[board.Coordinate]bool)
	var actions []action.Action

	add := func(cands []candidate, build func(board.TileLocation) action.Action) {
		for _, c := range cands {
			for _, n := range c.neighbors {
				if n.Kind() != board.KindUntouched {
					continue
				}
				coord := n.Location().Coordinate()
				if seen[coord] {
					continue
				}
				seen[coord] = true
				actions = append(actions, build(n.Location()))
			}
		}
	}

	add(toFlag, action.NewFlag)
	add(toClear, action.NewClear)
	return actions
}

func (e *Engine) fallback(chunk *board.Chunk, numbers []*board.NumberTile) (action.Decision, error) {
	if len(numbers) == 0 {
		if loc, ok := e.randomUntouched(chunk); ok {
			e.log.Verbosef("no numbers on chunk %s, guessing %s", chunk.Location(), loc.Coordinate())
			return action.Explore(action.NewSpeculativeClear(loc)), nil
		}
	}

	for _, n := range numbers {
		// unresolved numbers carry no value to explore from
		if !n.Resolved() || n.Value() >= exploreMaxValue {
			continue
		}

		loc := n.Location()
		neighbors, err := chunk.Neighbors(loc.X, loc.Y)
		if err != nil {
			return action.Decision{}, err
		}
		if len(neighbors) <= exploreMinNeighbors || board.CountByKind(neighbors, board.KindUntouched) <= exploreMinUntouched {
			continue
		}

		for _, nb := range neighbors {
			if nb.Kind() == board.KindUntouched {
				e.log.Verbosef("exploring next to %s: %s", loc.Coordinate(), nb.Location().Coordinate())
				return action.Explore(action.NewSpeculativeClear(nb.Location())), nil
			}
		}
	}

	if chunk.IsMostlyUntouched() {
		if loc, ok := e.randomUntouched(chunk); ok {
			e.log.Verbosef("chunk %s mostly untouched, guessing %s", chunk.Location(), loc.Coordinate())
			return action.Explore(action.NewSpeculativeClear(loc)), nil
		}
	}

	e.log.Infof("nothing to do on chunk %s, moving on", chunk.Location())
	return action.Navigate(1, 0), nil
}

// randomUntouched draws uniformly among the untouched cells.
func (e *Engine) randomUntouched(chunk *board.Chunk) (board.TileLocation, bool) {
	var untouched []board.TileLocation
	chunk.Each(func(_, _ int, tile board.Tile) {
		if tile.Kind() == board.KindUntouched {
			untouched = append(untouched, tile.Location())
		}
	})
	if len(untouched) == 0 {
		return board.TileLocation{}, false
	}
	return untouched[e.rng.Intn(len(untouched))], true
}
