package sim

import (
	"context"
	"math/rand"

	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/game"
	"github.com/entrhq/powersweeper/pkg/logging"
)

// Options configures a simulated board.
type Options struct {
	ChunkWidth  int
	ChunkHeight int
	// Mines per chunk.
	Mines int
	// Seed derives the layout of every chunk.
	Seed int64
	// Logger receives game events. Nil discards them.
	Logger *logging.Logger
}

// DefaultOptions returns a 20×20 chunk with 60 mines.
func DefaultOptions() Options {
	return Options{
		ChunkWidth:  board.DefaultChunkWidth,
		ChunkHeight: board.DefaultChunkHeight,
		Mines:       60,
		Seed:        1,
	}
}

// Game implements game.Interface over generated fields.
type Game struct {
	opts     Options
	log      *logging.Logger
	fields   map[board.ChunkLocation]*Field
	location board.ChunkLocation
	chunk    *board.Chunk
	exploded int
}

var _ game.Interface = (*Game)(nil)

// New creates a simulated board.
func New(opts Options) *Game {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Game{
		opts:   opts,
		log:    log,
		fields: make(map[board.ChunkLocation]*Field),
	}
}

// SetField installs a fixed layout for loc, replacing any generated one.
func (g *Game) SetField(loc board.ChunkLocation, f *Field) {
	g.fields[loc] = f
}

// Field returns the field of loc, generating it on first use.
func (g *Game) Field(loc board.ChunkLocation) *Field {
	if f, ok := g.fields[loc]; ok {
		return f
	}
	seed := g.opts.Seed*1_000_003 + loc.X*7_919 + loc.Y
	f := NewField(g.opts.ChunkWidth, g.opts.ChunkHeight, g.opts.Mines, rand.New(rand.NewSource(seed)))
	g.fields[loc] = f
	return f
}

// Exploded returns how many mines were stepped on.
func (g *Game) Exploded() int { return g.exploded }

// Chunk returns the cached chunk.
func (g *Game) Chunk() *board.Chunk { return g.chunk }

// Location returns the current chunk location.
func (g *Game) Location() board.ChunkLocation { return g.location }

// Update rebuilds the cached chunk from the field state.
func (g *Game) Update(ctx context.Context) (*board.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := g.Field(g.location)
	if g.chunk == nil {
		g.chunk = board.NewChunk(g.location, f.Width(), f.Height())
	}

	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			loc, err := g.chunk.TileLocation(x, y)
			if err != nil {
				return nil, err
			}
			if err := g.chunk.SetTile(x, y, tileFor(loc, f.cells[y][x])); err != nil {
				return nil, err
			}
		}
	}
	return g.chunk, nil
}

func tileFor(loc board.TileLocation, c cell) board.Tile {
	switch {
	case c.flagged:
		return board.NewFlaggedTile(loc, nil)
	case !c.revealed:
		return board.NewUntouchedTile(loc, nil)
	case c.mine:
		return board.NewBombTile(loc, nil)
	default:
		return board.NewNumberTileWithValue(loc, nil, c.count)
	}
}

// Uncover opens (x, y) when the cached tile is untouched.
func (g *Game) Uncover(ctx context.Context, x, y int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := game.Clickable(g.chunk, x, y)
	if !ok {
		return false, err
	}

	if !g.Field(g.location).Open(x, y) {
		g.exploded++
		g.log.Verbosef("stepped on a mine at %d,%d of chunk %s", x, y, g.location)
	}

	loc, err := g.chunk.TileLocation(x, y)
	if err != nil {
		return false, err
	}
	return true, g.chunk.SetTile(x, y, board.NewWaitingTile(loc, nil))
}

// Flag flags (x, y) when the cached tile is untouched.
func (g *Game) Flag(ctx context.Context, x, y int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := game.Clickable(g.chunk, x, y)
	if !ok {
		return false, err
	}

	g.Field(g.location).Flag(x, y)

	loc, err := g.chunk.TileLocation(x, y)
	if err != nil {
		return false, err
	}
	return true, g.chunk.SetTile(x, y, board.NewFlaggedTile(loc, nil))
}

// MoveTo switches to loc and drops the cached chunk.
func (g *Game) MoveTo(ctx context.Context, loc board.ChunkLocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.log.Infof("moving to chunk %s", loc)
	g.chunk = nil
	g.location = loc
	return nil
}
