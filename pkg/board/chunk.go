// Package board models one chunk of a Minesweeper board as a fixed grid of
// classified tiles.
package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultChunkWidth is the number of columns in a chunk.
	DefaultChunkWidth = 20
	// DefaultChunkHeight is the number of rows in a chunk.
	DefaultChunkHeight = 20
)

var (
	// ErrOutOfBounds is matched by every OutOfBoundsError.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrNoChunk is returned by TileLocation helpers without a chunk.
	ErrNoChunk = errors.New("tile location has no chunk")
)

// OutOfBoundsError reports an access outside the chunk extent. It is a
// contract violation by the caller; coordinates are never clamped.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: %d,%d outside %dx%d", ErrOutOfBounds, e.X, e.Y, e.Width, e.Height)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// neighborOffsets lists the eight surrounding cells in scan order:
// NW, N, NE, W, E, SW, S, SE.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Chunk is a width × height grid of tiles bound to one chunk location.
// Every cell holds a non-nil tile.
type Chunk struct {
	location ChunkLocation
	width    int
	height   int
	tiles    [][]Tile
}

// NewChunk creates a chunk with every cell untouched. It panics on
// non-positive dimensions.
func NewChunk(loc ChunkLocation, width, height int) *Chunk {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("board: invalid chunk dimensions %dx%d", width, height))
	}

	c := &Chunk{
		location: loc,
		width:    width,
		height:   height,
	}
	c.Reset()
	return c
}

// Location returns the chunk location.
func (c *Chunk) Location() ChunkLocation { return c.location }

// Width returns the number of columns.
func (c *Chunk) Width() int { return c.width }

// Height returns the number of rows.
func (c *Chunk) Height() int { return c.height }

// Reset replaces every cell with a fresh untouched tile.
func (c *Chunk) Reset() {
	c.tiles = make([][]Tile, c.height)
	for y := 0; y < c.height; y++ {
		c.tiles[y] = make([]Tile, c.width)
		for x := 0; x < c.width; x++ {
			c.tiles[y][x] = NewUntouchedTile(c.at(x, y), nil)
		}
	}
}

// Contains reports whether (x, y) lies inside the chunk.
func (c *Chunk) Contains(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *Chunk) check(x, y int) error {
	if !c.Contains(x, y) {
		return &OutOfBoundsError{X: x, Y: y, Width: c.width, Height: c.height}
	}
	return nil
}

func (c *Chunk) at(x, y int) TileLocation {
	return TileLocation{X: x, Y: y, Chunk: c}
}

// TileLocation returns the location of (x, y).
func (c *Chunk) TileLocation(x, y int) (TileLocation, error) {
	if err := c.check(x, y); err != nil {
		return TileLocation{}, err
	}
	return c.at(x, y), nil
}

// TileAt returns the tile at (x, y).
func (c *Chunk) TileAt(x, y int) (Tile, error) {
	if err := c.check(x, y); err != nil {
		return nil, err
	}
	return c.tiles[y][x], nil
}

// SetTile replaces the tile at (x, y). A nil tile resets the cell to
// untouched so the grid never holds empty cells.
func (c *Chunk) SetTile(x, y int, tile Tile) error {
	if err := c.check(x, y); err != nil {
		return err
	}
	if tile == nil {
		tile = NewUntouchedTile(c.at(x, y), nil)
	}
	c.tiles[y][x] = tile
	return nil
}

// Neighbors returns the tiles around (x, y) in scan order (NW, N, NE, W, E,
// SW, S, SE). Positions outside the chunk are left out, so edge cells have
// five neighbors and corner cells three.
func (c *Chunk) Neighbors(x, y int) ([]Tile, error) {
	if err := c.check(x, y); err != nil {
		return nil, err
	}

	neighbors := make([]Tile, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if c.Contains(nx, ny) {
			neighbors = append(neighbors, c.tiles[ny][nx])
		}
	}
	return neighbors, nil
}

// Count returns how many tiles of the whole chunk are of kind.
func (c *Chunk) Count(kind Kind) int {
	count := 0
	for y := 0; y < c.height; y++ {
		count += CountByKind(c.tiles[y], kind)
	}
	return count
}

// mostlyUntouchedNumerator and mostlyUntouchedDenominator express the share
// of untouched cells above which a chunk counts as unexplored (250 of 400).
const (
	mostlyUntouchedNumerator   = 5
	mostlyUntouchedDenominator = 8
)

// IsMostlyUntouched reports whether more than 5/8 of the cells are
// untouched.
func (c *Chunk) IsMostlyUntouched() bool {
	threshold := c.width * c.height * mostlyUntouchedNumerator / mostlyUntouchedDenominator
	return c.Count(KindUntouched) > threshold
}

// NumberTiles returns every number tile in row-major order.
func (c *Chunk) NumberTiles() []*NumberTile {
	var numbers []*NumberTile
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if n, ok := c.tiles[y][x].(*NumberTile); ok {
				numbers = append(numbers, n)
			}
		}
	}
	return numbers
}

// Each calls fn for every cell in row-major order.
func (c *Chunk) Each(fn func(x, y int, tile Tile)) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			fn(x, y, c.tiles[y][x])
		}
	}
}

// String renders the chunk one row per line for debugging.
func (c *Chunk) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			b.WriteByte(Glyph(c.tiles[y][x]))
		}
		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Glyph returns the single character used for tile in debug output.
func Glyph(tile Tile) byte {
	if tile == nil {
		return ' '
	}
	value := -1
	if n, ok := tile.(*NumberTile); ok {
		value = n.Value()
	}
	return glyph(tile.Kind(), value)
}

func glyph(kind Kind, value int) byte {
	switch kind {
	case KindNumber:
		if value < 0 {
			return '#'
		}
		return byte('0' + value)
	case KindUntouched:
		return '-'
	case KindFlagged:
		return 'F'
	case KindBomb:
		return '*'
	case KindWaiting:
		return '~'
	default:
		return '?'
	}
}
