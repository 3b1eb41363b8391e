package board

import "fmt"

// Coordinate is a zero-based cell position inside a chunk.
type Coordinate struct {
	X int
	Y int
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// ChunkLocation identifies one page of the board.
type ChunkLocation struct {
	X int64
	Y int64
}

// Relative returns the location offset by (dx, dy) chunks.
func (l ChunkLocation) Relative(dx, dy int64) ChunkLocation {
	return ChunkLocation{X: l.X + dx, Y: l.Y + dy}
}

// Distance returns the absolute per-axis distance between two locations.
func (l ChunkLocation) Distance(other ChunkLocation) ChunkLocation {
	return ChunkLocation{X: abs64(l.X - other.X), Y: abs64(l.Y - other.Y)}
}

func (l ChunkLocation) String() string {
	return fmt.Sprintf("%d_%d", l.X, l.Y)
}

// TileLocation is a cell position together with the chunk it belongs to.
// The chunk reference is used for neighbor lookups only; a location does not
// own its chunk.
type TileLocation struct {
	X     int
	Y     int
	Chunk *Chunk
}

// Coordinate drops the chunk reference.
func (l TileLocation) Coordinate() Coordinate {
	return Coordinate{X: l.X, Y: l.Y}
}

// Tile returns the tile currently stored at this location.
func (l TileLocation) Tile() (Tile, error) {
	if l.Chunk == nil {
		return nil, ErrNoChunk
	}
	return l.Chunk.TileAt(l.X, l.Y)
}

// Neighbors returns the tiles surrounding this location. See Chunk.Neighbors.
func (l TileLocation) Neighbors() ([]Tile, error) {
	if l.Chunk == nil {
		return nil, ErrNoChunk
	}
	return l.Chunk.Neighbors(l.X, l.Y)
}

// Relative returns the location offset by (dx, dy) cells in the same chunk.
// The result is not bounds checked.
func (l TileLocation) Relative(dx, dy int) TileLocation {
	return TileLocation{X: l.X + dx, Y: l.Y + dy, Chunk: l.Chunk}
}

// Equal reports whether both locations point at the same cell of the same
// chunk.
func (l TileLocation) Equal(other TileLocation) bool {
	return l.X == other.X && l.Y == other.Y && l.Chunk == other.Chunk
}

func (l TileLocation) String() string {
	if l.Chunk == nil {
		return fmt.Sprintf("%d,%d", l.X, l.Y)
	}
	return fmt.Sprintf("%d,%d@%s", l.X, l.Y, l.Chunk.Location())
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
