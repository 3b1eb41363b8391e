package board

import "strings"

// Cell is a read-only copy of one tile's state.
type Cell struct {
	Kind  Kind `json:"kind"`
	Value int  `json:"value"`
}

// Snapshot is a detached copy of a chunk, safe to hand to other goroutines.
type Snapshot struct {
	Location ChunkLocation `json:"location"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Cells    [][]Cell      `json:"cells"`
}

// Snapshot copies the current state of every cell.
func (c *Chunk) Snapshot() Snapshot {
	s := Snapshot{
		Location: c.location,
		Width:    c.width,
		Height:   c.height,
		Cells:    make([][]Cell, c.height),
	}
	for y := 0; y < c.height; y++ {
		s.Cells[y] = make([]Cell, c.width)
		for x := 0; x < c.width; x++ {
			cell := Cell{Kind: c.tiles[y][x].Kind(), Value: -1}
			if n, ok := c.tiles[y][x].(*NumberTile); ok {
				cell.Value = n.Value()
			}
			s.Cells[y][x] = cell
		}
	}
	return s
}

// Glyph returns the debug character of the cell. See Glyph.
func (c Cell) Glyph() byte {
	return glyph(c.Kind, c.Value)
}

// String renders the snapshot like Chunk.String.
func (s Snapshot) String() string {
	var b strings.Builder
	for y, row := range s.Cells {
		for _, cell := range row {
			b.WriteByte(cell.Glyph())
		}
		if y < len(s.Cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
