// Package sim is an in-memory Minesweeper board for offline runs and tests.
//
// Every chunk location gets its own mined field, derived from a seed so runs
// are reproducible. Like the web board, stepping on a mine reveals it and
// play continues.
package sim

import (
	"fmt"
	"math/rand"
	"strings"
)

type cell struct {
	mine     bool
	revealed bool
	flagged  bool
	count    int
}

// Field is one mined chunk.
type Field struct {
	width  int
	height int
	cells  [][]cell
	mines  int
}

// NewField places mines at random and precomputes neighbor counts. The mine
// count is capped at the number of cells.
func NewField(width, height, mines int, rng *rand.Rand) *Field {
	cells := make([][]cell, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]cell, width)
	}

	f := &Field{width: width, height: height, cells: cells}
	f.placeMines(mines, rng)
	f.calculateNeighbors()
	return f
}

// ParseField builds a field from rows where '*' marks a mine. Used for
// fixed layouts in tests.
func ParseField(rows ...string) (*Field, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty field")
	}

	f := &Field{width: len(rows[0]), height: len(rows)}
	f.cells = make([][]cell, f.height)
	for y, row := range rows {
		if len(row) != f.width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), f.width)
		}
		f.cells[y] = make([]cell, f.width)
		for x, ch := range row {
			if ch == '*' {
				f.cells[y][x].mine = true
				f.mines++
			}
		}
	}
	f.calculateNeighbors()
	return f, nil
}

func (f *Field) placeMines(count int, rng *rand.Rand) {
	if total := f.width * f.height; count > total {
		count = total
	}

	for f.mines < count {
		x := rng.Intn(f.width)
		y := rng.Intn(f.height)

		if !f.cells[y][x].mine {
			f.cells[y][x].mine = true
			f.mines++
		}
	}
}

func (f *Field) calculateNeighbors() {
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			count := 0
			f.eachNeighbor(x, y, func(nx, ny int) {
				if f.cells[ny][nx].mine {
					count++
				}
			})
			f.cells[y][x].count = count
		}
	}
}

func (f *Field) eachNeighbor(x, y int, fn func(nx, ny int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if f.contains(nx, ny) {
				fn(nx, ny)
			}
		}
	}
}

func (f *Field) contains(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// Mines returns the number of mines placed.
func (f *Field) Mines() int { return f.mines }

// Open reveals (x, y). Revealing a zero opens its neighbors as well. It
// reports false when a mine was hit. Revealed, flagged and out of range
// cells are left alone.
func (f *Field) Open(x, y int) bool {
	if !f.contains(x, y) {
		return true
	}
	c := &f.cells[y][x]
	if c.revealed || c.flagged {
		return true
	}

	c.revealed = true
	if c.mine {
		return false
	}

	// flood fill zeros iteratively; large empty areas would recurse deeply
	stack := [][2]int{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.cells[p[1]][p[0]].count != 0 {
			continue
		}
		f.eachNeighbor(p[0], p[1], func(nx, ny int) {
			n := &f.cells[ny][nx]
			if n.revealed || n.flagged || n.mine {
				return
			}
			n.revealed = true
			stack = append(stack, [2]int{nx, ny})
		})
	}
	return true
}

// Flag places a flag on a covered cell. Flags are never removed.
func (f *Field) Flag(x, y int) {
	if !f.contains(x, y) || f.cells[y][x].revealed {
		return
	}
	f.cells[y][x].flagged = true
}

// Revealed returns the number of revealed cells.
func (f *Field) Revealed() int {
	n := 0
	for y := range f.cells {
		for x := range f.cells[y] {
			if f.cells[y][x].revealed {
				n++
			}
		}
	}
	return n
}

// String renders the field as the player sees it, like board.Chunk.String.
func (f *Field) String() string {
	var b strings.Builder
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := f.cells[y][x]
			switch {
			case c.flagged:
				b.WriteByte('F')
			case !c.revealed:
				b.WriteByte('-')
			case c.mine:
				b.WriteByte('*')
			default:
				b.WriteByte(byte('0' + c.count))
			}
		}
		if y < f.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
