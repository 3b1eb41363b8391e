// Package game is the boundary between the bot and a Minesweeper board.
//
// Screen drives the remote web board through a browser page. The sim
// subpackage provides an in-memory board with the same interface.
package game

import (
	"context"

	"github.com/entrhq/powersweeper/pkg/board"
)

// Interface is the set of operations the bot needs from a board.
type Interface interface {
	// Chunk returns the last observed chunk, or nil before the first Update
	// after a move.
	Chunk() *board.Chunk

	// Location returns the chunk currently shown.
	Location() board.ChunkLocation

	// Update observes the current chunk and returns it.
	Update(ctx context.Context) (*board.Chunk, error)

	// Uncover clicks (x, y). It reports false without acting when the
	// cached tile is not untouched.
	Uncover(ctx context.Context, x, y int) (bool, error)

	// Flag flags (x, y). It reports false without acting when the cached
	// tile is not untouched.
	Flag(ctx context.Context, x, y int) (bool, error)

	// MoveTo shows another chunk. The cached chunk is dropped.
	MoveTo(ctx context.Context, loc board.ChunkLocation) error
}

// Clickable reports whether the cached tile at (x, y) of chunk may be
// clicked. A nil chunk and out of range cells are not clickable; the latter
// also return the bounds error.
func Clickable(chunk *board.Chunk, x, y int) (bool, error) {
	if chunk == nil {
		return false, nil
	}
	tile, err := chunk.TileAt(x, y)
	if err != nil {
		return false, err
	}
	return tile.Kind() == board.KindUntouched, nil
}
