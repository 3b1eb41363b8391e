package parser

import (
	"fmt"

	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/logging"
	"github.com/entrhq/powersweeper/pkg/raster"
)

// Fallback selects the tile produced for a sample no template matches.
type Fallback string

const (
	// FallbackFlagged treats unmatched samples as flags. The flag overlay is
	// the one visual that ships without a reliable template.
	FallbackFlagged Fallback = "flagged"
	// FallbackUnknown produces an UnknownTile.
	FallbackUnknown Fallback = "unknown"
)

// ParseFallback validates a fallback name.
func ParseFallback(name string) (Fallback, error) {
	switch Fallback(name) {
	case "", FallbackFlagged:
		return FallbackFlagged, nil
	case FallbackUnknown:
		return FallbackUnknown, nil
	default:
		return "", fmt.Errorf("unknown fallback %q", name)
	}
}

// SampleSource yields the raw sample for a cell of the chunk being parsed.
// ok is false when no sample exists for the cell.
type SampleSource func(x, y int) (sample *raster.Template, ok bool)

// Classifier maps samples to tiles using a registry.
type Classifier struct {
	registry *Registry
	fallback Fallback
	log      *logging.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithFallback sets the tile produced for unmatched samples.
func WithFallback(f Fallback) ClassifierOption {
	return func(c *Classifier) { c.fallback = f }
}

// WithLogger sets the logger used for classification warnings.
func WithLogger(l *logging.Logger) ClassifierOption {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClassifier creates a classifier over reg.
func NewClassifier(reg *Registry, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		registry: reg,
		fallback: FallbackFlagged,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the classifier reads from.
func (c *Classifier) Registry() *Registry {
	return c.registry
}

// Classify returns the tile for sample at loc. Templates are tried in
// registry order and the first match wins. A sample no template matches is
// not an error: it yields the fallback tile and a warning.
func (c *Classifier) Classify(loc board.TileLocation, sample *raster.Template) board.Tile {
	for _, e := range c.registry.entries {
		if !e.Template.Matches(sample) {
			continue
		}

		tile := e.Factory(loc, sample, c.registry)
		if n, ok := tile.(*board.NumberTile); ok && !n.Resolved() {
			c.log.Debugf("tile %s matched %s but no number template resolved its value", loc, e.Name)
		}
		return tile
	}

	c.log.Warnf("could not find matching tile template for %s; assuming %s", loc, c.fallback)
	if c.fallback == FallbackUnknown {
		return board.NewUnknownTile(loc, sample)
	}
	return board.NewFlaggedTile(loc, sample)
}

// ParseChunk classifies every cell of chunk from source, replacing the
// stored tiles. Every cell needs a sample.
func (c *Classifier) ParseChunk(chunk *board.Chunk, source SampleSource) error {
	for y := 0; y < chunk.Height(); y++ {
		for x := 0; x < chunk.Width(); x++ {
			sample, ok := source(x, y)
			if !ok {
				return fmt.Errorf("no sample for tile %d,%d of chunk %s", x, y, chunk.Location())
			}

			loc, err := chunk.TileLocation(x, y)
			if err != nil {
				return err
			}
			if err := chunk.SetTile(x, y, c.Classify(loc, sample)); err != nil {
				return err
			}
		}
	}
	return nil
}
