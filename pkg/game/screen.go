package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/logging"
	"github.com/entrhq/powersweeper/pkg/parser"
	"github.com/entrhq/powersweeper/pkg/raster"
)

// Mouse buttons understood by Page.ClickAt.
const (
	ButtonLeft  = "left"
	ButtonRight = "right"
)

// Page is the browser surface Screen drives.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Screenshot(ctx context.Context) ([]byte, error)
	ClickAt(ctx context.Context, x, y float64, button string) error
	Evaluate(ctx context.Context, script string) (interface{}, error)
}

// ScreenOptions describes the geometry of the web board.
type ScreenOptions struct {
	// URLFormat takes the chunk x and y, e.g. "http://mienfield.com/%d_%d".
	URLFormat string
	// ChunkWidth and ChunkHeight are the cells per chunk.
	ChunkWidth  int
	ChunkHeight int
	// CellSize is the on-screen pitch of one cell in pixels.
	CellSize int
	// SampleSize is the edge of the square cut out of each cell's top left.
	SampleSize int
	// HideSelector matches overlays hidden before every screenshot. Empty
	// disables hiding.
	HideSelector string
	// Logger receives observation warnings. Nil discards them.
	Logger *logging.Logger
}

// DefaultScreenOptions returns the geometry of mienfield.com.
func DefaultScreenOptions() ScreenOptions {
	return ScreenOptions{
		URLFormat:    "http://mienfield.com/%d_%d",
		ChunkWidth:   board.DefaultChunkWidth,
		ChunkHeight:  board.DefaultChunkHeight,
		CellSize:     32,
		SampleSize:   30,
		HideSelector: ".popup",
	}
}

// Screen plays the web board by classifying screenshots and clicking cells.
type Screen struct {
	page       Page
	classifier *parser.Classifier
	opts       ScreenOptions
	log        *logging.Logger

	chunk    *board.Chunk
	location board.ChunkLocation
}

// NewScreen creates a Screen. Call MoveTo before the first Update.
func NewScreen(page Page, classifier *parser.Classifier, opts ScreenOptions) *Screen {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Screen{
		page:       page,
		classifier: classifier,
		opts:       opts,
		log:        log,
	}
}

// Chunk returns the cached chunk.
func (s *Screen) Chunk() *board.Chunk { return s.chunk }

// Location returns the chunk currently shown.
func (s *Screen) Location() board.ChunkLocation { return s.location }

// Update hides overlays, takes a screenshot and classifies every cell. An
// undecodable screenshot leaves the cached chunk as it was.
func (s *Screen) Update(ctx context.Context) (*board.Chunk, error) {
	if s.chunk == nil {
		s.chunk = board.NewChunk(s.location, s.opts.ChunkWidth, s.opts.ChunkHeight)
	}

	if s.opts.HideSelector != "" {
		if _, err := s.page.Evaluate(ctx, hideScript(s.opts.HideSelector)); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warnf("failed to hide %s overlays: %v", s.opts.HideSelector, err)
		}
	}

	shot, err := s.page.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		s.log.Warnf("could not process current browser screen: %v", err)
		return s.chunk, nil
	}

	if err := s.classifier.ParseChunk(s.chunk, s.samples(img)); err != nil {
		return nil, fmt.Errorf("failed to parse chunk %s: %w", s.location, err)
	}
	s.log.Debugf("chunk %s:\n%s", s.location, s.chunk)
	return s.chunk, nil
}

// samples cuts the sample square of every cell out of img. Cells whose
// square is not fully on screen have no sample.
func (s *Screen) samples(img image.Image) parser.SampleSource {
	bounds := img.Bounds()
	return func(x, y int) (*raster.Template, bool) {
		origin := bounds.Min.Add(image.Pt(x*s.opts.CellSize, y*s.opts.CellSize))
		rect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(s.opts.SampleSize, s.opts.SampleSize))}
		if !rect.In(bounds) {
			return nil, false
		}
		return raster.Crop(fmt.Sprintf("sample-%d-%d", x, y), img, rect), true
	}
}

// Uncover left clicks (x, y) and caches the cell as waiting.
func (s *Screen) Uncover(ctx context.Context, x, y int) (bool, error) {
	return s.click(ctx, x, y, ButtonLeft, func(loc board.TileLocation) board.Tile {
		return board.NewWaitingTile(loc, nil)
	})
}

// Flag right clicks (x, y) and caches the cell as flagged.
func (s *Screen) Flag(ctx context.Context, x, y int) (bool, error) {
	return s.click(ctx, x, y, ButtonRight, func(loc board.TileLocation) board.Tile {
		return board.NewFlaggedTile(loc, nil)
	})
}

func (s *Screen) click(ctx context.Context, x, y int, button string, cached func(board.TileLocation) board.Tile) (bool, error) {
	ok, err := Clickable(s.chunk, x, y)
	if !ok {
		return false, err
	}

	if err := s.page.ClickAt(ctx, s.center(x), s.center(y), button); err != nil {
		return false, fmt.Errorf("failed to click %d,%d: %w", x, y, err)
	}

	loc, err := s.chunk.TileLocation(x, y)
	if err != nil {
		return false, err
	}
	return true, s.chunk.SetTile(x, y, cached(loc))
}

// center returns the on-screen pixel in the middle of cell index i.
func (s *Screen) center(i int) float64 {
	return float64(i*s.opts.CellSize + s.opts.CellSize/2)
}

// MoveTo drops the cached chunk and loads the page of loc.
func (s *Screen) MoveTo(ctx context.Context, loc board.ChunkLocation) error {
	s.chunk = nil
	s.location = loc

	url := fmt.Sprintf(s.opts.URLFormat, loc.X, loc.Y)
	s.log.Infof("moving to chunk %s (%s)", loc, url)
	if err := s.page.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to move to chunk %s: %w", loc, err)
	}
	return nil
}

func hideScript(selector string) string {
	quoted, _ := json.Marshal(selector)
	return fmt.Sprintf("() => document.querySelectorAll(%s).forEach(e => { e.style.display = 'none'; })", quoted)
}
