package board

import (
	"fmt"

	"github.com/entrhq/powersweeper/pkg/raster"
)

// Kind identifies a tile variant.
type Kind int

const (
	// KindUntouched is a cell that has been neither revealed nor flagged.
	KindUntouched Kind = iota
	// KindNumber is a revealed cell showing its neighboring mine count.
	KindNumber
	// KindFlagged is a cell carrying a flag.
	KindFlagged
	// KindBomb is a revealed mine.
	KindBomb
	// KindWaiting is a transient state while the remote UI catches up.
	KindWaiting
	// KindUnknown is a cell whose appearance could not be classified.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindUntouched:
		return "untouched"
	case KindNumber:
		return "number"
	case KindFlagged:
		return "flagged"
	case KindBomb:
		return "bomb"
	case KindWaiting:
		return "waiting"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Tile is the classified state of one cell.
//
// Tiles are immutable. A cell that changes appearance gets a new tile.
type Tile interface {
	// Kind returns the tile variant.
	Kind() Kind

	// Location returns where the tile sits.
	Location() TileLocation

	// Template returns the raw sample the tile was classified from, or nil
	// for tiles that were not built from a screen observation.
	Template() *raster.Template
}

// TemplateLookup resolves registered templates by name.
type TemplateLookup interface {
	Template(name string) (*raster.Template, bool)
}

// MaxNumber is the largest value a number tile can show.
const MaxNumber = 8

// NumberTemplateName returns the registry name of the template showing v.
func NumberTemplateName(v int) string {
	return fmt.Sprintf("number-%d", v)
}

type baseTile struct {
	location TileLocation
	template *raster.Template
}

func (t *baseTile) Location() TileLocation     { return t.location }
func (t *baseTile) Template() *raster.Template { return t.template }

// UntouchedTile is a covered cell.
type UntouchedTile struct{ baseTile }

// NewUntouchedTile creates an untouched tile.
func NewUntouchedTile(loc TileLocation, sample *raster.Template) *UntouchedTile {
	return &UntouchedTile{baseTile{location: loc, template: sample}}
}

func (*UntouchedTile) Kind() Kind { return KindUntouched }

// FlaggedTile is a flagged cell.
type FlaggedTile struct{ baseTile }

// NewFlaggedTile creates a flagged tile.
func NewFlaggedTile(loc TileLocation, sample *raster.Template) *FlaggedTile {
	return &FlaggedTile{baseTile{location: loc, template: sample}}
}

func (*FlaggedTile) Kind() Kind { return KindFlagged }

// BombTile is a revealed mine.
type BombTile struct{ baseTile }

// NewBombTile creates a bomb tile.
func NewBombTile(loc TileLocation, sample *raster.Template) *BombTile {
	return &BombTile{baseTile{location: loc, template: sample}}
}

func (*BombTile) Kind() Kind { return KindBomb }

// WaitingTile is a cell in a transient or ambiguous visual state.
type WaitingTile struct{ baseTile }

// NewWaitingTile creates a waiting tile.
func NewWaitingTile(loc TileLocation, sample *raster.Template) *WaitingTile {
	return &WaitingTile{baseTile{location: loc, template: sample}}
}

func (*WaitingTile) Kind() Kind { return KindWaiting }

// UnknownTile is a cell no template matched.
type UnknownTile struct{ baseTile }

// NewUnknownTile creates an unknown tile.
func NewUnknownTile(loc TileLocation, sample *raster.Template) *UnknownTile {
	return &UnknownTile{baseTile{location: loc, template: sample}}
}

func (*UnknownTile) Kind() Kind { return KindUnknown }

// NumberTile is a revealed cell showing how many of its neighbors are mines.
type NumberTile struct {
	baseTile
	value int
}

// NewNumberTile creates a number tile and resolves its value by probing the
// number-0 .. number-8 templates of lookup against sample. The first match
// wins. The value is -1 when nothing matches or a probe template is missing.
func NewNumberTile(loc TileLocation, sample *raster.Template, lookup TemplateLookup) *NumberTile {
	value := -1
	if lookup != nil {
		for i := 0; i <= MaxNumber; i++ {
			tmpl, ok := lookup.Template(NumberTemplateName(i))
			if !ok {
				continue
			}
			if tmpl.Matches(sample) {
				value = i
				break
			}
		}
	}

	return &NumberTile{
		baseTile: baseTile{location: loc, template: sample},
		value:    value,
	}
}

// NewNumberTileWithValue creates a number tile with a known value. Values
// outside [0, 8] are stored as -1.
func NewNumberTileWithValue(loc TileLocation, sample *raster.Template, value int) *NumberTile {
	if value < 0 || value > MaxNumber {
		value = -1
	}
	return &NumberTile{
		baseTile: baseTile{location: loc, template: sample},
		value:    value,
	}
}

func (*NumberTile) Kind() Kind { return KindNumber }

// Value returns the number shown, or -1 if it could not be resolved.
func (t *NumberTile) Value() int { return t.value }

// Resolved reports whether the value is known.
func (t *NumberTile) Resolved() bool { return t.value >= 0 }
