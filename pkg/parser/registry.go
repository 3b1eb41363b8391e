// Package parser turns raw screen samples into classified tiles.
//
// A Registry holds the reference templates in a fixed order. A Classifier
// walks that order for every sample and hands the first match to the
// entry's Factory.
package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/logging"
	"github.com/entrhq/powersweeper/pkg/raster"
)

// ErrNoTemplates is returned when a registry would end up empty.
var ErrNoTemplates = errors.New("no tile templates loaded")

// Factory builds the tile for a sample that matched its template.
type Factory func(loc board.TileLocation, sample *raster.Template, lookup board.TemplateLookup) board.Tile

// Entry describes one template to load.
type Entry struct {
	// Name is the registry key, e.g. "number-3".
	Name string
	// File is the PNG path inside the template file system.
	File string
	// Factory builds tiles for samples matching this template.
	Factory Factory
}

// Registered is a loaded entry.
type Registered struct {
	Name     string
	Template *raster.Template
	Factory  Factory
}

func untouchedFactory(loc board.TileLocation, sample *raster.Template, _ board.TemplateLookup) board.Tile {
	return board.NewUntouchedTile(loc, sample)
}

func waitingFactory(loc board.TileLocation, sample *raster.Template, _ board.TemplateLookup) board.Tile {
	return board.NewWaitingTile(loc, sample)
}

func bombFactory(loc board.TileLocation, sample *raster.Template, _ board.TemplateLookup) board.Tile {
	return board.NewBombTile(loc, sample)
}

func flaggedFactory(loc board.TileLocation, sample *raster.Template, _ board.TemplateLookup) board.Tile {
	return board.NewFlaggedTile(loc, sample)
}

func unknownFactory(loc board.TileLocation, sample *raster.Template, _ board.TemplateLookup) board.Tile {
	return board.NewUnknownTile(loc, sample)
}

// numberFactory probes the sample itself against all number templates.
func numberFactory(loc board.TileLocation, sample *raster.Template, lookup board.TemplateLookup) board.Tile {
	return board.NewNumberTile(loc, sample, lookup)
}

// FactoryFor returns the factory for a well-known template name.
func FactoryFor(name string) (Factory, bool) {
	switch {
	case name == "untouched":
		return untouchedFactory, true
	case name == "waiting":
		return waitingFactory, true
	case name == "bomb":
		return bombFactory, true
	case name == "flagged":
		return flaggedFactory, true
	case name == "unknown":
		return unknownFactory, true
	case strings.HasPrefix(name, "number-"):
		return numberFactory, true
	default:
		return nil, false
	}
}

// DefaultEntries returns the stock templates in classification order:
// waiting, untouched, number-0 .. number-8, bomb, flagged.
func DefaultEntries() []Entry {
	entries := []Entry{
		{Name: "waiting", File: "waiting.png", Factory: waitingFactory},
		{Name: "untouched", File: "untouched.png", Factory: untouchedFactory},
	}
	for i := 0; i <= board.MaxNumber; i++ {
		name := board.NumberTemplateName(i)
		entries = append(entries, Entry{Name: name, File: name + ".png", Factory: numberFactory})
	}
	return append(entries,
		Entry{Name: "bomb", File: "bomb.png", Factory: bombFactory},
		Entry{Name: "flagged", File: "flagged.png", Factory: flaggedFactory},
	)
}

// RegistryOptions configures LoadRegistry.
type RegistryOptions struct {
	// Include limits loading to entry names matching any pattern.
	Include []string
	// Exclude drops entry names matching any pattern. Exclude wins.
	Exclude []string
	// Logger receives load warnings. Nil discards them.
	Logger *logging.Logger
}

// Registry is an immutable, ordered set of reference templates.
type Registry struct {
	entries []Registered
	byName  map[string]*raster.Template
}

// LoadRegistry decodes the templates of entries from fsys. Entries whose file
// is missing or unreadable are skipped with a warning.
func LoadRegistry(fsys fs.FS, entries []Entry, opts RegistryOptions) (*Registry, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	matcher, err := NewPatternMatcher(opts.Include, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to create template filter: %w", err)
	}

	reg := &Registry{byName: make(map[string]*raster.Template, len(entries))}
	for _, e := range entries {
		if e.Factory == nil {
			return nil, fmt.Errorf("template %q has no factory", e.Name)
		}
		if _, dup := reg.byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate template %q", e.Name)
		}
		if !matcher.IsAllowed(e.Name) {
			log.Debugf("template %s filtered out", e.Name)
			continue
		}

		tmpl, err := loadTemplate(fsys, e)
		if err != nil {
			log.Warnf("could not load tile %q: %v", e.File, err)
			continue
		}
		reg.add(Registered{Name: e.Name, Template: tmpl, Factory: e.Factory})
	}

	if reg.Len() == 0 {
		return nil, ErrNoTemplates
	}
	log.Infof("loaded %d tile templates: %s", reg.Len(), strings.Join(reg.Names(), ", "))
	return reg, nil
}

func loadTemplate(fsys fs.FS, e Entry) (*raster.Template, error) {
	f, err := fsys.Open(e.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return raster.Decode(e.Name, f)
}

// NewRegistry builds a registry from in-memory templates in the given order.
// Every template name must have a well-known factory (see FactoryFor).
func NewRegistry(templates ...*raster.Template) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*raster.Template, len(templates))}
	for _, tmpl := range templates {
		if tmpl == nil {
			return nil, errors.New("nil template")
		}
		factory, ok := FactoryFor(tmpl.Name())
		if !ok {
			return nil, fmt.Errorf("template %q has no factory", tmpl.Name())
		}
		if _, dup := reg.byName[tmpl.Name()]; dup {
			return nil, fmt.Errorf("duplicate template %q", tmpl.Name())
		}
		reg.add(Registered{Name: tmpl.Name(), Template: tmpl, Factory: factory})
	}
	if reg.Len() == 0 {
		return nil, ErrNoTemplates
	}
	return reg, nil
}

func (r *Registry) add(e Registered) {
	r.entries = append(r.entries, e)
	r.byName[e.Name] = e.Template
}

// Template returns the template registered under name.
func (r *Registry) Template(name string) (*raster.Template, bool) {
	tmpl, ok := r.byName[name]
	return tmpl, ok
}

// Entries returns the loaded entries in classification order.
func (r *Registry) Entries() []Registered {
	out := make([]Registered, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of loaded templates.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns the loaded template names in classification order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}
