package parser

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/raster"
)

const fixtureSize = 6

var (
	untouchedColor = color.NRGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}
	waitingColor   = color.NRGBA{R: 0xF0, G: 0xE0, B: 0x10, A: 0xFF}
	bombColor      = color.NRGBA{R: 0xE0, G: 0x10, B: 0x10, A: 0xFF}
	flagColor      = color.NRGBA{R: 0x10, G: 0x10, B: 0xE0, A: 0xFF}
)

func numberColor(v int) color.NRGBA {
	return color.NRGBA{R: 0x20, G: uint8(0x20 + v*0x10), B: 0x20, A: 0xFF}
}

func fill(name string, c color.NRGBA) *raster.Template {
	return raster.Fill(name, fixtureSize, fixtureSize, c)
}

func encode(t *testing.T, tmpl *raster.Template) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, tmpl.Image()))
	return buf.Bytes()
}

// fixtureFS holds every default template except flagged.png.
func fixtureFS(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{
		"untouched.png": {Data: encode(t, fill("untouched", untouchedColor))},
		"waiting.png":   {Data: encode(t, fill("waiting", waitingColor))},
		"bomb.png":      {Data: encode(t, fill("bomb", bombColor))},
	}
	for i := 0; i <= board.MaxNumber; i++ {
		name := board.NumberTemplateName(i)
		fsys[name+".png"] = &fstest.MapFile{Data: encode(t, fill(name, numberColor(i)))}
	}
	return fsys
}

func TestDefaultEntries_Order(t *testing.T) {
	var names []string
	for _, e := range DefaultEntries() {
		require.NotNil(t, e.Factory, e.Name)
		assert.Equal(t, e.Name+".png", e.File)
		names = append(names, e.Name)
	}

	assert.Equal(t, []string{
		"waiting", "untouched",
		"number-0", "number-1", "number-2", "number-3", "number-4",
		"number-5", "number-6", "number-7", "number-8",
		"bomb", "flagged",
	}, names)
}

func TestLoadRegistry_SkipsMissingTemplates(t *testing.T) {
	reg, err := LoadRegistry(fixtureFS(t), DefaultEntries(), RegistryOptions{})
	require.NoError(t, err)

	assert.Equal(t, 12, reg.Len())
	_, ok := reg.Template("flagged")
	assert.False(t, ok)
	tmpl, ok := reg.Template("number-4")
	require.True(t, ok)
	assert.Equal(t, "number-4", tmpl.Name())
	assert.Equal(t, "waiting", reg.Names()[0])
}

func TestLoadRegistry_CorruptTemplateSkipped(t *testing.T) {
	fsys := fixtureFS(t)
	fsys["bomb.png"] = &fstest.MapFile{Data: []byte("not a png")}

	reg, err := LoadRegistry(fsys, DefaultEntries(), RegistryOptions{})
	require.NoError(t, err)
	_, ok := reg.Template("bomb")
	assert.False(t, ok)
}

func TestLoadRegistry_Filters(t *testing.T) {
	tests := []struct {
		name    string
		opts    RegistryOptions
		want    []string
		wantErr bool
	}{
		{
			name: "include numbers only",
			opts: RegistryOptions{Include: []string{"number-*"}},
			want: []string{"number-0", "number-1", "number-2", "number-3", "number-4", "number-5", "number-6", "number-7", "number-8"},
		},
		{
			name: "exclude wins over include",
			opts: RegistryOptions{Include: []string{"*"}, Exclude: []string{"number-*", "waiting"}},
			want: []string{"untouched", "bomb"},
		},
		{
			name: "character class",
			opts: RegistryOptions{Include: []string{"number-[0-2]", "untouched"}},
			want: []string{"untouched", "number-0", "number-1", "number-2"},
		},
		{
			name:    "invalid pattern",
			opts:    RegistryOptions{Include: []string{"number-[0-"}},
			wantErr: true,
		},
		{
			name:    "everything excluded",
			opts:    RegistryOptions{Exclude: []string{"*"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := LoadRegistry(fixtureFS(t), DefaultEntries(), tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, reg.Names())
		})
	}
}

func TestLoadRegistry_EntryWithoutFactory(t *testing.T) {
	_, err := LoadRegistry(fixtureFS(t), []Entry{{Name: "bomb", File: "bomb.png"}}, RegistryOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no factory")
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(fill("untouched", untouchedColor), fill("number-2", numberColor(2)))
	require.NoError(t, err)
	assert.Equal(t, []string{"untouched", "number-2"}, reg.Names())

	_, err = NewRegistry(fill("sparkles", untouchedColor))
	assert.Error(t, err)

	_, err = NewRegistry(fill("bomb", bombColor), fill("bomb", bombColor))
	assert.Error(t, err)

	_, err = NewRegistry()
	assert.ErrorIs(t, err, ErrNoTemplates)
}

func TestPatternMatcher(t *testing.T) {
	pm, err := NewPatternMatcher(nil, []string{"bomb"})
	require.NoError(t, err)
	assert.True(t, pm.IsAllowed("number-1"))
	assert.False(t, pm.IsAllowed("bomb"))

	_, err = NewPatternMatcher(nil, []string{"["})
	assert.Error(t, err)
}

func newTestClassifier(t *testing.T, opts ...ClassifierOption) *Classifier {
	t.Helper()
	reg, err := LoadRegistry(fixtureFS(t), DefaultEntries(), RegistryOptions{})
	require.NoError(t, err)
	return NewClassifier(reg, opts...)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		sample    *raster.Template
		wantKind  board.Kind
		wantValue int
	}{
		{name: "untouched", sample: fill("s", untouchedColor), wantKind: board.KindUntouched},
		{name: "waiting", sample: fill("s", waitingColor), wantKind: board.KindWaiting},
		{name: "bomb", sample: fill("s", bombColor), wantKind: board.KindBomb},
		{name: "number zero", sample: fill("s", numberColor(0)), wantKind: board.KindNumber, wantValue: 0},
		{name: "number seven", sample: fill("s", numberColor(7)), wantKind: board.KindNumber, wantValue: 7},
		{name: "unmatched falls back to flagged", sample: fill("s", flagColor), wantKind: board.KindFlagged},
		{name: "wrong size falls back", sample: raster.Fill("s", 5, 5, untouchedColor), wantKind: board.KindFlagged},
	}

	c := newTestClassifier(t)
	chunk := board.NewChunk(board.ChunkLocation{}, 2, 2)
	loc, err := chunk.TileLocation(1, 1)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := c.Classify(loc, tt.sample)
			assert.Equal(t, tt.wantKind, tile.Kind())
			assert.Equal(t, loc, tile.Location())
			assert.Same(t, tt.sample, tile.Template())
			if n, ok := tile.(*board.NumberTile); ok {
				assert.Equal(t, tt.wantValue, n.Value())
			}
		})
	}
}

func TestClassify_UnknownFallback(t *testing.T) {
	c := newTestClassifier(t, WithFallback(FallbackUnknown))
	tile := c.Classify(board.TileLocation{}, fill("s", flagColor))
	assert.Equal(t, board.KindUnknown, tile.Kind())
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// fully transparent reference matches any same-size sample
	wildcard := raster.NewTemplate("waiting", image.NewNRGBA(image.Rect(0, 0, fixtureSize, fixtureSize)))
	reg, err := NewRegistry(wildcard, fill("bomb", bombColor))
	require.NoError(t, err)

	tile := NewClassifier(reg).Classify(board.TileLocation{}, fill("s", bombColor))
	assert.Equal(t, board.KindWaiting, tile.Kind())
}

func TestParseChunk(t *testing.T) {
	c := newTestClassifier(t)
	chunk := board.NewChunk(board.ChunkLocation{X: 5, Y: 6}, 3, 2)

	source := func(x, y int) (*raster.Template, bool) {
		switch {
		case x == 0 && y == 0:
			return fill("s", numberColor(1)), true
		case x == 2 && y == 1:
			return fill("s", bombColor), true
		default:
			return fill("s", untouchedColor), true
		}
	}

	require.NoError(t, c.ParseChunk(chunk, source))
	assert.Equal(t, "1--\n--*", chunk.String())

	tile, err := chunk.TileAt(0, 0)
	require.NoError(t, err)
	assert.Same(t, chunk, tile.Location().Chunk)
}

func TestParseChunk_MissingSample(t *testing.T) {
	c := newTestClassifier(t)
	chunk := board.NewChunk(board.ChunkLocation{}, 3, 3)

	err := c.ParseChunk(chunk, func(x, y int) (*raster.Template, bool) {
		if x == 2 && y == 2 {
			return nil, false
		}
		return fill("s", untouchedColor), true
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2,2")
}

func TestParseFallback(t *testing.T) {
	f, err := ParseFallback("")
	require.NoError(t, err)
	assert.Equal(t, FallbackFlagged, f)

	f, err = ParseFallback("unknown")
	require.NoError(t, err)
	assert.Equal(t, FallbackUnknown, f)

	_, err = ParseFallback("guess")
	assert.Error(t, err)
}
