// Package raster holds the visual fingerprints used to recognize tiles.
//
// A Template is a fixed-size image plus a name. Templates are only ever
// compared for equality; the meaning of a match is decided by the parser.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

// Template is a named raster used as a reference fingerprint or as a raw
// sample cut out of a screenshot.
type Template struct {
	name  string
	image *image.NRGBA
}

// NewTemplate copies img into a new template. The copy is rebased so that
// its bounds start at the origin.
func NewTemplate(name string, img image.Image) *Template {
	return &Template{
		name:  name,
		image: toNRGBA(img, img.Bounds()),
	}
}

// Decode reads a PNG encoded template.
func Decode(name string, r io.Reader) (*Template, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %q: %w", name, err)
	}
	return NewTemplate(name, img), nil
}

// Crop copies rect out of img. The rectangle is intersected with the image
// bounds, so a sample near the border of a screenshot can come out smaller
// than requested and will simply not match any template.
func Crop(name string, img image.Image, rect image.Rectangle) *Template {
	return &Template{
		name:  name,
		image: toNRGBA(img, rect.Intersect(img.Bounds())),
	}
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Bounds returns the template bounds. The minimum point is always the origin.
func (t *Template) Bounds() image.Rectangle {
	return t.image.Bounds()
}

// Size returns the template width and height.
func (t *Template) Size() (int, int) {
	b := t.image.Bounds()
	return b.Dx(), b.Dy()
}

// Image exposes the underlying pixels. Callers must not modify them.
func (t *Template) Image() image.Image {
	return t.image
}

// Matches reports whether sample looks like t.
//
// Both rasters must have identical dimensions. Every pixel where t is fully
// transparent is ignored; every other pixel must carry bit-identical RGB
// values in both rasters.
func (t *Template) Matches(sample *Template) bool {
	if t == nil || sample == nil {
		return false
	}

	w, h := t.Size()
	sw, sh := sample.Size()
	if w != sw || h != sh {
		return false
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ref := t.image.NRGBAAt(x, y)
			if ref.A == 0 {
				continue
			}
			got := sample.image.NRGBAAt(x, y)
			if ref.R != got.R || ref.G != got.G || ref.B != got.B {
				return false
			}
		}
	}

	return true
}

func (t *Template) String() string {
	w, h := t.Size()
	return fmt.Sprintf("%s(%dx%d)", t.name, w, h)
}

// toNRGBA copies rect of img into a fresh NRGBA image anchored at the origin.
func toNRGBA(img image.Image, rect image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))

	// draw.Draw goes through premultiplied alpha, which is lossy for
	// translucent pixels. Copy NRGBA rows verbatim instead.
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < rect.Dy(); y++ {
			from := src.PixOffset(rect.Min.X, rect.Min.Y+y)
			to := out.PixOffset(0, y)
			copy(out.Pix[to:to+rect.Dx()*4], src.Pix[from:from+rect.Dx()*4])
		}
		return out
	}

	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}

// Fill returns a w×h template painted with c. Useful for building
// synthetic fixtures.
func Fill(name string, w, h int, c color.Color) *Template {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return &Template{name: name, image: img}
}
