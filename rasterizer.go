package subocr

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FreetypeRasterizer renders glyphs with the freetype TrueType rasteriser.
// Hinting is off so sub-pixel shifts change the coverage.
type FreetypeRasterizer struct {
	font *truetype.Font
	name string
}

// NewFreetypeRasterizer parses a TrueType font.
func NewFreetypeRasterizer(ttf []byte, name string) (*FreetypeRasterizer, error) {
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &FreetypeRasterizer{font: f, name: name}, nil
}

// LoadFreetypeRasterizer reads and parses a TrueType font file.
func LoadFreetypeRasterizer(path string) (*FreetypeRasterizer, error) {
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFreetypeRasterizer(ttf, path)
}

// DefaultRasterizer renders the Go Regular sans-serif face.
func DefaultRasterizer() *FreetypeRasterizer {
	r, err := NewFreetypeRasterizer(goregular.TTF, "goregular")
	if err != nil {
		// The embedded font always parses.
		panic(err)
	}
	return r
}

// Name returns the font name or path.
func (f *FreetypeRasterizer) Name() string { return f.name }

// Rasterize implements Rasterizer.
func (f *FreetypeRasterizer) Rasterize(r rune, shift Shift, size float64) ([]PixelCoverage, error) {
	if f.font.Index(r) == 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingGlyph, r, f.name)
	}
	// Faces cache glyphs and are not safe for concurrent use.
	face := truetype.NewFace(f.font, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingNone,
		SubPixelsX: 4,
		SubPixelsY: 4,
	})
	defer face.Close()

	dr, mask, maskp, _, ok := face.Glyph(shiftDot(shift), r)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingGlyph, r, f.name)
	}
	return maskCoverage(dr, mask, maskp), nil
}

// OpenTypeRasterizer renders glyphs with the x/image OpenType face, which
// also reads CFF-flavoured fonts.
type OpenTypeRasterizer struct {
	font *sfnt.Font
	name string
}

// NewOpenTypeRasterizer parses a TrueType or OpenType font.
func NewOpenTypeRasterizer(data []byte, name string) (*OpenTypeRasterizer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &OpenTypeRasterizer{font: f, name: name}, nil
}

// LoadOpenTypeRasterizer reads and parses a font file.
func LoadOpenTypeRasterizer(path string) (*OpenTypeRasterizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewOpenTypeRasterizer(data, path)
}

// Name returns the font name or path.
func (o *OpenTypeRasterizer) Name() string { return o.name }

// Rasterize implements Rasterizer.
func (o *OpenTypeRasterizer) Rasterize(r rune, shift Shift, size float64) ([]PixelCoverage, error) {
	var buf sfnt.Buffer
	idx, err := o.font.GlyphIndex(&buf, r)
	if err != nil {
		return nil, fmt.Errorf("looking up %q in %s: %w", r, o.name, err)
	}
	if idx == 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingGlyph, r, o.name)
	}

	face, err := opentype.NewFace(o.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", o.name, err)
	}
	defer face.Close()

	dr, mask, maskp, _, ok := face.Glyph(shiftDot(shift), r)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingGlyph, r, o.name)
	}
	return maskCoverage(dr, mask, maskp), nil
}

func shiftDot(s Shift) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(s.X * 64),
		Y: fixed.Int26_6(s.Y * 64),
	}
}

// maskCoverage turns a glyph mask drawn at dr into coverage samples in dr's
// coordinates.
func maskCoverage(dr image.Rectangle, mask image.Image, maskp image.Point) []PixelCoverage {
	pixels := make([]PixelCoverage, 0, dr.Dx()*dr.Dy())
	alpha, isAlpha := mask.(*image.Alpha)
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			mx, my := maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y
			var c float32
			if isAlpha {
				c = float32(alpha.AlphaAt(mx, my).A) / 255
			} else {
				_, _, _, a := mask.At(mx, my).RGBA()
				c = float32(a) / 0xffff
			}
			pixels = append(pixels, PixelCoverage{X: x, Y: y, C: c})
		}
	}
	return pixels
}
