package subocr

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

const (
	// RenderSize is the point size templates are rendered at (72 DPI, so
	// points equal pixels).
	RenderSize = 24.0

	// NumShifts is the number of sub-pixel renderings kept per character.
	NumShifts = 4
)

// DefaultAlphabet is the set of characters hardsubs are matched against:
// the Latin letters plus comma and period.
var DefaultAlphabet = []rune("qwertyuiopasdfghjklzxcvbnmQWERTYUIOPASDFGHJKLZXCVBNM,.")

// Shift is a sub-pixel pen offset in pixels, each coordinate in [0, 1).
type Shift struct {
	X, Y float64
}

// Shifts are the sub-pixel positions every character is rendered at. The
// index into this array is the shift index reported in matches.
var Shifts = [NumShifts]Shift{
	{X: 0, Y: 0},
	{X: 0.5, Y: 0},
	{X: 0, Y: 0.5},
	{X: 0.5, Y: 0.5},
}

var (
	// ErrMissingGlyph is returned when the font cannot render a character
	// of the alphabet.
	ErrMissingGlyph = errors.New("subocr: font has no glyph for character")

	// ErrEmptyAlphabet is returned when a glyph cache is built without any
	// characters.
	ErrEmptyAlphabet = errors.New("subocr: empty alphabet")
)

// Rasterizer renders one character at a sub-pixel shift and point size into
// anti-aliased coverage samples. Coordinates may be negative; callers only
// rely on their relative positions.
type Rasterizer interface {
	Rasterize(r rune, shift Shift, size float64) ([]PixelCoverage, error)
}

// GlyphCache holds the template shapes of every alphabet character at every
// shift. It is read-only once built and safe for concurrent use.
type GlyphCache struct {
	name      string
	size      float64
	alphabet  []rune
	templates map[rune][NumShifts]Shape
}

type cacheConfig struct {
	name     string
	size     float64
	alphabet []rune
}

// CacheOption configures NewGlyphCache.
type CacheOption func(*cacheConfig)

// WithAlphabet replaces DefaultAlphabet. Duplicates are ignored.
func WithAlphabet(runes []rune) CacheOption {
	return func(c *cacheConfig) {
		c.alphabet = runes
	}
}

// WithRenderSize replaces RenderSize.
func WithRenderSize(size float64) CacheOption {
	return func(c *cacheConfig) {
		c.size = size
	}
}

// WithFontName records the font the cache was rendered from.
func WithFontName(name string) CacheOption {
	return func(c *cacheConfig) {
		c.name = name
	}
}

// NewGlyphCache renders every alphabet character at every shift with r. A
// character the font cannot draw fails the whole build.
func NewGlyphCache(r Rasterizer, opts ...CacheOption) (*GlyphCache, error) {
	cfg := cacheConfig{size: RenderSize, alphabet: DefaultAlphabet}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}

	gc := &GlyphCache{
		name:      cfg.name,
		size:      cfg.size,
		templates: make(map[rune][NumShifts]Shape, len(cfg.alphabet)),
	}
	for _, ch := range cfg.alphabet {
		if _, dup := gc.templates[ch]; dup {
			continue
		}
		var shapes [NumShifts]Shape
		for i, shift := range Shifts {
			pixels, err := r.Rasterize(ch, shift, cfg.size)
			if err != nil {
				return nil, fmt.Errorf("rendering %q at shift %d: %w", ch, i, err)
			}
			s, ok := MakeShape(pixels)
			if !ok {
				return nil, fmt.Errorf("%w: %q renders no ink", ErrMissingGlyph, ch)
			}
			shapes[i] = s
		}
		gc.templates[ch] = shapes
		gc.alphabet = append(gc.alphabet, ch)
	}

	Logger().Debug("built glyph cache",
		"font", gc.name, "size", gc.size, "characters", len(gc.alphabet))
	return gc, nil
}

// Templates returns the template of ch at every shift. Asking for a
// character outside the alphabet is a programming error and panics.
func (gc *GlyphCache) Templates(ch rune) [NumShifts]Shape {
	t, ok := gc.templates[ch]
	if !ok {
		panic(fmt.Sprintf("subocr: %q is not in the glyph cache alphabet", ch))
	}
	return t
}

// Has reports whether ch is part of the alphabet.
func (gc *GlyphCache) Has(ch rune) bool {
	_, ok := gc.templates[ch]
	return ok
}

// Alphabet returns the characters in build order.
func (gc *GlyphCache) Alphabet() []rune {
	return slices.Clone(gc.alphabet)
}

// Name returns the font name recorded at build time.
func (gc *GlyphCache) Name() string { return gc.name }

// Size returns the render size.
func (gc *GlyphCache) Size() float64 { return gc.size }

// glyphCacheData is the serialised form of a GlyphCache.
type glyphCacheData struct {
	FontName  string
	Size      float64
	Alphabet  []rune
	Templates map[rune][]shapeData
}

type shapeData struct {
	Bounds   Bounds
	Coverage []float32
}

// WriteTo writes the cache as gzip-compressed gob.
func (gc *GlyphCache) WriteTo(w io.Writer) (int64, error) {
	data := glyphCacheData{
		FontName:  gc.name,
		Size:      gc.size,
		Alphabet:  gc.alphabet,
		Templates: make(map[rune][]shapeData, len(gc.templates)),
	}
	for ch, shapes := range gc.templates {
		sd := make([]shapeData, NumShifts)
		for i, s := range shapes {
			sd[i] = shapeData{Bounds: s.Bounds, Coverage: s.cov}
		}
		data.Templates[ch] = sd
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := gob.NewEncoder(gz).Encode(&data); err != nil {
		gz.Close()
		return 0, fmt.Errorf("failed to encode glyph cache: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("failed to close gzip: %w", err)
	}
	return buf.WriteTo(w)
}

// ReadGlyphCache decodes a cache written by WriteTo.
func ReadGlyphCache(r io.Reader) (*GlyphCache, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	var data glyphCacheData
	if err := gob.NewDecoder(gr).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode glyph cache: %w", err)
	}
	if len(data.Alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}

	gc := &GlyphCache{
		name:      data.FontName,
		size:      data.Size,
		alphabet:  data.Alphabet,
		templates: make(map[rune][NumShifts]Shape, len(data.Alphabet)),
	}
	for _, ch := range data.Alphabet {
		sd, ok := data.Templates[ch]
		if !ok || len(sd) != NumShifts {
			return nil, fmt.Errorf("%w: %q missing from cache file", ErrMissingGlyph, ch)
		}
		var shapes [NumShifts]Shape
		for i, d := range sd {
			if len(d.Coverage) != d.Bounds.Area() || d.Bounds.IsEmpty() {
				return nil, fmt.Errorf("glyph cache entry %q/%d: %d cells for bounds %v",
					ch, i, len(d.Coverage), d.Bounds)
			}
			shapes[i] = Shape{Bounds: d.Bounds, cov: d.Coverage}
		}
		gc.templates[ch] = shapes
	}
	return gc, nil
}

// SaveGlyphCache writes gc to path.
func SaveGlyphCache(gc *GlyphCache, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := gc.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadGlyphCache reads a cache file written by SaveGlyphCache.
func LoadGlyphCache(path string) (*GlyphCache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGlyphCache(f)
}
