package subocr

import (
	"fmt"
	"testing"

	"github.com/subocr/subocr/imageutil"
)

// patternRasterizer draws glyphs from ASCII art: '#' is full ink, '+' half
// ink, anything else background. Shifts are ignored.
type patternRasterizer map[rune][]string

func (p patternRasterizer) Rasterize(r rune, _ Shift, _ float64) ([]PixelCoverage, error) {
	rows, ok := p[r]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingGlyph, r)
	}
	var pixels []PixelCoverage
	for y, row := range rows {
		for x, ch := range row {
			pixels = append(pixels, PixelCoverage{X: x, Y: y, C: patternCoverage(ch)})
		}
	}
	return pixels, nil
}

func patternCoverage(ch rune) float32 {
	switch ch {
	case '#':
		return 1
	case '+':
		return 0.5
	}
	return 0
}

// patternShape builds a shape at origin from ASCII art rows.
func patternShape(origin Point, rows ...string) Shape {
	grid := make([][]float32, len(rows))
	for y, row := range rows {
		for _, ch := range row {
			grid[y] = append(grid[y], patternCoverage(ch))
		}
	}
	return ShapeFromRows(origin, grid)
}

// paintPattern draws ASCII art into img at (x0, y0) in white.
func paintPattern(img *imageutil.RGBAImage, x0, y0 int, rows ...string) {
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				img.SetRGB(x0+x, y0+y, imageutil.RGB{R: 255, G: 255, B: 255})
			}
		}
	}
}

var (
	glyphR = []string{
		"###",
		"#..",
		"#..",
		"#..",
		"#..",
		"#..",
	}
	glyphN = []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
	}
	glyphO = []string{
		"####",
		"#..#",
		"#..#",
		"####",
	}
	// r and n touching, segmented as one blob.
	blobRN = []string{
		"########",
		"#..#...#",
		"#..#...#",
		"#..#...#",
		"#..#...#",
		"#..#...#",
	}
)

func testRasterizer() patternRasterizer {
	return patternRasterizer{'r': glyphR, 'n': glyphN, 'o': glyphO}
}

func testCache(t *testing.T) *GlyphCache {
	t.Helper()
	gc, err := NewGlyphCache(testRasterizer(), WithAlphabet([]rune("rno")), WithFontName("pattern"))
	if err != nil {
		t.Fatalf("NewGlyphCache failed: %v", err)
	}
	return gc
}
