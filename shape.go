package subocr

import (
	"fmt"
	"strings"

	"github.com/subocr/subocr/imageutil"
)

// InkThreshold is the coverage a pixel needs to count towards a shape's
// bounding box.
const InkThreshold = 0.001

// PixelCoverage is one absolute pixel with its ink coverage in [0, 1].
type PixelCoverage struct {
	X, Y int
	C    float32
}

// Shape is a bounding box plus a dense coverage matrix of exactly
// Width x Height cells addressed relative to Bounds.Start. Shapes are
// values: operations return new shapes and never modify their receiver.
type Shape struct {
	Bounds Bounds
	cov    []float32 // row-major
}

// NewShape allocates an all-background shape covering b.
func NewShape(b Bounds) Shape {
	return Shape{Bounds: b, cov: make([]float32, b.Area())}
}

// MakeShape builds the tight shape of a set of coverage samples. Samples at
// or below InkThreshold neither extend the bounds nor get written. It
// returns false when no sample is above the threshold.
func MakeShape(pixels []PixelCoverage) (Shape, bool) {
	b := EmptyBounds
	for _, p := range pixels {
		if p.C <= InkThreshold {
			continue
		}
		pb := Bounds{Start: Point{X: p.X, Y: p.Y}, End: Point{X: p.X, Y: p.Y}}
		b = b.Union(pb)
	}
	if b.IsEmpty() {
		return Shape{Bounds: EmptyBounds}, false
	}

	s := NewShape(b)
	for _, p := range pixels {
		if p.C <= InkThreshold {
			continue
		}
		s.set(p.X-b.Start.X, p.Y-b.Start.Y, p.C)
	}
	return s, true
}

// ShapeFromBlob converts a segmented blob into its relative bitmap using
// the mean channel intensity of each pixel as coverage.
func ShapeFromBlob(blob Blob) (Shape, bool) {
	pixels := make([]PixelCoverage, len(blob.Pixels))
	for i, p := range blob.Pixels {
		pixels[i] = PixelCoverage{X: p.Point.X, Y: p.Point.Y, C: p.Color.Coverage()}
	}
	return MakeShape(pixels)
}

// ShapeFromRows builds a shape at origin from a grid of coverage values,
// rows top to bottom. Rows must have equal length.
func ShapeFromRows(origin Point, rows [][]float32) Shape {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Shape{Bounds: EmptyBounds}
	}
	s := NewShape(Bounds{
		Start: origin,
		End:   Point{X: origin.X + len(rows[0]) - 1, Y: origin.Y + len(rows) - 1},
	})
	for y, row := range rows {
		if len(row) != s.Width() {
			panic(fmt.Sprintf("subocr: ragged row %d: %d cells, want %d", y, len(row), s.Width()))
		}
		for x, c := range row {
			s.set(x, y, c)
		}
	}
	return s
}

// Width returns the number of columns.
func (s Shape) Width() int { return s.Bounds.Width() }

// Height returns the number of rows.
func (s Shape) Height() int { return s.Bounds.Height() }

// Area returns the number of cells.
func (s Shape) Area() int { return s.Bounds.Area() }

// IsEmpty reports whether the shape has no cells.
func (s Shape) IsEmpty() bool { return s.Bounds.IsEmpty() }

// At returns the coverage at (x, y) relative to Bounds.Start. Cells
// outside the matrix read as 0.
func (s Shape) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= s.Width() || y >= s.Height() {
		return 0
	}
	return s.cov[y*s.Width()+x]
}

func (s Shape) set(x, y int, c float32) {
	s.cov[y*s.Width()+x] = c
}

// Ink returns the summed coverage of all cells.
func (s Shape) Ink() float64 {
	var sum float64
	for _, c := range s.cov {
		sum += float64(c)
	}
	return sum
}

// Columns returns the sub-shape of relative columns [from, to). The result
// keeps its absolute position.
func (s Shape) Columns(from, to int) Shape {
	from, to = max(from, 0), min(to, s.Width())
	if from >= to {
		return Shape{Bounds: EmptyBounds}
	}
	out := NewShape(Bounds{
		Start: Point{X: s.Bounds.Start.X + from, Y: s.Bounds.Start.Y},
		End:   Point{X: s.Bounds.Start.X + to - 1, Y: s.Bounds.End.Y},
	})
	for y := 0; y < s.Height(); y++ {
		copy(out.cov[y*out.Width():(y+1)*out.Width()], s.cov[y*s.Width()+from:y*s.Width()+to])
	}
	return out
}

// DropTopRows returns the shape without its first n rows.
func (s Shape) DropTopRows(n int) Shape {
	if n <= 0 {
		return s
	}
	if n >= s.Height() {
		return Shape{Bounds: EmptyBounds}
	}
	out := Shape{
		Bounds: Bounds{
			Start: Point{X: s.Bounds.Start.X, Y: s.Bounds.Start.Y + n},
			End:   s.Bounds.End,
		},
	}
	out.cov = append([]float32(nil), s.cov[n*s.Width():]...)
	return out
}

// Tighten shrinks the shape to the cells above InkThreshold. It returns
// false when no such cell exists.
func (s Shape) Tighten() (Shape, bool) {
	pixels := make([]PixelCoverage, 0, s.Area())
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			pixels = append(pixels, PixelCoverage{
				X: s.Bounds.Start.X + x,
				Y: s.Bounds.Start.Y + y,
				C: s.At(x, y),
			})
		}
	}
	return MakeShape(pixels)
}

// Merge places a and b on the union of their bounds. Overlapping cells
// keep the larger coverage, so Merge(a, b) equals Merge(b, a).
func Merge(a, b Shape) Shape {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	out := NewShape(a.Bounds.Union(b.Bounds))
	for _, src := range []Shape{a, b} {
		off := src.Bounds.Start.Sub(out.Bounds.Start)
		for y := 0; y < src.Height(); y++ {
			for x := 0; x < src.Width(); x++ {
				if c := src.At(x, y); c > out.At(x+off.X, y+off.Y) {
					out.set(x+off.X, y+off.Y, c)
				}
			}
		}
	}
	return out
}

// Equal reports whether both shapes cover the same bounds with identical
// coverage.
func (s Shape) Equal(o Shape) bool {
	if s.Bounds != o.Bounds || len(s.cov) != len(o.cov) {
		return false
	}
	for i := range s.cov {
		if s.cov[i] != o.cov[i] {
			return false
		}
	}
	return true
}

// SameCoverage reports whether both shapes have equal dimensions and
// identical coverage, ignoring their position.
func (s Shape) SameCoverage(o Shape) bool {
	if s.Width() != o.Width() || s.Height() != o.Height() {
		return false
	}
	for i := range s.cov {
		if s.cov[i] != o.cov[i] {
			return false
		}
	}
	return true
}

// Image renders the coverage as a grey raster.
func (s Shape) Image() *imageutil.RGBAImage {
	img := imageutil.NewRGBAImage(s.Width(), s.Height())
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			img.SetRGB(x, y, imageutil.CoverageColor(s.At(x, y)))
		}
	}
	return img
}

// String draws the shape as text, one row per line: '#' for strong ink,
// '+' for partial coverage and '.' for background.
func (s Shape) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v\n", s.Bounds)
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			switch c := s.At(x, y); {
			case c >= 0.5:
				sb.WriteByte('#')
			case c > InkThreshold:
				sb.WriteByte('+')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
