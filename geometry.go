package subocr

import "fmt"

// Point is a pixel coordinate with the origin at the top left and y growing
// downwards. Coordinates are signed because alignment search moves shapes
// past the image edges.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Bounds is an inclusive rectangle: both Start and End are inside it.
type Bounds struct {
	Start Point
	End   Point
}

// EmptyBounds is the sentinel for a rectangle containing no pixel.
var EmptyBounds = Bounds{Start: Point{X: 0, Y: 0}, End: Point{X: -1, Y: -1}}

// IsEmpty reports whether b contains no pixel.
func (b Bounds) IsEmpty() bool {
	return b.End.X < b.Start.X || b.End.Y < b.Start.Y
}

// Width returns the number of columns covered by b.
func (b Bounds) Width() int {
	if b.IsEmpty() {
		return 0
	}
	return b.End.X - b.Start.X + 1
}

// Height returns the number of rows covered by b.
func (b Bounds) Height() int {
	if b.IsEmpty() {
		return 0
	}
	return b.End.Y - b.Start.Y + 1
}

// Area returns Width*Height.
func (b Bounds) Area() int {
	return b.Width() * b.Height()
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Start.X && p.X <= b.End.X &&
		p.Y >= b.Start.Y && p.Y <= b.End.Y
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Bounds{
		Start: Point{X: min(b.Start.X, o.Start.X), Y: min(b.Start.Y, o.Start.Y)},
		End:   Point{X: max(b.End.X, o.End.X), Y: max(b.End.Y, o.End.Y)},
	}
}

// HorizontalOverlap returns the number of columns shared by b and o.
func (b Bounds) HorizontalOverlap(o Bounds) int {
	return max(0, min(b.End.X, o.End.X)-max(b.Start.X, o.Start.X)+1)
}

func (b Bounds) String() string {
	if b.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%v-%v]", b.Start, b.End)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
