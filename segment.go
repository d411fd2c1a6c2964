package subocr

import (
	"errors"
	"fmt"

	"github.com/subocr/subocr/imageutil"
)

// ErrRasterMismatch is returned when the frame and change mask differ in
// size.
var ErrRasterMismatch = errors.New("subocr: frame and mask dimensions differ")

// Pixel is one selected frame pixel with its sampled colour.
type Pixel struct {
	Point Point
	Color imageutil.RGB
}

// Blob is a 4-connected region selected by the magic wand.
type Blob struct {
	Pixels []Pixel
}

// segmentation holds the state of a single magic-wand pass. It is created
// per call and never shared.
type segmentation struct {
	frame   imageutil.Raster
	mask    imageutil.Raster
	width   int
	height  int
	visited []bool
	out     *imageutil.RGBBuffer // nil unless debug output was requested
	stack   []Point
	nbuf    [4]Point
}

// Segment extracts every blob of light ink from frame, seeded from the
// nearly white pixels of mask. Blobs that touch a pixel that is neither
// light nor a dark outline are dropped.
func Segment(frame, mask imageutil.Raster) ([]Blob, error) {
	blobs, _, err := segment(frame, mask, false)
	return blobs, err
}

// SegmentDebug is Segment plus a raster of the input's size in which every
// kept pixel carries its frame colour and everything else is black.
func SegmentDebug(frame, mask imageutil.Raster) ([]Blob, *imageutil.RGBBuffer, error) {
	return segment(frame, mask, true)
}

func segment(frame, mask imageutil.Raster, debug bool) ([]Blob, *imageutil.RGBBuffer, error) {
	if frame.Width() != mask.Width() || frame.Height() != mask.Height() {
		return nil, nil, fmt.Errorf("%w: frame %dx%d, mask %dx%d", ErrRasterMismatch,
			frame.Width(), frame.Height(), mask.Width(), mask.Height())
	}
	if frame.Width() <= 0 || frame.Height() <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", imageutil.ErrRasterSize, frame.Width(), frame.Height())
	}

	s := &segmentation{
		frame:   frame,
		mask:    mask,
		width:   frame.Width(),
		height:  frame.Height(),
		visited: make([]bool, frame.Width()*frame.Height()),
		stack:   make([]Point, 0, 64),
	}
	if debug {
		s.out = imageutil.NewBlankRGBBuffer(s.width, s.height)
	}

	var blobs []Blob
	discarded := 0
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.visited[y*s.width+x] {
				continue
			}
			c := mask.GetRGB(x, y)
			if c.IsBlack() || !c.IsNearlyWhite() {
				continue
			}
			blob, clean := s.fill(Point{X: x, Y: y})
			if !clean {
				s.erase(blob)
				discarded++
				continue
			}
			blobs = append(blobs, blob)
		}
	}

	Logger().Debug("segmented frame",
		"width", s.width, "height", s.height,
		"blobs", len(blobs), "discarded", discarded)
	return blobs, s.out, nil
}

// fill grows a blob from seed. It reports false when the region touched a
// pixel that disqualifies it.
func (s *segmentation) fill(seed Point) (Blob, bool) {
	var blob Blob
	clean := true

	s.keep(&blob, seed)
	s.stack = append(s.stack[:0], seed)
	for len(s.stack) > 0 {
		p := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		for _, n := range s.neighbours(p) {
			if s.visited[n.Y*s.width+n.X] {
				continue
			}
			s.visited[n.Y*s.width+n.X] = true

			c := s.frame.GetRGB(n.X, n.Y)
			switch {
			case c.IsSomewhatWhite() || c.IsGreyish():
				s.keep(&blob, n)
				s.stack = append(s.stack, n)
			case c.IsCloselyBlack():
				// outline
			default:
				clean = false
			}
		}
	}
	return blob, clean
}

func (s *segmentation) keep(blob *Blob, p Point) {
	c := s.frame.GetRGB(p.X, p.Y)
	blob.Pixels = append(blob.Pixels, Pixel{Point: p, Color: c})
	s.visited[p.Y*s.width+p.X] = true
	if s.out != nil {
		s.out.SetRGB(p.X, p.Y, c)
	}
}

func (s *segmentation) erase(blob Blob) {
	if s.out == nil {
		return
	}
	for _, px := range blob.Pixels {
		s.out.SetRGB(px.Point.X, px.Point.Y, imageutil.Black)
	}
}

// neighbours returns the in-bounds 4-neighbours of p.
func (s *segmentation) neighbours(p Point) []Point {
	out := s.nbuf[:0]
	if p.X > 0 {
		out = append(out, Point{X: p.X - 1, Y: p.Y})
	}
	if p.X < s.width-1 {
		out = append(out, Point{X: p.X + 1, Y: p.Y})
	}
	if p.Y > 0 {
		out = append(out, Point{X: p.X, Y: p.Y - 1})
	}
	if p.Y < s.height-1 {
		out = append(out, Point{X: p.X, Y: p.Y + 1})
	}
	return out
}
