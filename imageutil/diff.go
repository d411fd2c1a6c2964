package imageutil

import "fmt"

const (
	// PixelNoiseThreshold is the summed absolute R+G+B change a pixel needs
	// before it counts as changed.
	PixelNoiseThreshold = 20

	// ChangeFactorThreshold is the minimum mean channel change for a frame
	// to count as a subtitle change. Cursor blinks and compression noise
	// stay well below it.
	ChangeFactorThreshold = 0.001

	// MinTextChangePoints and MaxTextChangePoints bound the number of
	// changed pixels of a subtitle change. Fewer is noise, more is a scene
	// cut or a quality jump.
	MinTextChangePoints = 15000
	MaxTextChangePoints = 75000
)

// ChangeStats summarises the difference between two consecutive frames.
type ChangeStats struct {
	// ChangeFactor is the mean absolute channel change in [0, 1].
	ChangeFactor float64
	// ChangedPoints counts pixels above PixelNoiseThreshold.
	ChangedPoints int
}

// IsTextChange reports whether the change looks like new subtitle text
// rather than noise or a scene change.
func (s ChangeStats) IsTextChange() bool {
	return s.ChangeFactor > ChangeFactorThreshold &&
		s.ChangedPoints > MinTextChangePoints &&
		s.ChangedPoints < MaxTextChangePoints
}

// ChangeMask compares two frames of the same size and returns a mask where
// every changed pixel carries its colour from cur and every other pixel is
// black.
func ChangeMask(prev, cur Raster) (*RGBBuffer, ChangeStats, error) {
	width, height := cur.Width(), cur.Height()
	if prev.Width() != width || prev.Height() != height {
		return nil, ChangeStats{}, fmt.Errorf(
			"%w: frames are %dx%d and %dx%d", ErrRasterSize,
			prev.Width(), prev.Height(), width, height)
	}

	mask := NewBlankRGBBuffer(width, height)
	var stats ChangeStats
	var totalChange float64

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p, c := prev.GetRGB(x, y), cur.GetRGB(x, y)
			dr, dg, db := absDiff(p.R, c.R), absDiff(p.G, c.G), absDiff(p.B, c.B)
			totalChange += float64(dr+dg+db) / 255
			if dr+dg+db >= PixelNoiseThreshold {
				mask.SetRGB(x, y, c)
				stats.ChangedPoints++
			}
		}
	}
	stats.ChangeFactor = totalChange / float64(width*height*3)

	return mask, stats, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
