package subocr

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

const (
	// ScoreScale is the fixed-point scale of match scores: a template that
	// explains every cell perfectly scores ScoreScale.
	ScoreScale = 10_000_000

	// DefaultAcceptThreshold is the score a single character needs to be
	// accepted without trying ligature splits.
	DefaultAcceptThreshold = 8_000_000
)

// CharMatch is one candidate reading of a shape.
type CharMatch struct {
	// Label is one character, or several for a ligature split.
	Label string
	// Score is the raw score normalised by the image area.
	Score int64
	// TemplateScore is the raw score normalised by the template area.
	TemplateScore int64
	// Raw is the unnormalised cell score sum.
	Raw float64
	// Shift is the index into Shifts of the best rendering.
	Shift int
	// Offset is the template position inside the image at the best score.
	Offset Point
	// Width is the number of image columns the match explains.
	Width int
}

func (m CharMatch) String() string {
	return fmt.Sprintf("%q score=%d template=%d shift=%d", m.Label, m.Score, m.TemplateScore, m.Shift)
}

// alignmentOffsets are the template positions tried around the image
// origin, (0,0) first so it wins ties.
var alignmentOffsets = [...]Point{
	{X: 0, Y: 0},
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// cellScores sums the per-cell agreement of tmpl placed at off inside img.
// Template cells that land outside the image cost their coverage times the
// squared overshoot over 100.
func cellScores(img, tmpl Shape, off Point) float64 {
	w, h := img.Width(), img.Height()
	var sum float64
	for ty := 0; ty < tmpl.Height(); ty++ {
		y := ty + off.Y
		dy := 0
		if y < 0 {
			dy = -y
		} else if y >= h {
			dy = y - h + 1
		}
		for tx := 0; tx < tmpl.Width(); tx++ {
			t := float64(tmpl.At(tx, ty))
			x := tx + off.X
			d := dy
			if x < 0 {
				d += -x
			} else if x >= w {
				d += x - w + 1
			}
			if d == 0 {
				sum += 1 - math.Abs(t-float64(img.At(x, y)))
			} else {
				sum -= t * float64(d*d) / 100
			}
		}
	}
	return sum
}

// trimForTemplate drops leading rows of img that are empty over the first
// width columns, aligning a top-padded blob with a shorter template. The
// image is unchanged when the template is at least as wide.
func trimForTemplate(img Shape, width int) Shape {
	if width >= img.Width() {
		return img
	}
	rows := 0
	for ; rows < img.Height()-1; rows++ {
		empty := true
		for x := 0; x < width; x++ {
			if img.At(x, rows) > InkThreshold {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
	}
	return img.DropTopRows(rows)
}

// normalise scales raw by ScoreScale/area and truncates towards zero.
func normalise(raw float64, area int) int64 {
	if area <= 0 {
		return 0
	}
	return int64(ScoreScale * raw / float64(area))
}

// matchTemplate scores one template shift against img over every
// alignment offset.
func matchTemplate(img, tmpl Shape) (raw float64, off Point, compared Shape) {
	compared = trimForTemplate(img, tmpl.Width())
	raw = cellScores(compared, tmpl, alignmentOffsets[0])
	for _, o := range alignmentOffsets[1:] {
		if s := cellScores(compared, tmpl, o); s > raw {
			raw, off = s, o
		}
	}
	return raw, off, compared
}

// MatchChar returns the best of the character's shifted templates for img.
// Shifts are compared by Score; the lower shift index wins ties.
func MatchChar(img Shape, label rune, templates [NumShifts]Shape) CharMatch {
	var best CharMatch
	for i, tmpl := range templates {
		raw, off, compared := matchTemplate(img, tmpl)
		m := CharMatch{
			Label:         string(label),
			Score:         normalise(raw, compared.Area()),
			TemplateScore: normalise(raw, tmpl.Area()),
			Raw:           raw,
			Shift:         i,
			Offset:        off,
			Width:         min(tmpl.Width(), img.Width()),
		}
		if i == 0 || m.Score > best.Score {
			best = m
		}
	}
	return best
}

// compareMatches orders by descending Score, then by label.
func compareMatches(a, b CharMatch) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Label, b.Label)
}

// SortMatches ranks matches best first.
func SortMatches(matches []CharMatch) {
	slices.SortFunc(matches, compareMatches)
}

// MatchAll scores img against every character of the cache and returns the
// ranked list.
func MatchAll(img Shape, cache *GlyphCache) []CharMatch {
	matches := make([]CharMatch, 0, len(cache.alphabet))
	for _, ch := range cache.alphabet {
		matches = append(matches, MatchChar(img, ch, cache.Templates(ch)))
	}
	SortMatches(matches)
	return matches
}
