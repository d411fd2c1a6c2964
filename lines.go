package subocr

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// LineThreshold is the largest vertical start distance between a
	// character and the first member of a line it joins.
	LineThreshold = 20

	// SpaceGap is the number of empty columns between two characters above
	// which a space is emitted.
	SpaceGap = 5
)

// Character is one recognised shape with its ranked readings.
type Character struct {
	Bounds  Bounds
	Matches []CharMatch
	Shape   Shape
	// Threshold is the accept score the character is judged against.
	Threshold int64
}

// Best returns the top-ranked match.
func (c Character) Best() (CharMatch, bool) {
	if len(c.Matches) == 0 {
		return CharMatch{}, false
	}
	return c.Matches[0], true
}

// Label returns the top-ranked label, or "?" when nothing matched.
func (c Character) Label() string {
	if m, ok := c.Best(); ok {
		return m.Label
	}
	return "?"
}

// LowConfidence reports whether the best reading scored under Threshold.
// Such characters are still emitted.
func (c Character) LowConfidence() bool {
	m, ok := c.Best()
	if !ok {
		return true
	}
	return m.Score < c.Threshold
}

// Line is a row of characters ordered left to right.
type Line struct {
	Characters []Character
}

// Bounds returns the union of the characters' bounds.
func (l Line) Bounds() Bounds {
	b := EmptyBounds
	for _, c := range l.Characters {
		b = b.Union(c.Bounds)
	}
	return b
}

// Text renders the line, inserting one space wherever more than SpaceGap
// empty columns separate two characters.
func (l Line) Text() string {
	var sb strings.Builder
	for i, c := range l.Characters {
		if i > 0 {
			prev := l.Characters[i-1].Bounds
			if c.Bounds.Start.X-prev.End.X-1 > SpaceGap {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(c.Label())
	}
	return sb.String()
}

// AssembleLines groups characters into lines. A character joins the first
// line whose first member starts within LineThreshold rows of it, otherwise
// it opens a new line. Lines are ordered top to bottom and their characters
// left to right.
func AssembleLines(chars []Character) []Line {
	type band struct {
		top   int
		chars []Character
	}
	var bands []*band
	for _, c := range chars {
		var target *band
		for _, b := range bands {
			if abs(c.Bounds.Start.Y-b.top) <= LineThreshold {
				target = b
				break
			}
		}
		if target == nil {
			target = &band{top: c.Bounds.Start.Y}
			bands = append(bands, target)
		}
		target.chars = append(target.chars, c)
	}

	slices.SortStableFunc(bands, func(a, b *band) int { return cmp.Compare(a.top, b.top) })
	lines := make([]Line, len(bands))
	for i, b := range bands {
		slices.SortStableFunc(b.chars, func(x, y Character) int {
			return cmp.Compare(x.Bounds.Start.X, y.Bounds.Start.X)
		})
		lines[i] = Line{Characters: b.chars}
	}
	return lines
}

// JoinLines renders lines separated by newlines.
func JoinLines(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text()
	}
	return strings.Join(texts, "\n")
}
