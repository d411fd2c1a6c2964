package subocr

// DefaultMaxLigatureDepth bounds how many glyphs a single blob may be split
// into beyond the first.
const DefaultMaxLigatureDepth = 3

// matcher ranks shapes against a glyph cache, splitting blobs that look
// like several touching glyphs.
type matcher struct {
	cache     *GlyphCache
	threshold int64
	maxDepth  int
	memo      *MatchCache
}

// rank returns every candidate for img, best first. When no single
// character reaches the threshold, characters whose template fits cleanly
// are tried as prefixes and the remaining columns are matched recursively.
func (m *matcher) rank(img Shape, depth int) []CharMatch {
	cfg := memoConfig{glyphs: m.cache, threshold: m.threshold, budget: m.maxDepth - depth}
	if m.memo != nil {
		if cached, ok := m.memo.get(img, cfg); ok {
			return cached
		}
	}

	matches := MatchAll(img, m.cache)
	if len(matches) > 0 && matches[0].Score < m.threshold && depth < m.maxDepth {
		if composites := m.split(img, matches, depth); len(composites) > 0 {
			matches = append(matches, composites...)
			SortMatches(matches)
		}
	}

	if m.memo != nil {
		m.memo.put(img, cfg, matches)
	}
	return matches
}

// split builds composite matches from every clean prefix of img.
func (m *matcher) split(img Shape, singles []CharMatch, depth int) []CharMatch {
	var composites []CharMatch
	for _, prefix := range singles {
		if prefix.TemplateScore < m.threshold || prefix.Width >= img.Width() {
			continue
		}
		rest, ok := img.Columns(prefix.Width, img.Width()).Tighten()
		if !ok {
			continue
		}
		sub := m.rank(rest, depth+1)
		if len(sub) == 0 || sub[0].Score <= 0 {
			continue
		}
		composites = append(composites, combine(prefix, sub[0], img.Width()))
	}
	if len(composites) > 0 {
		Logger().Debug("ligature split",
			"bounds", img.Bounds, "depth", depth,
			"composites", len(composites), "best", bestLabel(composites))
	}
	return composites
}

// combine joins a prefix and the best reading of the columns after it. The
// suffix only counts for the share of the width the prefix left over.
func combine(prefix, suffix CharMatch, width int) CharMatch {
	w := float64(prefix.Width) / float64(width)
	return CharMatch{
		Label:         prefix.Label + suffix.Label,
		Score:         prefix.Score + int64((1-w)*float64(suffix.Score)),
		TemplateScore: int64(w*float64(prefix.TemplateScore) + (1-w)*float64(suffix.TemplateScore)),
		Raw:           prefix.Raw + suffix.Raw,
		Shift:         prefix.Shift,
		Offset:        prefix.Offset,
		Width:         width,
	}
}

func bestLabel(matches []CharMatch) string {
	best := matches[0]
	for _, c := range matches[1:] {
		if compareMatches(c, best) < 0 {
			best = c
		}
	}
	return best.Label
}
