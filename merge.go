package subocr

import "slices"

// SameLineThreshold is the largest vertical start difference, exclusive,
// at which two shapes are read as being on the same line.
const SameLineThreshold = 15

// compareReadingOrder orders same-line shapes left to right and everything
// else top to bottom.
func compareReadingOrder(a, b Bounds) int {
	if abs(a.Start.Y-b.Start.Y) < SameLineThreshold {
		return a.Start.X - b.Start.X
	}
	return a.Start.Y - b.Start.Y
}

// SortReadingOrder sorts shapes into reading order in place.
func SortReadingOrder(shapes []Shape) {
	slices.SortStableFunc(shapes, func(a, b Shape) int {
		return compareReadingOrder(a.Bounds, b.Bounds)
	})
}

// shouldMerge reports whether two neighbouring shapes are fragments of one
// glyph: they overlap horizontally by more than half the narrower width and
// start at nearly the same height.
func shouldMerge(a, b Shape) bool {
	narrow := min(a.Width(), b.Width())
	overlap := a.Bounds.HorizontalOverlap(b.Bounds)
	return 2*overlap > narrow && abs(a.Bounds.Start.Y-b.Bounds.Start.Y) < SameLineThreshold
}

// MergeFragments sorts shapes into reading order and then walks the list
// right to left, folding each shape into the nearest earlier shape that
// looks like another part of the same glyph. The nearest candidate is
// usually the left neighbour; punctuation from the line below can sort
// between a dot and its stem, so the walk keeps looking further back. It
// returns the merged list and the number of merges done. The input slice
// is reordered.
func MergeFragments(shapes []Shape) ([]Shape, int) {
	SortReadingOrder(shapes)
	out := slices.Clone(shapes)
	merged := 0
	for i := len(out) - 1; i > 0; i-- {
		j := mergeTarget(out, i)
		if j < 0 {
			continue
		}
		out[j] = Merge(out[j], out[i])
		out = slices.Delete(out, i, i+1)
		merged++
	}
	if merged > 0 {
		SortReadingOrder(out)
	}
	return out, merged
}

// mergeTarget returns the index of the closest shape before i that
// shapes[i] should merge into, or -1.
func mergeTarget(shapes []Shape, i int) int {
	for j := i - 1; j >= 0; j-- {
		if shouldMerge(shapes[j], shapes[i]) {
			return j
		}
	}
	return -1
}
