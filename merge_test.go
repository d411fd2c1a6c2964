package subocr

import (
	"testing"
)

func TestSortReadingOrder(t *testing.T) {
	shapes := []Shape{
		patternShape(Point{X: 50, Y: 40}, "#"), // second line
		patternShape(Point{X: 30, Y: 12}, "#"), // first line, right
		patternShape(Point{X: 10, Y: 10}, "#"), // first line, left
	}
	SortReadingOrder(shapes)
	want := []Point{{X: 10, Y: 10}, {X: 30, Y: 12}, {X: 50, Y: 40}}
	for i, s := range shapes {
		if s.Bounds.Start != want[i] {
			t.Errorf("Position %d: expected %v, got %v", i, want[i], s.Bounds.Start)
		}
	}
}

func TestMergeFragmentsDotAndStem(t *testing.T) {
	dot := patternShape(Point{X: 20, Y: 10}, "##", "##")
	stem := patternShape(Point{X: 20, Y: 14}, "##", "##", "##", "##", "##", "##")
	other := patternShape(Point{X: 26, Y: 14}, "###", "###")

	out, merged := MergeFragments([]Shape{other, stem, dot})
	if merged != 1 {
		t.Errorf("Expected 1 merge, got %d", merged)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 shapes, got %d", len(out))
	}
	want := Bounds{Start: Point{X: 20, Y: 10}, End: Point{X: 21, Y: 19}}
	if out[0].Bounds != want {
		t.Errorf("Expected merged bounds %v, got %v", want, out[0].Bounds)
	}
	if out[0].At(0, 2) != 0 {
		t.Error("Gap between dot and stem should stay background")
	}
	if out[1].Bounds.Start.X != 26 {
		t.Errorf("Neighbour glyph should be untouched, got %v", out[1].Bounds)
	}
}

func TestMergeFragmentsAcrossPunctuation(t *testing.T) {
	// "s, i": the comma hangs low enough to sort between the i's dot and
	// its stem.
	s := patternShape(Point{X: 50, Y: 47}, "####", "####", "####", "####", "####", "####", "####", "####", "####", "####")
	comma := patternShape(Point{X: 63, Y: 57}, "##", "##", ".#", "#.")
	dot := patternShape(Point{X: 96, Y: 42}, "###", "###", "###")
	stem := patternShape(Point{X: 96, Y: 47},
		"###", "###", "###", "###", "###", "###", "###", "###", "###", "###")

	out, merged := MergeFragments([]Shape{stem, comma, s, dot})
	if merged != 1 {
		t.Fatalf("Expected 1 merge, got %d", merged)
	}
	if len(out) != 3 {
		t.Fatalf("Expected 3 shapes, got %d", len(out))
	}
	want := Bounds{Start: Point{X: 96, Y: 42}, End: Point{X: 98, Y: 56}}
	found := false
	for _, o := range out {
		if o.Bounds == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a merged i with bounds %v, got %v %v %v", want, out[0].Bounds, out[1].Bounds, out[2].Bounds)
	}
}

func TestMergeFragmentsKeepsSeparateLines(t *testing.T) {
	top := patternShape(Point{X: 20, Y: 10}, "###", "###")
	below := patternShape(Point{X: 20, Y: 40}, "###", "###")
	out, merged := MergeFragments([]Shape{top, below})
	if merged != 0 || len(out) != 2 {
		t.Errorf("Vertically distant shapes must not merge, got %d merges", merged)
	}
}

func TestShouldMergeOverlapRule(t *testing.T) {
	a := patternShape(Point{X: 0, Y: 0}, "####")
	tests := []struct {
		name  string
		b     Shape
		merge bool
	}{
		{"half of narrower is not enough", patternShape(Point{X: 3, Y: 2}, "##"), false},
		{"more than half", patternShape(Point{X: 2, Y: 2}, "###"), true},
		{"touching only", patternShape(Point{X: 4, Y: 0}, "##"), false},
		{"too far down", patternShape(Point{X: 0, Y: 15}, "####"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldMerge(a, tt.b); got != tt.merge {
				t.Errorf("shouldMerge = %v, want %v", got, tt.merge)
			}
		})
	}
}
