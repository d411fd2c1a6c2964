package subocr

import (
	"testing"
)

func charAt(label string, x0, y0, x1, y1 int, score int64) Character {
	return Character{
		Bounds:    Bounds{Start: Point{X: x0, Y: y0}, End: Point{X: x1, Y: y1}},
		Matches:   []CharMatch{{Label: label, Score: score}},
		Threshold: DefaultAcceptThreshold,
	}
}

func TestAssembleLines(t *testing.T) {
	chars := []Character{
		charAt("o", 40, 102, 48, 110, ScoreScale),
		charAt("W", 10, 140, 24, 156, ScoreScale),
		charAt("H", 10, 100, 20, 116, ScoreScale),
		charAt("e", 27, 145, 34, 156, ScoreScale),
		charAt("i", 22, 98, 24, 116, ScoreScale),
	}
	lines := AssembleLines(chars)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if got := lines[0].Text(); got != "Hi o" {
		t.Errorf("Expected %q, got %q", "Hi o", got)
	}
	if got := lines[1].Text(); got != "We" {
		t.Errorf("Expected %q, got %q", "We", got)
	}
	if got := JoinLines(lines); got != "Hi o\nWe" {
		t.Errorf("Expected joined text, got %q", got)
	}
	want := Bounds{Start: Point{X: 10, Y: 98}, End: Point{X: 48, Y: 116}}
	if b := lines[0].Bounds(); b != want {
		t.Errorf("Expected line bounds %v, got %v", want, b)
	}
}

func TestLineSpacing(t *testing.T) {
	tests := []struct {
		gapStart int
		want     string
	}{
		{16, "ab"},  // touching
		{21, "ab"},  // 5 empty columns
		{22, "a b"}, // 6 empty columns
	}
	for _, tt := range tests {
		line := Line{Characters: []Character{
			charAt("a", 10, 0, 15, 10, ScoreScale),
			charAt("b", tt.gapStart, 0, tt.gapStart+5, 10, ScoreScale),
		}}
		if got := line.Text(); got != tt.want {
			t.Errorf("Second box at x=%d: expected %q, got %q", tt.gapStart, tt.want, got)
		}
	}
}

func TestCharacterConfidence(t *testing.T) {
	if charAt("a", 0, 0, 1, 1, DefaultAcceptThreshold).LowConfidence() {
		t.Error("Score at the threshold should be confident")
	}
	if !charAt("a", 0, 0, 1, 1, DefaultAcceptThreshold-1).LowConfidence() {
		t.Error("Score below the threshold should be low confidence")
	}
	empty := Character{}
	if !empty.LowConfidence() || empty.Label() != "?" {
		t.Errorf("Character without matches should be low confidence '?', got %q", empty.Label())
	}

	lenient := charAt("a", 0, 0, 1, 1, 1)
	lenient.Threshold = 0
	if lenient.LowConfidence() {
		t.Error("A zero threshold should accept any non-negative score")
	}
}
