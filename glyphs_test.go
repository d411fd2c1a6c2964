package subocr

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestNewGlyphCache(t *testing.T) {
	gc := testCache(t)
	if got := string(gc.Alphabet()); got != "rno" {
		t.Errorf("Expected alphabet rno, got %q", got)
	}
	if gc.Name() != "pattern" || gc.Size() != RenderSize {
		t.Errorf("Unexpected metadata %q %f", gc.Name(), gc.Size())
	}
	for i, s := range gc.Templates('n') {
		if s.Width() != 5 || s.Height() != 6 {
			t.Errorf("Shift %d: expected 5x6 template, got %dx%d", i, s.Width(), s.Height())
		}
	}
	if !gc.Has('o') || gc.Has('x') {
		t.Error("Has reports wrong membership")
	}
}

func TestGlyphCacheDuplicates(t *testing.T) {
	gc, err := NewGlyphCache(testRasterizer(), WithAlphabet([]rune("rrn")))
	if err != nil {
		t.Fatalf("NewGlyphCache failed: %v", err)
	}
	if got := string(gc.Alphabet()); got != "rn" {
		t.Errorf("Expected duplicates dropped, got %q", got)
	}
}

func TestGlyphCacheErrors(t *testing.T) {
	if _, err := NewGlyphCache(testRasterizer(), WithAlphabet(nil)); !errors.Is(err, ErrEmptyAlphabet) {
		t.Errorf("Expected ErrEmptyAlphabet, got %v", err)
	}
	if _, err := NewGlyphCache(testRasterizer(), WithAlphabet([]rune("rx"))); !errors.Is(err, ErrMissingGlyph) {
		t.Errorf("Expected ErrMissingGlyph, got %v", err)
	}
	blank := patternRasterizer{'b': {"...", "..."}}
	if _, err := NewGlyphCache(blank, WithAlphabet([]rune("b"))); !errors.Is(err, ErrMissingGlyph) {
		t.Errorf("Expected ErrMissingGlyph for an inkless glyph, got %v", err)
	}
}

func TestTemplatesPanicsOutsideAlphabet(t *testing.T) {
	gc := testCache(t)
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a character outside the alphabet")
		}
	}()
	gc.Templates('z')
}

func TestGlyphCacheRoundTrip(t *testing.T) {
	gc := testCache(t)

	var buf bytes.Buffer
	if _, err := gc.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	loaded, err := ReadGlyphCache(&buf)
	if err != nil {
		t.Fatalf("ReadGlyphCache failed: %v", err)
	}
	assertSameCache(t, gc, loaded)

	path := filepath.Join(t.TempDir(), "pattern.glyphs")
	if err := SaveGlyphCache(gc, path); err != nil {
		t.Fatalf("SaveGlyphCache failed: %v", err)
	}
	fromFile, err := LoadGlyphCache(path)
	if err != nil {
		t.Fatalf("LoadGlyphCache failed: %v", err)
	}
	assertSameCache(t, gc, fromFile)
}

func TestReadGlyphCacheRejectsGarbage(t *testing.T) {
	if _, err := ReadGlyphCache(bytes.NewReader([]byte("not a cache"))); err == nil {
		t.Error("Expected an error for a non-gzip stream")
	}
}

func assertSameCache(t *testing.T, want, got *GlyphCache) {
	t.Helper()
	if got.Name() != want.Name() || got.Size() != want.Size() {
		t.Errorf("Metadata differs: %q/%f vs %q/%f", got.Name(), got.Size(), want.Name(), want.Size())
	}
	if string(got.Alphabet()) != string(want.Alphabet()) {
		t.Fatalf("Alphabet differs: %q vs %q", string(got.Alphabet()), string(want.Alphabet()))
	}
	for _, ch := range want.Alphabet() {
		w, g := want.Templates(ch), got.Templates(ch)
		for i := range w {
			if !w[i].Equal(g[i]) {
				t.Errorf("Template %q/%d differs after round trip", ch, i)
			}
		}
	}
}
