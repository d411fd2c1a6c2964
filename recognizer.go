package subocr

import (
	"context"
	"fmt"
	"runtime"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/subocr/subocr/imageutil"
)

// Recognizer turns a frame and its change mask into text. It holds no
// per-frame state and may be used from several goroutines.
type Recognizer struct {
	// AcceptThreshold is the score a single character needs before
	// ligature splits are skipped. Lower-scoring output is low confidence.
	AcceptThreshold int64
	// MaxLigatureDepth bounds ligature recursion.
	MaxLigatureDepth int
	// Workers is the number of shapes matched concurrently.
	Workers int
	// DebugOutput requests the selected-pixel raster in results.
	DebugOutput bool

	cache *GlyphCache
	memo  *MatchCache
}

// RecognizerOption is a functional option for configuring a Recognizer.
type RecognizerOption func(*Recognizer)

// NewRecognizer creates a Recognizer over a glyph cache.
// Defaults: AcceptThreshold=DefaultAcceptThreshold,
// MaxLigatureDepth=DefaultMaxLigatureDepth, Workers=GOMAXPROCS, a fresh
// MatchCache of DefaultMatchCacheSize shapes, no debug output.
func NewRecognizer(cache *GlyphCache, opts ...RecognizerOption) *Recognizer {
	r := &Recognizer{
		AcceptThreshold:  DefaultAcceptThreshold,
		MaxLigatureDepth: DefaultMaxLigatureDepth,
		Workers:          runtime.GOMAXPROCS(0),
		cache:            cache,
		memo:             NewMatchCache(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithAcceptThreshold sets the single-character accept score.
func WithAcceptThreshold(score int64) RecognizerOption {
	return func(r *Recognizer) {
		r.AcceptThreshold = score
	}
}

// WithMaxLigatureDepth sets how many extra glyphs one blob may split into.
func WithMaxLigatureDepth(depth int) RecognizerOption {
	return func(r *Recognizer) {
		r.MaxLigatureDepth = depth
	}
}

// WithWorkers sets the number of shapes matched concurrently.
func WithWorkers(n int) RecognizerOption {
	return func(r *Recognizer) {
		r.Workers = n
	}
}

// WithMatchCache shares a match cache between recognizers or frames.
// Rankings are only reused by recognizers with the same glyph cache and
// threshold. Nil disables caching.
func WithMatchCache(c *MatchCache) RecognizerOption {
	return func(r *Recognizer) {
		r.memo = c
	}
}

// WithDebugOutput makes Recognize return the selected-pixel raster.
func WithDebugOutput(enabled bool) RecognizerOption {
	return func(r *Recognizer) {
		r.DebugOutput = enabled
	}
}

// Stats describes one recognition run.
type Stats struct {
	Blobs         int
	Shapes        int
	Merged        int
	Characters    int
	Composites    int
	LowConfidence int
	Elapsed       time.Duration
}

// Result is the outcome of recognising one frame.
type Result struct {
	Lines      []Line
	Characters []Character // reading order
	// Debug is set when debug output was requested: selected pixels in
	// their frame colour, everything else black.
	Debug *imageutil.RGBBuffer
	Stats Stats
}

// Text returns the recognised lines joined by newlines.
func (res *Result) Text() string {
	return JoinLines(res.Lines)
}

// Recognize runs the whole pipeline on one frame.
func (r *Recognizer) Recognize(frame, mask imageutil.Raster) (*Result, error) {
	return r.RecognizeContext(context.Background(), frame, mask)
}

// RecognizeContext is Recognize with cancellation between shapes.
func (r *Recognizer) RecognizeContext(ctx context.Context, frame, mask imageutil.Raster) (*Result, error) {
	start := time.Now()

	blobs, debug, err := segment(frame, mask, r.DebugOutput)
	if err != nil {
		return nil, err
	}

	shapes := make([]Shape, 0, len(blobs))
	for _, b := range blobs {
		if s, ok := ShapeFromBlob(b); ok {
			shapes = append(shapes, s)
		}
	}
	Logger().Debug("built shapes", "blobs", len(blobs), "shapes", len(shapes))
	found := len(shapes)
	shapes, merged := MergeFragments(shapes)

	chars := make([]Character, len(shapes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for i, s := range shapes {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chars[i] = Character{
				Bounds:    s.Bounds,
				Matches:   r.Rank(s),
				Shape:     s,
				Threshold: r.AcceptThreshold,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("matching shapes: %w", err)
	}

	res := &Result{
		Lines:      AssembleLines(chars),
		Characters: chars,
		Debug:      debug,
		Stats: Stats{
			Blobs:      len(blobs),
			Shapes:     found,
			Merged:     merged,
			Characters: len(chars),
		},
	}
	for _, c := range chars {
		if best, ok := c.Best(); ok && utf8.RuneCountInString(best.Label) > 1 {
			res.Stats.Composites++
		}
		if c.LowConfidence() {
			res.Stats.LowConfidence++
		}
	}
	res.Stats.Elapsed = time.Since(start)

	if len(chars) == 0 {
		Logger().Warn("no characters recognised", "blobs", len(blobs))
	}
	Logger().Info("recognised frame",
		"lines", len(res.Lines), "characters", len(chars),
		"composites", res.Stats.Composites, "low_confidence", res.Stats.LowConfidence,
		"elapsed", res.Stats.Elapsed)
	return res, nil
}

// Rank returns every reading of s, best first, including ligature splits.
func (r *Recognizer) Rank(s Shape) []CharMatch {
	m := matcher{
		cache:     r.cache,
		threshold: r.AcceptThreshold,
		maxDepth:  r.MaxLigatureDepth,
		memo:      r.memo,
	}
	return m.rank(s, 0)
}

// CacheStats returns match cache hit/miss statistics.
func (r *Recognizer) CacheStats() (hits, misses int, hitRate float64) {
	if r.memo == nil {
		return 0, 0, 0
	}
	hits, misses = r.memo.Stats()
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return hits, misses, hitRate
}
