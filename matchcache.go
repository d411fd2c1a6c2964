package subocr

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultMatchCacheSize is the number of ranked shapes a MatchCache holds
// before it starts over.
const DefaultMatchCacheSize = 4096

// MatchCache remembers ranked matches for shapes already seen. Identical
// coverage ranks the same wherever the shape sits in the frame, as long as
// the glyph cache, accept threshold and remaining split depth agree.
//
// The key is an xxhash digest of the shape's dimensions, coverage and
// those settings. Several shapes may share a digest, so every entry under
// a key is compared cell by cell before it is returned. When the cache is
// full it is cleared and refilled.
type MatchCache struct {
	mu      sync.Mutex
	entries map[uint64][]memoEntry
	size    int
	limit   int
	hits    int
	misses  int
}

// memoConfig is everything besides the shape that decides a ranking.
type memoConfig struct {
	glyphs    *GlyphCache
	threshold int64
	// budget is the number of splits still allowed below this shape.
	budget int
}

type memoEntry struct {
	shape   Shape
	config  memoConfig
	matches []CharMatch
}

// NewMatchCache returns an empty cache holding up to DefaultMatchCacheSize
// shapes. It is safe for concurrent use.
func NewMatchCache() *MatchCache {
	return NewMatchCacheSize(DefaultMatchCacheSize)
}

// NewMatchCacheSize returns an empty cache holding up to limit shapes.
// A limit below 1 selects DefaultMatchCacheSize.
func NewMatchCacheSize(limit int) *MatchCache {
	if limit < 1 {
		limit = DefaultMatchCacheSize
	}
	return &MatchCache{
		entries: make(map[uint64][]memoEntry),
		limit:   limit,
	}
}

// get returns a copy of the matches stored for s under cfg.
func (c *MatchCache) get(s Shape, cfg memoConfig) ([]CharMatch, bool) {
	k := shapeKey(s, cfg)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries[k] {
		if e.config == cfg && e.shape.SameCoverage(s) {
			c.hits++
			return slices.Clone(e.matches), true
		}
	}
	c.misses++
	return nil, false
}

// put stores matches for s under cfg.
func (c *MatchCache) put(s Shape, cfg memoConfig, matches []CharMatch) {
	k := shapeKey(s, cfg)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries[k] {
		if e.config == cfg && e.shape.SameCoverage(s) {
			return
		}
	}
	if c.size >= c.limit {
		Logger().Debug("match cache full, clearing", "entries", c.size)
		c.entries = make(map[uint64][]memoEntry)
		c.size = 0
	}
	c.entries[k] = append(c.entries[k], memoEntry{
		shape:   s,
		config:  cfg,
		matches: slices.Clone(matches),
	})
	c.size++
}

// Reset drops every stored ranking and zeroes the statistics.
func (c *MatchCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64][]memoEntry)
	c.size = 0
	c.hits = 0
	c.misses = 0
}

// Stats returns the number of lookups that hit and missed.
func (c *MatchCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of stored shapes.
func (c *MatchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func shapeKey(s Shape, cfg memoConfig) uint64 {
	d := xxhash.New()
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(s.Width()))
	binary.LittleEndian.PutUint32(buf[4:], uint32(s.Height()))
	binary.LittleEndian.PutUint32(buf[8:], uint32(cfg.budget))
	binary.LittleEndian.PutUint64(buf[12:], uint64(cfg.threshold))
	d.Write(buf[:])
	for _, c := range s.cov {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(c))
		d.Write(buf[:4])
	}
	return d.Sum64()
}
