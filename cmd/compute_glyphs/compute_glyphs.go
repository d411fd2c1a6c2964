package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/subocr/subocr"
)

// loadRasterizer picks the rasterizer for a font path. An empty path
// selects the built-in Go Regular face.
func loadRasterizer(fontPath, kind string) (subocr.Rasterizer, string, error) {
	if fontPath == "" {
		return subocr.DefaultRasterizer(), "goregular", nil
	}
	name := filepath.Base(fontPath)
	switch kind {
	case "freetype":
		r, err := subocr.LoadFreetypeRasterizer(fontPath)
		return r, name, err
	case "opentype":
		r, err := subocr.LoadOpenTypeRasterizer(fontPath)
		return r, name, err
	}
	return nil, "", fmt.Errorf("invalid rasterizer %q, options are freetype or opentype", kind)
}

// computeGlyphCache renders the templates for one font.
func computeGlyphCache(fontPath, kind string, size float64, alphabet string) (*subocr.GlyphCache, error) {
	r, name, err := loadRasterizer(fontPath, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	opts := []subocr.CacheOption{
		subocr.WithFontName(name),
		subocr.WithRenderSize(size),
	}
	if alphabet != "" {
		opts = append(opts, subocr.WithAlphabet([]rune(alphabet)))
	}
	return subocr.NewGlyphCache(r, opts...)
}

func main() {
	inputFont := flag.String("font", "",
		"Path to the input font file (default: built-in Go Regular)")
	kind := flag.String("rasterizer", "freetype",
		"Glyph rasterizer: freetype or opentype")
	outputFile := flag.String("output", "",
		"Path to save the output glyph cache file (required)")
	size := flag.Float64("size", subocr.RenderSize,
		"Render size in pixels")
	alphabet := flag.String("alphabet", "",
		"Characters to render (default: Latin letters, comma and period)")
	flag.Parse()

	if *outputFile == "" {
		fmt.Println("The -output flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Printf("Computing glyph templates for font: %s", fontLabel(*inputFont))

	cache, err := computeGlyphCache(*inputFont, *kind, *size, *alphabet)
	if err != nil {
		log.Fatalf("Failed to compute glyphs: %v", err)
	}

	log.Printf("Computed %d characters x %d shifts", len(cache.Alphabet()), subocr.NumShifts)

	if err := subocr.SaveGlyphCache(cache, *outputFile); err != nil {
		log.Fatalf("Failed to save glyph cache: %v", err)
	}

	fileInfo, err := os.Stat(*outputFile)
	if err == nil {
		log.Printf("Saved glyph cache to %s (%.2f KB)", *outputFile, float64(fileInfo.Size())/1024)
	}
}

func fontLabel(path string) string {
	if path == "" {
		return "goregular (built-in)"
	}
	return path
}
