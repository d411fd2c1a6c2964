package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/subocr/subocr"
	"github.com/subocr/subocr/imageutil"
)

type inputs struct {
	frame     string
	mask      string
	prev      string
	saveMask  string
	debug     string
	dumpDir   string
	dumpScale int
}

func main() {
	framePath := flag.String("frame", "",
		"Path to the full video frame (PPM, PNG, JPEG, BMP, TIFF) (required)")
	maskPath := flag.String("mask", "",
		"Path to the change mask of the frame")
	prevPath := flag.String("prev", "",
		"Path to the previous frame; the change mask is computed from it when -mask is not given")
	saveMask := flag.String("save-mask", "",
		"Write the computed change mask to this path")
	configPath := flag.String("config", "",
		"Path to a YAML config file")
	envFile := flag.String("env", ".env",
		"Path to a .env file with SUBOCR_* variables")
	fontPath := flag.String("font", "",
		"TrueType/OpenType font to match against (default: built-in Go Regular)")
	rasterizer := flag.String("rasterizer", "freetype",
		"Glyph rasterizer: freetype or opentype")
	glyphs := flag.String("glyphs", "",
		"Precomputed glyph cache from compute_glyphs")
	threshold := flag.Int64("threshold", subocr.DefaultAcceptThreshold,
		"Score a single character needs before ligature splits are skipped")
	depth := flag.Int("depth", subocr.DefaultMaxLigatureDepth,
		"Maximum ligature split depth")
	workers := flag.Int("workers", 0,
		"Number of shapes matched concurrently, 0 for GOMAXPROCS")
	format := flag.String("format", "text",
		"Output format: text or yaml")
	logLevel := flag.String("log-level", "warn",
		"Log level: debug, info, warn or error")
	debugPath := flag.String("debug", "",
		"Write the selected-pixel debug raster to this path")
	dumpDir := flag.String("dump", "",
		"Write one shape/template comparison PNG per character into this directory")
	dumpScale := flag.Int("dump-scale", 8,
		"Enlargement factor for the -dump images")
	flag.Parse()

	if *framePath == "" || (*maskPath == "" && *prevPath == "") {
		fmt.Println("Please provide -frame and either -mask or -prev")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(*envFile); err != nil && *envFile != ".env" {
		log.Printf("Warning: %s not loaded: %v", *envFile, err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applyEnv(&cfg); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	// Explicit flags win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "font":
			cfg.Font = *fontPath
		case "rasterizer":
			cfg.Rasterizer = *rasterizer
		case "glyphs":
			cfg.Glyphs = *glyphs
		case "threshold":
			cfg.AcceptThreshold = *threshold
		case "depth":
			cfg.MaxLigatureDepth = *depth
		case "workers":
			cfg.Workers = *workers
		case "format":
			cfg.Format = *format
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lvl, _ := parseLevel(cfg.LogLevel)
	subocr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	in := inputs{
		frame:     *framePath,
		mask:      *maskPath,
		prev:      *prevPath,
		saveMask:  *saveMask,
		debug:     *debugPath,
		dumpDir:   *dumpDir,
		dumpScale: *dumpScale,
	}
	if err := run(cfg, in, os.Stdout); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(cfg Config, in inputs, out io.Writer) error {
	frame, err := imageutil.LoadRaster(in.frame)
	if err != nil {
		return fmt.Errorf("failed to load frame: %w", err)
	}
	mask, err := loadMask(frame, in)
	if err != nil {
		return err
	}

	cache, err := buildCache(cfg)
	if err != nil {
		return err
	}

	opts := cfg.recognizerOptions()
	if in.debug != "" {
		opts = append(opts, subocr.WithDebugOutput(true))
	}
	rec := subocr.NewRecognizer(cache, opts...)
	res, err := rec.Recognize(frame, mask)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	if in.debug != "" {
		if err := imageutil.SaveRaster(res.Debug, in.debug); err != nil {
			return fmt.Errorf("failed to save debug raster: %w", err)
		}
	}
	if in.dumpDir != "" {
		if err := rec.DumpCharacters(res, in.dumpDir, in.dumpScale); err != nil {
			return err
		}
	}
	return writeResult(out, res, cfg.Format)
}

// loadMask reads the change mask, or computes it against the previous
// frame.
func loadMask(frame imageutil.Raster, in inputs) (imageutil.Raster, error) {
	if in.mask != "" {
		mask, err := imageutil.LoadRaster(in.mask)
		if err != nil {
			return nil, fmt.Errorf("failed to load mask: %w", err)
		}
		return mask, nil
	}

	prev, err := imageutil.LoadRaster(in.prev)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous frame: %w", err)
	}
	mask, stats, err := imageutil.ChangeMask(prev, frame)
	if err != nil {
		return nil, err
	}
	subocr.Logger().Info("computed change mask",
		"changed_points", stats.ChangedPoints, "change_factor", stats.ChangeFactor)
	if !stats.IsTextChange() {
		log.Printf("Warning: change between frames does not look like a subtitle change (%d points, factor %.4f)",
			stats.ChangedPoints, stats.ChangeFactor)
	}
	if in.saveMask != "" {
		if err := imageutil.SaveRaster(mask, in.saveMask); err != nil {
			return nil, fmt.Errorf("failed to save mask: %w", err)
		}
	}
	return mask, nil
}

func buildCache(cfg Config) (*subocr.GlyphCache, error) {
	if cfg.Glyphs != "" {
		cache, err := subocr.LoadGlyphCache(cfg.Glyphs)
		if err != nil {
			return nil, fmt.Errorf("failed to load glyph cache: %w", err)
		}
		return cache, nil
	}

	var (
		r    subocr.Rasterizer
		name = "goregular"
		err  error
	)
	switch {
	case cfg.Font == "":
		r = subocr.DefaultRasterizer()
	case cfg.Rasterizer == "opentype":
		r, err = subocr.LoadOpenTypeRasterizer(cfg.Font)
		name = cfg.Font
	default:
		r, err = subocr.LoadFreetypeRasterizer(cfg.Font)
		name = cfg.Font
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	cache, err := subocr.NewGlyphCache(r, subocr.WithFontName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to build glyph cache: %w", err)
	}
	return cache, nil
}

type yamlCharacter struct {
	Label         string `yaml:"label"`
	Score         int64  `yaml:"score"`
	TemplateScore int64  `yaml:"template_score"`
	Shift         int    `yaml:"shift"`
	Bounds        string `yaml:"bounds"`
	LowConfidence bool   `yaml:"low_confidence,omitempty"`
}

type yamlLine struct {
	Text       string          `yaml:"text"`
	Characters []yamlCharacter `yaml:"characters"`
}

type yamlResult struct {
	Text  string     `yaml:"text"`
	Lines []yamlLine `yaml:"lines"`
	Stats struct {
		Blobs         int    `yaml:"blobs"`
		Shapes        int    `yaml:"shapes"`
		Merged        int    `yaml:"merged"`
		Composites    int    `yaml:"composites"`
		LowConfidence int    `yaml:"low_confidence"`
		Elapsed       string `yaml:"elapsed"`
	} `yaml:"stats"`
}

func writeResult(w io.Writer, res *subocr.Result, format string) error {
	if format != "yaml" {
		_, err := fmt.Fprintln(w, res.Text())
		return err
	}

	var doc yamlResult
	doc.Text = res.Text()
	for _, l := range res.Lines {
		yl := yamlLine{Text: l.Text()}
		for _, c := range l.Characters {
			best, _ := c.Best()
			yl.Characters = append(yl.Characters, yamlCharacter{
				Label:         c.Label(),
				Score:         best.Score,
				TemplateScore: best.TemplateScore,
				Shift:         best.Shift,
				Bounds:        c.Bounds.String(),
				LowConfidence: c.LowConfidence(),
			})
		}
		doc.Lines = append(doc.Lines, yl)
	}
	doc.Stats.Blobs = res.Stats.Blobs
	doc.Stats.Shapes = res.Stats.Shapes
	doc.Stats.Merged = res.Stats.Merged
	doc.Stats.Composites = res.Stats.Composites
	doc.Stats.LowConfidence = res.Stats.LowConfidence
	doc.Stats.Elapsed = res.Stats.Elapsed.String()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return enc.Close()
}
