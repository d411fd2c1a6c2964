package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/subocr/subocr"
)

// Config holds every tunable of a recognition run. Values come from the
// YAML file, then SUBOCR_* environment variables, then flags.
type Config struct {
	// Font is a TrueType/OpenType file; empty selects the built-in Go
	// Regular face.
	Font string `yaml:"font"`
	// Rasterizer is "freetype" or "opentype".
	Rasterizer string `yaml:"rasterizer"`
	// Glyphs is a cache file from compute_glyphs. It takes precedence over
	// Font.
	Glyphs           string `yaml:"glyphs"`
	AcceptThreshold  int64  `yaml:"accept_threshold"`
	MaxLigatureDepth int    `yaml:"max_ligature_depth"`
	Workers          int    `yaml:"workers"`
	// Format is "text" or "yaml".
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Rasterizer:       "freetype",
		AcceptThreshold:  subocr.DefaultAcceptThreshold,
		MaxLigatureDepth: subocr.DefaultMaxLigatureDepth,
		Format:           "text",
		LogLevel:         "warn",
	}
}

// loadConfig reads a YAML file over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides cfg from SUBOCR_* variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("SUBOCR_FONT"); v != "" {
		cfg.Font = v
	}
	if v := os.Getenv("SUBOCR_RASTERIZER"); v != "" {
		cfg.Rasterizer = v
	}
	if v := os.Getenv("SUBOCR_GLYPHS"); v != "" {
		cfg.Glyphs = v
	}
	if v := os.Getenv("SUBOCR_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SUBOCR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SUBOCR_ACCEPT_THRESHOLD"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SUBOCR_ACCEPT_THRESHOLD: %w", err)
		}
		cfg.AcceptThreshold = n
	}
	if v := os.Getenv("SUBOCR_MAX_LIGATURE_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SUBOCR_MAX_LIGATURE_DEPTH: %w", err)
		}
		cfg.MaxLigatureDepth = n
	}
	if v := os.Getenv("SUBOCR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SUBOCR_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	return nil
}

func (c Config) validate() error {
	switch c.Rasterizer {
	case "freetype", "opentype":
	default:
		return fmt.Errorf("invalid rasterizer %q, options are freetype or opentype", c.Rasterizer)
	}
	switch c.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("invalid format %q, options are text or yaml", c.Format)
	}
	if c.MaxLigatureDepth < 0 {
		return fmt.Errorf("max ligature depth must not be negative, got %d", c.MaxLigatureDepth)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// recognizerOptions maps the config onto engine options.
func (c Config) recognizerOptions() []subocr.RecognizerOption {
	opts := []subocr.RecognizerOption{
		subocr.WithAcceptThreshold(c.AcceptThreshold),
		subocr.WithMaxLigatureDepth(c.MaxLigatureDepth),
	}
	if c.Workers > 0 {
		opts = append(opts, subocr.WithWorkers(c.Workers))
	}
	return opts
}
