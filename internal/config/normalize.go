package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeAnalysis()
	c.normalizeScoring()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if value, ok := os.LookupEnv("DUBSCORE_FFMPEG"); ok && strings.TrimSpace(value) != "" && (c.Tools.FFmpeg == "" || c.Tools.FFmpeg == defaultFFmpeg) {
		c.Tools.FFmpeg = strings.TrimSpace(value)
	}
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if value, ok := os.LookupEnv("DUBSCORE_FFPROBE"); ok && strings.TrimSpace(value) != "" && (c.Tools.FFprobe == "" || c.Tools.FFprobe == defaultFFprobe) {
		c.Tools.FFprobe = strings.TrimSpace(value)
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.Concurrency == 0 {
		c.Analysis.Concurrency = defaultConcurrency
	}
	if c.Analysis.TimeoutSeconds == 0 {
		c.Analysis.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Analysis.FragmentSeconds == 0 {
		c.Analysis.FragmentSeconds = defaultFragmentSeconds
	}
	c.Analysis.FragmentStart = strings.TrimSpace(c.Analysis.FragmentStart)
	if c.Analysis.FragmentStart == "" {
		c.Analysis.FragmentStart = defaultFragmentStart
	}
	c.Analysis.Extensions = NormalizeExtensions(c.Analysis.Extensions)
	if len(c.Analysis.Extensions) == 0 {
		c.Analysis.Extensions = append([]string(nil), DefaultExtensions...)
	}
}

// NormalizeExtensions lower-cases extensions, strips leading dots, and drops
// blanks and duplicates while keeping the first-seen order.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func (c *Config) normalizeScoring() {
	if len(c.Scoring.Weights) == 0 {
		return
	}
	weights := make(map[string]float64, len(c.Scoring.Weights))
	for name, weight := range c.Scoring.Weights {
		weights[strings.ToLower(strings.TrimSpace(name))] = weight
	}
	c.Scoring.Weights = weights
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if value, ok := os.LookupEnv("DUBSCORE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
