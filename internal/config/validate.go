package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var fragmentStartPattern = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$|^\d+(\.\d+)?$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		return errors.New("tools.ffprobe must be set")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if err := ensurePositiveMap(map[string]int{
		"analysis.concurrency":      c.Analysis.Concurrency,
		"analysis.timeout_seconds":  c.Analysis.TimeoutSeconds,
		"analysis.fragment_seconds": c.Analysis.FragmentSeconds,
	}); err != nil {
		return err
	}
	if !fragmentStartPattern.MatchString(c.Analysis.FragmentStart) {
		return fmt.Errorf("analysis.fragment_start must be HH:MM:SS or seconds, got %q", c.Analysis.FragmentStart)
	}
	if c.Analysis.MinFreeMiB < 0 {
		return errors.New("analysis.min_free_mib must be zero or positive")
	}
	if len(c.Analysis.Extensions) == 0 {
		return errors.New("analysis.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateScoring() error {
	if len(c.Scoring.Weights) == 0 {
		return nil
	}
	if _, err := c.Tables(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
