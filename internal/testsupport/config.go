package testsupport

import (
	"path/filepath"
	"testing"

	"dubscore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfgVal.Analysis.MinFreeMiB = 0
	cfgVal.Analysis.TimeoutSeconds = 10

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTools points the config at stub ffmpeg/ffprobe executables.
func WithTools(ffmpegPath, ffprobePath string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.FFmpeg = ffmpegPath
		b.cfg.Tools.FFprobe = ffprobePath
	}
}

// WithConcurrency sets the worker pool size.
func WithConcurrency(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.Concurrency = n
	}
}

// WithoutFragments disables A/B fragment export.
func WithoutFragments() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.Fragments = false
	}
}

// WithOutputDir overrides the session output directory. An empty value
// restores the "_analysis next to the input" default.
func WithOutputDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.OutputDir = dir
	}
}
