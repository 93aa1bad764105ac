package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"dubscore/internal/config"
	"dubscore/internal/logging"
	"dubscore/internal/media/ffprobe"
	"dubscore/internal/quality"
	"dubscore/internal/services"
	"dubscore/internal/session"
	"dubscore/internal/textutil"
)

// LockFileName guards an output directory against concurrent runs.
const LockFileName = ".dubscore.lock"

// FragmentDirName holds the A/B listening fragments inside the output dir.
const FragmentDirName = "_ab"

// ErrLocked is returned when another run holds the output directory.
var ErrLocked = errors.New("output directory is in use by another analysis")

// Measurer acquires raw tool output for one file. measure.Runner satisfies
// it; tests substitute fakes.
type Measurer interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
	Loudness(ctx context.Context, path string) (string, error)
	Astats(ctx context.Context, path string) (string, error)
	Fragment(ctx context.Context, path, dest, start string, duration time.Duration) error
}

// Options control one analysis run.
type Options struct {
	// SessionID names the resulting session. Empty gets a fresh id.
	SessionID        string
	OutputDir        string
	Concurrency      int
	Timeout          time.Duration
	Fragments        bool
	FragmentStart    string
	FragmentDuration time.Duration
	// OnRecord is called from the worker goroutine after each file finishes.
	OnRecord func(quality.Record)
}

// OptionsFromConfig maps the [analysis] section onto run options.
func OptionsFromConfig(cfg *config.Config, outputDir string) Options {
	return Options{
		OutputDir:        outputDir,
		Concurrency:      cfg.Analysis.Concurrency,
		Timeout:          cfg.AnalysisTimeout(),
		Fragments:        cfg.Analysis.Fragments,
		FragmentStart:    cfg.Analysis.FragmentStart,
		FragmentDuration: cfg.FragmentDuration(),
	}
}

// Analyzer measures candidate files and evaluates them against the scoring
// tables.
type Analyzer struct {
	tables   *quality.Tables
	measurer Measurer
	opts     Options
	logger   *slog.Logger
}

// New constructs an analyzer. A nil tables value uses the defaults.
func New(tables *quality.Tables, measurer Measurer, opts Options, logger *slog.Logger) (*Analyzer, error) {
	if measurer == nil {
		return nil, errors.New("analyzer requires a measurer")
	}
	if opts.OutputDir == "" {
		return nil, errors.New("analyzer requires an output directory")
	}
	if tables == nil {
		tables = quality.DefaultTables()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Analyzer{
		tables:   tables,
		measurer: measurer,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "analyzer"),
	}, nil
}

// Run analyzes files and returns the frozen session. Per-file failures are
// recorded in the session; Run itself fails only when the run cannot start
// or the context is canceled.
func (a *Analyzer) Run(ctx context.Context, files []string) (*session.Session, error) {
	if len(files) == 0 {
		return nil, services.Wrap(services.ErrValidation, "analyzer", "run", "no files to analyze", nil)
	}
	names, err := baseNames(files)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(a.opts.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "analyzer", "create output dir", a.opts.OutputDir, err)
	}

	lock := flock.New(filepath.Join(a.opts.OutputDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, a.opts.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	s := session.NewWithID(a.opts.SessionID, a.opts.OutputDir)
	s.Reserve(names...)
	ctx = services.WithSessionID(ctx, s.ID)
	logger := logging.WithContext(ctx, a.logger)
	logger.Info("analysis started",
		logging.Int("files", len(files)),
		logging.Int("concurrency", a.opts.Concurrency),
		logging.String("output_dir", a.opts.OutputDir),
	)

	cleanNames := textutil.UniqueNames(names)
	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	for i, path := range files {
		target := candidate{path: path, name: names[i], clean: cleanNames[i]}
		g.Go(func() error {
			rec := a.analyzeFile(ctx, target)
			if err := s.Add(rec); err != nil {
				return err
			}
			if a.opts.OnRecord != nil {
				a.opts.OnRecord(rec)
			}
			return nil
		})
	}
	waitErr := g.Wait()
	s.Freeze()

	sum := s.Summary()
	logger.Info("analysis finished",
		logging.Int("successful", sum.SuccessfulFiles),
		logging.Int("failed", sum.FailedFiles),
		logging.String("recommended", sum.RecommendedFile),
		logging.Float64("average_score", sum.AverageScore),
		logging.Duration("elapsed", s.FinishedAt().Sub(s.StartedAt)),
	)
	if waitErr != nil {
		return s, waitErr
	}
	if err := ctx.Err(); err != nil {
		return s, err
	}
	return s, nil
}

type candidate struct {
	path  string
	name  string
	clean string
}

func baseNames(files []string) ([]string, error) {
	names := make([]string, len(files))
	seen := make(map[string]string, len(files))
	for i, path := range files {
		name := filepath.Base(path)
		if prev, ok := seen[name]; ok {
			return nil, services.Wrap(services.ErrValidation, "analyzer", "run",
				fmt.Sprintf("duplicate file name %q (%s and %s)", name, prev, path), nil)
		}
		seen[name] = path
		names[i] = name
	}
	return names, nil
}
