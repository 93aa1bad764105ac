package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dubscore/internal/fileutil"
	"dubscore/internal/logging"
	"dubscore/internal/measure"
	"dubscore/internal/quality"
	"dubscore/internal/services"
)

// Artifact file names inside each per-file directory.
const (
	TechFileName    = "tech.txt"
	FFprobeFileName = "ffprobe.json"
	EBU128FileName  = "ebu128.txt"
	AstatsFileName  = "astats.txt"
)

func (a *Analyzer) analyzeFile(ctx context.Context, c candidate) quality.Record {
	ctx = services.WithFile(ctx, c.name)
	logger := logging.WithContext(ctx, a.logger)
	dir := filepath.Join(a.opts.OutputDir, c.clean)
	id := quality.Identity{Name: c.name, Path: c.path, CleanName: c.clean}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	raw, err := a.measureFile(ctx, c.path, dir)
	if err != nil {
		reason := services.FailureReason(err)
		logging.ErrorWithContext(logger, "file analysis failed", "analysis_failed",
			logging.String("reason", reason),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run ffprobe on the file to confirm it is readable"),
		)
		rec := quality.Failed(id, reason)
		rec.OutputDir = dir
		return rec
	}

	rec := a.tables.Evaluate(id, raw)
	rec.OutputDir = dir
	if a.opts.Fragments {
		rec.FragmentPath = a.exportFragment(ctx, c)
	}
	logger.Info("file analyzed",
		logging.Score(rec.OverallScore),
		logging.Int("problems", len(rec.Problems)),
	)
	return rec
}

// measureFile runs every measurement step, persisting raw tool output under
// dir. The first failing step fails the file.
func (a *Analyzer) measureFile(ctx context.Context, path, dir string) (quality.RawMeasurement, error) {
	logger := logging.WithContext(ctx, a.logger)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return quality.RawMeasurement{}, services.Wrap(services.ErrTransient, "analyzer", "create artifact dir", dir, err)
	}

	probe, err := a.measurer.Probe(services.WithStage(ctx, measure.StageProbe), path)
	if err != nil {
		return quality.RawMeasurement{}, err
	}
	raw, ok := measure.FromProbe(probe, logger)
	if !ok {
		return quality.RawMeasurement{}, services.Wrap(services.ErrValidation, "analyzer", measure.StageProbe, "no audio stream", nil)
	}
	if err := writeArtifact(dir, FFprobeFileName, indentJSON(probe.RawJSON())); err != nil {
		logging.WarnWithContext(logger, "ffprobe artifact not written", "artifact_write_failed", logging.Error(err))
	}
	if err := writeArtifact(dir, TechFileName, []byte(techSummary(raw, path))); err != nil {
		logging.WarnWithContext(logger, "technical summary not written", "artifact_write_failed", logging.Error(err))
	}

	loudness, err := a.measurer.Loudness(services.WithStage(ctx, measure.StageLoudness), path)
	if err != nil {
		return quality.RawMeasurement{}, err
	}
	if err := writeArtifact(dir, EBU128FileName, []byte(loudness)); err != nil {
		logging.WarnWithContext(logger, "loudness artifact not written", "artifact_write_failed", logging.Error(err))
	}
	raw = raw.Merge(measure.ParseLoudnessSummary(loudness, logger))

	stats, err := a.measurer.Astats(services.WithStage(ctx, measure.StageAstats), path)
	if err != nil {
		return quality.RawMeasurement{}, err
	}
	if err := writeArtifact(dir, AstatsFileName, []byte(stats)); err != nil {
		logging.WarnWithContext(logger, "astats artifact not written", "artifact_write_failed", logging.Error(err))
	}
	raw = raw.Merge(measure.ParseAstats(stats, logger))
	return raw, nil
}

// exportFragment writes the A/B fragment and returns its path, or "" when
// the export failed. A missing fragment never fails the file.
func (a *Analyzer) exportFragment(ctx context.Context, c candidate) string {
	dest := filepath.Join(a.opts.OutputDir, FragmentDirName, c.clean+".wav")
	err := a.measurer.Fragment(services.WithStage(ctx, measure.StageFragment), c.path, dest, a.opts.FragmentStart, a.opts.FragmentDuration)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, a.logger), "a/b fragment not exported", "fragment_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "report omits the listening command for this file"),
		)
		return ""
	}
	return dest
}

func writeArtifact(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
