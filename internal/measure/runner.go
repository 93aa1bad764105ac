package measure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dubscore/internal/logging"
	"dubscore/internal/media/ffprobe"
	"dubscore/internal/services"
)

// Stage names used in error wrapping and log fields.
const (
	StageProbe    = "probe"
	StageLoudness = "loudness"
	StageAstats   = "astats"
	StageFragment = "fragment"
)

// FragmentSampleRate is the sample rate of exported A/B fragments.
const FragmentSampleRate = 48000

const stderrTailLines = 12

var videoContainers = map[string]struct{}{
	".mp4": {},
	".mkv": {},
	".avi": {},
	".mov": {},
}

// IsVideoContainer reports whether path has a video container extension, in
// which case only the first audio stream is measured.
func IsVideoContainer(path string) bool {
	_, ok := videoContainers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Runner executes the external measurement tools.
type Runner struct {
	FFmpeg  string
	FFprobe string
	Logger  *slog.Logger
}

// NewRunner returns a Runner using the given executables.
func NewRunner(ffmpegBinary, ffprobeBinary string, logger *slog.Logger) *Runner {
	return &Runner{
		FFmpeg:  ffmpegBinary,
		FFprobe: ffprobeBinary,
		Logger:  logging.NewComponentLogger(logger, "measure"),
	}
}

// Probe inspects the container and streams of path.
func (r *Runner) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	result, err := ffprobe.Inspect(ctx, r.ffprobe(), path)
	if err != nil {
		return ffprobe.Result{}, classify(ctx, StageProbe, r.ffprobe(), err)
	}
	return result, nil
}

// Loudness runs the EBU R128 filter and returns its stderr report.
func (r *Runner) Loudness(ctx context.Context, path string) (string, error) {
	return r.analyze(ctx, StageLoudness, path, "ebur128=peak=true")
}

// Astats runs the astats filter and returns its stderr report.
func (r *Runner) Astats(ctx context.Context, path string) (string, error) {
	return r.analyze(ctx, StageAstats, path, "astats")
}

func (r *Runner) analyze(ctx context.Context, stage, path, filter string) (string, error) {
	args := []string{"-hide_banner", "-nostats", "-i", path}
	if IsVideoContainer(path) {
		args = append(args, "-map", "0:a:0")
	}
	args = append(args, "-af", filter, "-f", "null", "-")
	return r.run(ctx, stage, args)
}

// Fragment exports a 16-bit PCM WAV listening fragment of path to dest,
// starting at start (HH:MM:SS or seconds) and lasting duration.
func (r *Runner) Fragment(ctx context.Context, path, dest, start string, duration time.Duration) error {
	if duration <= 0 {
		return services.Wrap(services.ErrValidation, StageFragment, "prepare", "fragment duration must be positive", nil)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, StageFragment, "mkdir", filepath.Dir(dest), err)
	}
	args := []string{
		"-hide_banner", "-nostats",
		"-ss", start,
		"-i", path,
		"-t", strconv.FormatFloat(duration.Seconds(), 'f', -1, 64),
	}
	if IsVideoContainer(path) {
		args = append(args, "-vn")
	}
	args = append(args,
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(FragmentSampleRate),
		"-y", dest,
	)
	_, err := r.run(ctx, StageFragment, args)
	return err
}

func (r *Runner) run(ctx context.Context, stage string, args []string) (string, error) {
	binary := r.ffmpeg()
	started := time.Now()
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if r.Logger != nil {
		r.Logger.Debug("ffmpeg finished",
			logging.String(logging.FieldStage, stage),
			logging.Duration("elapsed", time.Since(started)),
			logging.Bool("ok", err == nil),
		)
	}
	if err != nil {
		return "", classify(ctx, stage, binary, fmt.Errorf("%w: %s", err, tail(stderr.String(), stderrTailLines)))
	}
	return stderr.String(), nil
}

func (r *Runner) ffmpeg() string {
	if r == nil || strings.TrimSpace(r.FFmpeg) == "" {
		return "ffmpeg"
	}
	return r.FFmpeg
}

func (r *Runner) ffprobe() string {
	if r == nil || strings.TrimSpace(r.FFprobe) == "" {
		return "ffprobe"
	}
	return r.FFprobe
}

// classify tags tool failures so the analyzer can tell timeouts from broken
// inputs.
func classify(ctx context.Context, stage, binary string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, stage, filepath.Base(binary), "deadline exceeded", err)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return services.Wrap(services.ErrNotFound, stage, filepath.Base(binary), "executable not found", err)
	}
	return services.Wrap(services.ErrExternalTool, stage, filepath.Base(binary), "", err)
}

func tail(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
