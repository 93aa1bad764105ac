package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dubscore/internal/analyzer"
	"dubscore/internal/config"
	"dubscore/internal/discovery"
	"dubscore/internal/history"
	"dubscore/internal/logging"
	"dubscore/internal/measure"
	"dubscore/internal/preflight"
	"dubscore/internal/quality"
	"dubscore/internal/report"
	"dubscore/internal/session"
)

// errNoSuccessfulFiles makes the exit status non-zero when nothing could be
// measured.
var errNoSuccessfulFiles = errors.New("no file could be analyzed")

type analyzeOptions struct {
	output           string
	fragmentDuration int
	fragmentStart    string
	noFragments      bool
	noParallel       bool
	concurrency      int
	extensions       []string
	quiet            bool
	verbose          bool
	format           string
	player           string
	noHistory        bool
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [directory|file]...",
		Short: "Measure, score, and rank candidate audio files",
		Long: `Analyze every supported audio file in the given directories (or the
given files), score each one, and recommend the best rendition.

Without arguments the current directory is analyzed. Results go to
quality_report.md in the output directory, next to per-file artifacts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, ctx, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output directory (default: <input>/_analysis)")
	flags.IntVarP(&opts.fragmentDuration, "fragment-duration", "d", 0, "A/B fragment length in seconds")
	flags.StringVar(&opts.fragmentStart, "fragment-start", "", "A/B fragment start (HH:MM:SS or seconds)")
	flags.BoolVar(&opts.noFragments, "no-fragments", false, "Skip A/B fragment export")
	flags.BoolVar(&opts.noParallel, "no-parallel", false, "Analyze one file at a time")
	flags.IntVarP(&opts.concurrency, "jobs", "j", 0, "Files analyzed in parallel")
	flags.StringSliceVarP(&opts.extensions, "extensions", "e", nil, "File extensions to include (comma separated)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only print errors and the final result")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&opts.format, "format", "f", formatTable, "Summary format: table, json, or yaml")
	flags.StringVar(&opts.player, "player", report.DefaultPlayer, "Command prefix for A/B listening lines in the report")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record the session in the history database")
	return cmd
}

func runAnalyze(cmd *cobra.Command, ctx *commandContext, args []string, opts analyzeOptions) error {
	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *base
	if err := applyAnalyzeFlags(&cfg, opts); err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"."}
	}
	files, err := discovery.Expand(inputs, cfg.Analysis.Extensions)
	if err != nil {
		return err
	}
	outputDir, err := resolveOutputDir(&cfg, opts.output, inputs[0])
	if err != nil {
		return err
	}

	if failed := preflight.Failed(preflight.RunAll(&cfg, outputDir)); len(failed) > 0 {
		return fmt.Errorf("preflight failed: %s", preflight.Summary(failed))
	}

	sessionID := session.NewID()
	logger, err := logging.NewFromConfig(&cfg, sessionID)
	if err != nil {
		return err
	}
	tables, err := cfg.Tables()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	colorize := shouldColorize(stderr)
	if !opts.quiet {
		fmt.Fprintf(stderr, "Analyzing %d file(s) into %s\n", len(files), outputDir)
	}

	runOpts := analyzer.OptionsFromConfig(&cfg, outputDir)
	runOpts.SessionID = sessionID
	var progressMu sync.Mutex
	done := 0
	runOpts.OnRecord = func(rec quality.Record) {
		progressMu.Lock()
		defer progressMu.Unlock()
		done++
		if !opts.quiet {
			fmt.Fprintln(stderr, progressLine(done, len(files), rec, colorize))
		}
	}

	runner := measure.NewRunner(cfg.FFmpegBinary(), cfg.FFprobeBinary(), logger)
	a, err := analyzer.New(tables, runner, runOpts, logger)
	if err != nil {
		return err
	}
	sess, runErr := a.Run(cmd.Context(), files)
	if sess == nil {
		return runErr
	}

	reportPath, err := report.Write(outputDir, sess, report.Options{Player: opts.player})
	switch {
	case errors.Is(err, report.ErrNoData):
		logging.WarnWithContext(logger, "report not written", "report_skipped",
			logging.String(logging.FieldImpact, "no successful analysis to compare"))
	case err != nil:
		return err
	}

	if !opts.noHistory {
		saveHistory(cmd, &cfg, sess, logger)
	}

	if err := printAnalysis(cmd, format, sess, reportPath); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if sess.Summary().SuccessfulFiles == 0 {
		return errNoSuccessfulFiles
	}
	return nil
}

func applyAnalyzeFlags(cfg *config.Config, opts analyzeOptions) error {
	if opts.fragmentDuration != 0 {
		cfg.Analysis.FragmentSeconds = opts.fragmentDuration
	}
	if opts.fragmentStart != "" {
		cfg.Analysis.FragmentStart = opts.fragmentStart
	}
	if opts.noFragments {
		cfg.Analysis.Fragments = false
	}
	if opts.concurrency != 0 {
		cfg.Analysis.Concurrency = opts.concurrency
	}
	if opts.noParallel {
		cfg.Analysis.Concurrency = 1
	}
	if len(opts.extensions) > 0 {
		cfg.Analysis.Extensions = config.NormalizeExtensions(opts.extensions)
	}
	switch {
	case opts.verbose:
		cfg.Logging.Level = "debug"
	case opts.quiet:
		cfg.Logging.Level = "error"
	}
	return cfg.Validate()
}

func resolveOutputDir(cfg *config.Config, flagValue, firstInput string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		path, err := config.ExpandPath(flagValue)
		if err != nil {
			return "", err
		}
		return filepath.Abs(path)
	}
	inputDir := firstInput
	if info, err := os.Stat(firstInput); err == nil && !info.IsDir() {
		inputDir = filepath.Dir(firstInput)
	}
	abs, err := filepath.Abs(inputDir)
	if err != nil {
		return "", err
	}
	return cfg.OutputDirFor(abs)
}

func saveHistory(cmd *cobra.Command, cfg *config.Config, sess *session.Session, logger *slog.Logger) {
	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if err := store.Save(cmd.Context(), sess); err != nil {
		logger.Warn("session not recorded in history", logging.Error(err))
	}
}

type analysisOutput struct {
	Summary session.Summary  `json:"summary" yaml:"summary"`
	Report  string           `json:"report,omitempty" yaml:"report,omitempty"`
	Records []quality.Record `json:"records" yaml:"records"`
}

func printAnalysis(cmd *cobra.Command, format string, sess *session.Session, reportPath string) error {
	payload := analysisOutput{Summary: sess.Summary(), Report: reportPath, Records: sess.Records()}
	if handled, err := writeStructured(cmd, format, payload); handled {
		return err
	}
	out := cmd.OutOrStdout()
	writeSummary(out, payload.Summary, shouldColorize(out))
	if ranked := sess.Ranked(); len(ranked) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderRanking(ranked))
	}
	if reportPath != "" {
		fmt.Fprintf(out, "\nReport: %s\n", reportPath)
	}
	return nil
}

func writeSummary(out io.Writer, sum session.Summary, colorize bool) {
	for _, line := range renderSectionHeader("Analysis Summary", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Session", statusInfo, sum.SessionID, colorize))
	fmt.Fprintln(out, renderStatusLine("Files", statusInfo,
		fmt.Sprintf("%d analyzed, %d failed", sum.SuccessfulFiles, sum.FailedFiles), colorize))
	if !sum.HasRecommendation() {
		fmt.Fprintln(out, renderStatusLine("Recommended", statusError, "no successful analysis", colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Recommended", statusOK,
		fmt.Sprintf("%s (%d/100)", sum.RecommendedFile, sum.RecommendedScore), colorize))
	fmt.Fprintln(out, renderStatusLine("Scores", statusInfo,
		fmt.Sprintf("avg %.1f, high %d, low %d", sum.AverageScore, sum.HighestScore, sum.LowestScore), colorize))
}
