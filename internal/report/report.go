// Package report renders the markdown comparison document for an analysis
// session and reads the comparison table back out of a rendered document.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"dubscore/internal/fileutil"
	"dubscore/internal/quality"
	"dubscore/internal/session"
)

// FileName is the report's name inside the session output directory.
const FileName = "quality_report.md"

// DefaultPlayer is the command prefix used for A/B listening lines.
const DefaultPlayer = "ffplay -nodisp -autoexit"

const notAvailable = "N/A"

// ErrNoData signals that a session has no successful records, so there is
// nothing to compare.
var ErrNoData = errors.New("no successful analysis results to report")

// Options tweak the rendered document.
type Options struct {
	SessionID   string
	GeneratedAt time.Time
	// OutputDir makes fragment paths relative in the A/B section.
	OutputDir string
	Player    string
}

// RenderSession renders the report for a frozen session.
func RenderSession(s *session.Session, opts Options) ([]byte, error) {
	if s == nil {
		return nil, ErrNoData
	}
	if opts.SessionID == "" {
		opts.SessionID = s.ID
	}
	if opts.OutputDir == "" {
		opts.OutputDir = s.OutputDir
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = s.FinishedAt()
	}
	return Render(s.Records(), opts)
}

// Render builds the markdown document for records in insertion order.
// It returns ErrNoData when no record succeeded.
func Render(records []quality.Record, opts Options) ([]byte, error) {
	ranked := session.Rank(records)
	if len(ranked) == 0 {
		return nil, ErrNoData
	}
	best, _ := session.Recommend(records)

	var buf bytes.Buffer
	writeHeader(&buf, opts)
	writeSummary(&buf, best)
	writeComparison(&buf, ranked)
	writeDetails(&buf, ranked)
	writeFragments(&buf, records, opts)
	writeFailures(&buf, records)
	return buf.Bytes(), nil
}

// Write renders the session report into dir/FileName and returns the path.
func Write(dir string, s *session.Session, opts Options) (string, error) {
	data, err := RenderSession(s, opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeHeader(buf *bytes.Buffer, opts Options) {
	buf.WriteString("# Audio Quality Comparison Report\n\n")
	var meta []string
	if !opts.GeneratedAt.IsZero() {
		meta = append(meta, "generated "+opts.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if opts.SessionID != "" {
		meta = append(meta, "session "+opts.SessionID)
	}
	if len(meta) > 0 {
		fmt.Fprintf(buf, "_%s_\n\n", strings.Join(meta, ", "))
	}
}

func writeSummary(buf *bytes.Buffer, best quality.Record) {
	raw := best.Raw
	buf.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(buf, "**Recommended file:** %s\n", codeSpan(best.Name))
	fmt.Fprintf(buf, "**Quality score:** %d/100\n", best.OverallScore)
	fmt.Fprintf(buf, "**Codec:** %s\n", raw.CodecName())
	fmt.Fprintf(buf, "**Configuration:** %s, %s channels\n\n", hertz(raw.SampleRateHz), integer(raw.Channels))
	buf.WriteString(problemSummary(best.ProblemMessages()))
	buf.WriteString("\n")
}

func problemSummary(problems []string) string {
	switch len(problems) {
	case 0:
		return "**No problems detected**\n"
	case 1:
		return "**Problem detected:**\n- " + problems[0] + "\n"
	default:
		return "**Problems detected:**\n- " + strings.Join(problems, "\n- ") + "\n"
	}
}

var comparisonColumns = []string{"File", "Score", "Codec", "Sample Rate", "Channels", "Bit Rate", "Loudness", "LRA", "True Peak"}

func writeComparison(buf *bytes.Buffer, ranked []quality.Record) {
	buf.WriteString("## Comparison Table\n\n")
	buf.WriteString("| " + strings.Join(comparisonColumns, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat("---|", len(comparisonColumns)) + "\n")
	for _, rec := range ranked {
		raw := rec.Raw
		cells := []string{
			escapeCell(codeSpan(rec.Name)),
			fmt.Sprintf("**%d/100**", rec.OverallScore),
			escapeCell(raw.CodecName()),
			marked(hertz(raw.SampleRateHz), rec.Marker(quality.MetricSampleRate)),
			integer(raw.Channels),
			marked(kbps(raw.BitRateBps), rec.Marker(quality.MetricBitRate)),
			marked(unit(raw.IntegratedLoudness, "LUFS"), rec.Marker(quality.MetricLoudness)),
			marked(unit(raw.LoudnessRange, "LU"), rec.Marker(quality.MetricLRA)),
			marked(unit(raw.TruePeak, "dBTP"), rec.Marker(quality.MetricTruePeak)),
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	buf.WriteString("\n")
}

func writeDetails(buf *bytes.Buffer, ranked []quality.Record) {
	buf.WriteString("## Detailed Analysis\n\n")
	for i, rec := range ranked {
		raw := rec.Raw
		fmt.Fprintf(buf, "### %d. %s\n\n", i+1, rec.Name)
		fmt.Fprintf(buf, "**Score:** %d/100\n\n", rec.OverallScore)

		buf.WriteString("**Technical specifications:**\n")
		fmt.Fprintf(buf, "- Codec: %s\n", raw.CodecName())
		fmt.Fprintf(buf, "- Sample rate: %s\n", hertz(raw.SampleRateHz))
		fmt.Fprintf(buf, "- Channels: %s\n", integer(raw.Channels))
		fmt.Fprintf(buf, "- Bit rate: %s\n", kbps(raw.BitRateBps))
		if raw.DurationSeconds != nil {
			fmt.Fprintf(buf, "- Duration: %s\n", unit(raw.DurationSeconds, "s"))
		}
		if raw.FormatName != nil && *raw.FormatName != "" {
			fmt.Fprintf(buf, "- Container: %s\n", *raw.FormatName)
		}
		buf.WriteString("\n")

		buf.WriteString("**Quality metrics:**\n")
		metricLine(buf, "Integrated loudness", raw.IntegratedLoudness, "LUFS")
		metricLine(buf, "Loudness range (LRA)", raw.LoudnessRange, "LU")
		metricLine(buf, "True peak", raw.TruePeak, "dBTP")
		metricLine(buf, "Peak level", raw.PeakLevel, "dB")
		metricLine(buf, "RMS level", raw.RMSLevel, "dB")
		metricLine(buf, "DC offset", raw.DCOffset, "")
		metricLine(buf, "Dynamic range", raw.DynamicRange, "dB")
		buf.WriteString("\n")

		if problems := rec.ProblemMessages(); len(problems) > 0 {
			buf.WriteString("**Problems detected:**\n")
			for _, p := range problems {
				fmt.Fprintf(buf, "- %s\n", p)
			}
		} else {
			buf.WriteString("**✅ No problems detected**\n")
		}
		buf.WriteString("\n")
	}
}

func writeFragments(buf *bytes.Buffer, records []quality.Record, opts Options) {
	player := strings.TrimSpace(opts.Player)
	if player == "" {
		player = DefaultPlayer
	}
	var lines []string
	for _, rec := range records {
		if !rec.Succeeded() || rec.FragmentPath == "" {
			continue
		}
		path := rec.FragmentPath
		if opts.OutputDir != "" {
			if rel, err := filepath.Rel(opts.OutputDir, path); err == nil && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		lines = append(lines, fmt.Sprintf("%s %s  # %s", player, shellQuote(path), rec.Name))
	}
	if len(lines) == 0 {
		return
	}
	buf.WriteString("## A/B Listening Fragments\n\n")
	buf.WriteString("Listen to the generated fragments to confirm the decision:\n\n")
	buf.WriteString("```bash\n")
	buf.WriteString(strings.Join(lines, "\n"))
	buf.WriteString("\n```\n\n")
}

func writeFailures(buf *bytes.Buffer, records []quality.Record) {
	var failed []quality.Record
	for _, rec := range records {
		if !rec.Succeeded() {
			failed = append(failed, rec)
		}
	}
	if len(failed) == 0 {
		return
	}
	buf.WriteString("## Failed Files\n\n")
	for _, rec := range failed {
		fmt.Fprintf(buf, "- %s: %s\n", codeSpan(rec.Name), rec.FailureReason)
	}
	buf.WriteString("\n")
}

func metricLine(buf *bytes.Buffer, label string, v *float64, suffix string) {
	if v == nil {
		return
	}
	fmt.Fprintf(buf, "- %s: %s\n", label, unit(v, suffix))
}

func marked(value string, marker quality.Marker) string {
	return value + " " + marker.Symbol()
}

func hertz(v *int64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%dHz", *v)
}

func kbps(v *int64) string {
	if v == nil || *v <= 0 {
		return notAvailable
	}
	return fmt.Sprintf("%dkbps", *v/1000)
}

func integer(v *int64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%d", *v)
}

func unit(v *float64, suffix string) string {
	if v == nil {
		return notAvailable
	}
	if suffix == "" {
		return quality.FormatNumber(*v)
	}
	return quality.FormatNumber(*v) + " " + suffix
}

// codeSpan wraps s in a backtick fence longer than any backtick run inside
// it. Names containing backticks are padded with one space on each side,
// which markdown strips again.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	if longest > 0 {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

// escapeCell protects pipes inside a table cell. Outside tables a
// backslash before a pipe is shown literally, so only cells use it.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func shellQuote(path string) string {
	if strings.ContainsAny(path, " \t'\"$`\\&;()") {
		return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
	}
	return path
}
