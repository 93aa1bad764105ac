package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"dubscore/internal/deps"
	"dubscore/internal/quality"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 14
	statusIndent     = "  "
)

// recordStatus maps a finished record to the kind shown in progress output.
// Records that scored but carry problems are flagged as warnings.
func recordStatus(rec quality.Record) statusKind {
	switch {
	case !rec.Succeeded():
		return statusError
	case len(rec.Problems) > 0:
		return statusWarn
	default:
		return statusOK
	}
}

func progressLine(done, total int, rec quality.Record, colorize bool) string {
	label := fmt.Sprintf("[%d/%d]", done, total)
	var message string
	if rec.Succeeded() {
		message = fmt.Sprintf("%s %d/100", rec.Name, rec.OverallScore)
		if n := len(rec.Problems); n > 0 {
			message += fmt.Sprintf(" (%d problem(s))", n)
		}
	} else {
		message = fmt.Sprintf("%s: %s", rec.Name, rec.FailureReason)
	}
	return renderStatusLine(label, recordStatus(rec), message, colorize)
}

func dependencyLine(status deps.Status, colorize bool) string {
	if status.Available {
		detail := status.Path
		if status.Version != "" {
			detail = status.Version
		}
		return renderStatusLine(status.Name, statusOK, detail, colorize)
	}
	kind := statusError
	if status.Optional {
		kind = statusWarn
	}
	return renderStatusLine(status.Name, kind, status.Detail, colorize)
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	if !strings.HasSuffix(label, "]") {
		label += ":"
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label, statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
