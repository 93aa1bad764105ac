package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSessionIDHandlerStampsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionIDHandler(slog.NewJSONHandler(&buf, nil), "run-123")).With("extra", "value")
	logger.Info("measured")

	output := buf.String()
	if !strings.Contains(output, `"session_id":"run-123"`) {
		t.Errorf("expected session_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Errorf("expected extra attr in output, got: %s", output)
	}
}

func TestSessionIDHandlerNilBase(t *testing.T) {
	if _, ok := newSessionIDHandler(nil, "run-123").(NoopHandler); !ok {
		t.Error("expected NoopHandler when base is nil")
	}
}

func TestConsoleHidesSessionAtInfo(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	logger := slog.New(newSessionIDHandler(newPrettyHandler(&buf, lvl, false), "run-9"))

	logger.Info("visible")
	logger.Debug("detailed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if strings.Contains(lines[0], "session_id") {
		t.Fatalf("info line should hide session id: %q", lines[0])
	}
	if !strings.Contains(lines[1], "session_id=run-9") {
		t.Fatalf("debug line should show session id: %q", lines[1])
	}
}

func TestSessionIDHandlerWritesKeyOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionIDHandler(slog.NewJSONHandler(&buf, nil), "run-1"))

	logger.With(FieldSessionID, "run-1").Info("derived")
	logger.Info("inline", FieldSessionID, "run-1")
	logger.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	for _, line := range lines {
		if n := strings.Count(line, `"session_id"`); n != 1 {
			t.Fatalf("session_id written %d times: %s", n, line)
		}
	}
}

func TestSessionIDHandlerEmptyIDPassesThrough(t *testing.T) {
	base := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if newSessionIDHandler(base, "") != base {
		t.Fatal("expected base handler when session id is empty")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"invalid": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
