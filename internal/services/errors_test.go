package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"dubscore/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "loudness", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"loudness", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"tool", services.Wrap(services.ErrExternalTool, "probe", "ffprobe", "exit status 1", nil), "external tool: probe: ffprobe: exit status 1"},
		{"timeout marker", services.Wrap(services.ErrTimeout, "loudness", "", "", nil), "timeout: loudness"},
		{"deadline", fmt.Errorf("astats: %w", context.DeadlineExceeded), "timeout: astats: context deadline exceeded"},
		{"canceled", context.Canceled, "canceled"},
		{"plain", errors.New("disk full"), "analysis failed: disk full"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.FailureReason(tc.err); got != tc.want {
				t.Fatalf("FailureReason() = %q, want %q", got, tc.want)
			}
		})
	}
}
