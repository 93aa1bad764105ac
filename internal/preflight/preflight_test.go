package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubscore/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected at least 1 MiB free, got: %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, 1<<50); result.Passed {
		t.Fatal("expected failure for absurd requirement")
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected statfs failure for missing path")
	}
}

func TestExistingAncestor(t *testing.T) {
	dir := t.TempDir()
	if got := ExistingAncestor(filepath.Join(dir, "a", "b", "c")); got != dir {
		t.Fatalf("expected %s, got %s", dir, got)
	}
}

func TestRunAllReportsMissingTools(t *testing.T) {
	bin := t.TempDir()
	ffmpegPath := testsupport.WriteScript(t, bin, "ffmpeg", "echo 'ffmpeg version test'\n")
	cfg := testsupport.NewConfig(t, testsupport.WithTools(ffmpegPath, filepath.Join(bin, "ffprobe-missing")))
	cfg.Analysis.MinFreeMiB = 1

	results := RunAll(cfg, filepath.Join(t.TempDir(), "out", "nested"))
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %+v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "FFprobe" {
		t.Fatalf("expected only ffprobe to fail, got %+v", failed)
	}
	if !strings.Contains(Summary(failed), "FFprobe: binary") {
		t.Fatalf("unexpected summary %q", Summary(failed))
	}
}
