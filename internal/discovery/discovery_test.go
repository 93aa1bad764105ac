package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dubscore/internal/testsupport"
)

var audioExts = []string{"mp3", "wav", "flac", "mkv"}

func TestFindIsFlatAndCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.WAV", "A.mp3", "c.flac", "notes.txt", "sub/d.mp3"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 8)
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.mp3"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := Find(dir, audioExts)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{"A.mp3", "b.WAV", "c.flac"}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Fatalf("file %d = %s, want %s", i, files[i], name)
		}
		if !filepath.IsAbs(files[i]) {
			t.Fatalf("expected absolute path, got %s", files[i])
		}
	}
}

func TestFindRejectsMissingDir(t *testing.T) {
	if _, err := Find(filepath.Join(t.TempDir(), "nope"), audioExts); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		exts []string
		want string
	}{
		{nil, ""},
		{[]string{".MP3"}, "*.mp3"},
		{[]string{"mp3", " .wav ", ""}, "*.{mp3,wav}"},
	}
	for _, tt := range tests {
		if got := Pattern(tt.exts); got != tt.want {
			t.Fatalf("Pattern(%v) = %q, want %q", tt.exts, got, tt.want)
		}
	}
}

func TestExpandMixesDirsAndFiles(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "x.mp3"), 4)
	testsupport.WriteFile(t, filepath.Join(dir, "y.wav"), 4)
	extra := filepath.Join(t.TempDir(), "Alpha.mkv")
	testsupport.WriteFile(t, extra, 4)

	files, err := Expand([]string{dir, extra, filepath.Join(dir, "x.mp3")}, audioExts)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(files) != 3 || filepath.Base(files[0]) != "Alpha.mkv" {
		t.Fatalf("unexpected expansion: %v", files)
	}

	notes := filepath.Join(dir, "notes.txt")
	testsupport.WriteFile(t, notes, 1)
	if _, err := Expand([]string{notes}, audioExts); err == nil {
		t.Fatal("expected unsupported extension error")
	}
	if _, err := Expand([]string{t.TempDir()}, audioExts); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}
