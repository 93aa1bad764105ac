package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dubscore/internal/quality"
	"dubscore/internal/session"
)

func evaluated(name string, raw quality.RawMeasurement) quality.Record {
	return quality.DefaultTables().Evaluate(quality.Identity{Name: name}, raw)
}

func withScore(name string, score int) quality.Record {
	rec := evaluated(name, quality.RawMeasurement{SampleRateHz: quality.Int(48000)})
	rec.OverallScore = score
	return rec
}

func TestRenderNoDataSignal(t *testing.T) {
	records := []quality.Record{quality.Failed(quality.Identity{Name: "a.mp3"}, "ffprobe failed")}
	if _, err := Render(records, Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := Render(nil, Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty input, got %v", err)
	}
}

func TestRenderSectionOrder(t *testing.T) {
	records := []quality.Record{withScore("B.wav", 72), withScore("C.wav", 91)}
	doc, err := Render(records, Options{SessionID: "abc"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(doc)
	sections := []string{"## Executive Summary", "## Comparison Table", "## Detailed Analysis"}
	last := -1
	for _, heading := range sections {
		idx := strings.Index(text, heading)
		if idx < 0 {
			t.Fatalf("missing %q in report", heading)
		}
		if idx < last {
			t.Fatalf("%q out of order", heading)
		}
		last = idx
	}
	if !strings.Contains(text, "**Recommended file:** `C.wav`") {
		t.Fatalf("summary should name C.wav:\n%s", text)
	}
	if strings.Index(text, "### 1. C.wav") > strings.Index(text, "### 2. B.wav") {
		t.Fatal("details must follow score order")
	}
	if !strings.Contains(text, "session abc") {
		t.Fatal("expected session id in header")
	}
}

func TestRenderMissingValuesUseMarker(t *testing.T) {
	rec := evaluated("sparse.flac", quality.RawMeasurement{IntegratedLoudness: quality.Float(-17)})
	doc, err := Render([]quality.Record{rec}, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(doc)
	for _, want := range []string{
		"**Configuration:** N/A, N/A channels",
		"| `sparse.flac` | **100/100** | unknown | N/A ❓ | N/A | N/A ❓ | -17 LUFS ✅ | N/A ❓ | N/A ❓ |",
		"- Sample rate: N/A",
		"- Integrated loudness: -17 LUFS",
		"**✅ No problems detected**",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in report:\n%s", want, text)
		}
	}
	if strings.Contains(text, "- True peak:") {
		t.Fatal("absent metric should not get a detail line")
	}
}

func TestRenderProblemsAndFailures(t *testing.T) {
	bad := evaluated("hot.mp3", quality.RawMeasurement{
		SampleRateHz: quality.Int(22050),
		TruePeak:     quality.Float(0.5),
	})
	failed := quality.Failed(quality.Identity{Name: "broken.mkv"}, "timeout")
	doc, err := Render([]quality.Record{bad, failed}, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(doc)
	if !strings.Contains(text, "**Problems detected:**\n- sample rate too low: 22050Hz\n- true peak clipping: 0.5 dBFS\n") {
		t.Fatalf("problem list missing or out of order:\n%s", text)
	}
	if !strings.Contains(text, "## Failed Files\n\n- `broken.mkv`: timeout") {
		t.Fatalf("expected failed file section:\n%s", text)
	}
	if strings.Contains(text, "| `broken.mkv`") {
		t.Fatal("failed records must not appear in the comparison table")
	}
}

func TestRenderFragmentSection(t *testing.T) {
	out := t.TempDir()
	rec := withScore("Take One.wav", 80)
	rec.FragmentPath = filepath.Join(out, "_ab", "Take_One.wav")
	plain := withScore("b.wav", 70)

	doc, err := Render([]quality.Record{rec, plain}, Options{OutputDir: out, Player: "afplay"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(doc), "afplay _ab/Take_One.wav  # Take One.wav") {
		t.Fatalf("expected relative fragment command:\n%s", doc)
	}

	doc, _ = Render([]quality.Record{plain}, Options{})
	if strings.Contains(string(doc), "A/B Listening") {
		t.Fatal("fragment section should be omitted without fragments")
	}
}

func TestRoundTripMatchesRanking(t *testing.T) {
	records := []quality.Record{
		withScore("B.wav", 72),
		withScore("C.wav", 91),
		withScore("D.wav", 40),
		withScore("A.wav", 91),
		quality.Failed(quality.Identity{Name: "E.wav"}, "boom"),
	}
	doc, err := Render(records, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	rows, err := ParseRanking(doc)
	if err != nil {
		t.Fatalf("ParseRanking: %v", err)
	}
	ranked := session.Rank(records)
	if len(rows) != len(ranked) {
		t.Fatalf("expected %d rows, got %d", len(ranked), len(rows))
	}
	for i := range ranked {
		if rows[i].Name != ranked[i].Name || rows[i].Score != ranked[i].OverallScore {
			t.Fatalf("row %d = %+v, want %s/%d", i, rows[i], ranked[i].Name, ranked[i].OverallScore)
		}
	}
}

func TestParseRankingWithoutTable(t *testing.T) {
	if _, err := ParseRanking([]byte("# Nothing here\n")); !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
}

func TestWriteSessionReport(t *testing.T) {
	s := session.New(t.TempDir())
	if err := s.Add(withScore("x.wav", 90)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Freeze()

	path, err := Write(s.OutputDir, s, Options{GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != FileName {
		t.Fatalf("unexpected report path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "generated 2026-01-02T03:04:05Z, session "+s.ID) {
		t.Fatalf("unexpected header:\n%s", data)
	}

	empty := session.New(t.TempDir())
	empty.Freeze()
	if _, err := Write(empty.OutputDir, empty, Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(empty.OutputDir, FileName)); !os.IsNotExist(err) {
		t.Fatal("no report file should be written without data")
	}
}

func TestRenderNamesWithBackticksAndPipes(t *testing.T) {
	tests := []struct {
		name    string
		summary string
	}{
		{"it`s.wav", "**Recommended file:** `` it`s.wav ``"},
		{"Take|1.wav", "**Recommended file:** `Take|1.wav`"},
		{"a``b.wav", "**Recommended file:** ``` a``b.wav ```"},
		{"plain.wav", "**Recommended file:** `plain.wav`"},
	}
	for _, tt := range tests {
		records := []quality.Record{withScore(tt.name, 90), withScore("z.wav", 50)}
		doc, err := Render(records, Options{})
		if err != nil {
			t.Fatalf("Render(%q): %v", tt.name, err)
		}
		if !strings.Contains(string(doc), tt.summary+"\n") {
			t.Fatalf("summary for %q: want %q in\n%s", tt.name, tt.summary, doc)
		}
		rows, err := ParseRanking(doc)
		if err != nil {
			t.Fatalf("ParseRanking(%q): %v", tt.name, err)
		}
		if len(rows) != 2 || rows[0].Name != tt.name || rows[0].Score != 90 || rows[1].Name != "z.wav" {
			t.Fatalf("ranking for %q = %+v", tt.name, rows)
		}
	}
}

func TestCodeSpanFence(t *testing.T) {
	for in, want := range map[string]string{
		"a.wav":  "`a.wav`",
		"`a":     "`` `a ``",
		"x```y":  "```` x```y ````",
		"a`b``c": "``` a`b``c ```",
	} {
		if got := codeSpan(in); got != want {
			t.Fatalf("codeSpan(%q) = %q, want %q", in, got, want)
		}
	}
}
