package quality

import (
	"reflect"
	"testing"
)

func TestDetectFollowsRuleOrder(t *testing.T) {
	tables := DefaultTables()
	raw := RawMeasurement{
		SampleRateHz: Int(22050),
		TruePeak:     Float(1.2),
	}
	got := Messages(Detect(raw, tables.Interpret(raw)))
	want := []string{
		"sample rate too low: 22050Hz",
		"true peak clipping: 1.2 dBFS",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected problems:\n got %q\nwant %q", got, want)
	}
}

func TestDetectAllRules(t *testing.T) {
	tables := DefaultTables()
	raw := RawMeasurement{
		Codec:              String("mp3"),
		SampleRateHz:       Int(16000),
		BitRateBps:         Int(128000),
		IntegratedLoudness: Float(-9.5),
		LoudnessRange:      Float(0.8),
		TruePeak:           Float(0.4),
		DCOffset:           Float(-0.08),
	}
	got := Messages(Detect(raw, tables.Interpret(raw)))
	want := []string{
		"sample rate too low: 16000Hz",
		"bit rate too low: 128kbps",
		"loudness too high: -9.5 LUFS (possible limiting)",
		"true peak clipping: 0.4 dBFS",
		"DC offset too high: -0.08",
		"dynamic range too limited: 0.8 LU",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected problems:\n got %q\nwant %q", got, want)
	}
}

func TestDetectQuietRecording(t *testing.T) {
	tables := DefaultTables()
	raw := RawMeasurement{IntegratedLoudness: Float(-41)}
	problems := Detect(raw, tables.Interpret(raw))
	if len(problems) != 1 {
		t.Fatalf("expected one problem, got %+v", problems)
	}
	if problems[0].Message != "loudness too low: -41 LUFS (possible recording problems)" {
		t.Fatalf("unexpected message: %q", problems[0].Message)
	}
	if problems[0].Marker != MarkerFail || problems[0].Metric != MetricLoudness {
		t.Fatalf("unexpected tagging: %+v", problems[0])
	}
}

func TestDetectCleanRecordHasNoProblems(t *testing.T) {
	tables := DefaultTables()
	raw := RawMeasurement{
		Codec:              String("flac"),
		SampleRateHz:       Int(48000),
		BitRateBps:         Int(1411000),
		IntegratedLoudness: Float(-17),
		LoudnessRange:      Float(9),
		TruePeak:           Float(-2),
		DCOffset:           Float(0),
	}
	if problems := Detect(raw, tables.Interpret(raw)); len(problems) != 0 {
		t.Fatalf("expected no problems, got %+v", problems)
	}
}

func TestEvaluateBuildsRecord(t *testing.T) {
	tables := DefaultTables()
	raw := RawMeasurement{SampleRateHz: Int(48000)}
	rec := tables.Evaluate(Identity{Name: "a.wav", Path: "/tmp/a.wav"}, raw)
	if !rec.Succeeded() {
		t.Fatal("expected success outcome")
	}
	if rec.OverallScore != 100 {
		t.Fatalf("expected score 100, got %d", rec.OverallScore)
	}
	if rec.Marker(MetricSampleRate) != MarkerPass {
		t.Fatalf("unexpected marker: %s", rec.Marker(MetricSampleRate))
	}
	if rec.Marker(MetricLRA) != MarkerUnknown {
		t.Fatalf("expected unknown marker for absent metric, got %s", rec.Marker(MetricLRA))
	}

	empty := tables.Evaluate(Identity{Name: "b.wav"}, RawMeasurement{})
	if empty.OverallScore != 50 {
		t.Fatalf("expected neutral score for empty measurement, got %d", empty.OverallScore)
	}
}

func TestFailedRecord(t *testing.T) {
	rec := Failed(Identity{Name: "broken.mp3"}, "  ")
	if rec.Succeeded() {
		t.Fatal("failed record must not succeed")
	}
	if rec.FailureReason != "analysis failed" {
		t.Fatalf("unexpected default reason: %q", rec.FailureReason)
	}
}

func TestMergePrefersLaterValues(t *testing.T) {
	base := RawMeasurement{Codec: String("aac"), BitRateBps: Int(0)}
	merged := base.Merge(RawMeasurement{BitRateBps: Int(256000), TruePeak: Float(-1.5)})
	if merged.CodecName() != "aac" {
		t.Fatalf("codec lost in merge: %s", merged.CodecName())
	}
	if *merged.BitRateBps != 256000 || *merged.TruePeak != -1.5 {
		t.Fatalf("merge did not apply overrides: %+v", merged)
	}
	if *base.BitRateBps != 0 {
		t.Fatal("merge must not mutate the receiver")
	}
	if !(RawMeasurement{}).IsEmpty() || merged.IsEmpty() {
		t.Fatal("IsEmpty mismatch")
	}
}
