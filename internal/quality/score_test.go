package quality

import (
	"strings"
	"testing"
)

func TestInterpretSkipsAbsentMetrics(t *testing.T) {
	tables := DefaultTables()
	raw := RawMeasurement{
		SampleRateHz:       Int(48000),
		IntegratedLoudness: Float(-17.5),
	}
	got := tables.Interpret(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 interpretations, got %d: %+v", len(got), got)
	}
	if _, ok := got.Get(MetricDCOffset); ok {
		t.Fatal("dc offset must not be interpreted when absent")
	}
	if got.TierOf(MetricLoudness) != TierOptimal {
		t.Fatalf("unexpected loudness tier: %s", got.TierOf(MetricLoudness))
	}
}

func TestInterpretBitRateRequiresCodec(t *testing.T) {
	tables := DefaultTables()
	got := tables.Interpret(RawMeasurement{BitRateBps: Int(320000)})
	if _, ok := got[MetricBitRate]; ok {
		t.Fatal("bit rate without codec must be skipped")
	}
	got = tables.Interpret(RawMeasurement{BitRateBps: Int(320000), Codec: String("mp3")})
	if got.TierOf(MetricBitRate) != TierExcellent {
		t.Fatalf("expected excellent bit rate, got %s", got.TierOf(MetricBitRate))
	}
}

func TestAggregateSingleMetricIsIdentity(t *testing.T) {
	tables := DefaultTables()
	in := Interpretations{
		MetricSampleRate: {Metric: MetricSampleRate, Tier: TierExcellent, Marker: MarkerPass, Score: 100},
	}
	if got := tables.Aggregate(in); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	in = Interpretations{
		MetricDCOffset: {Metric: MetricDCOffset, Tier: TierPoor, Marker: MarkerFail, Score: 40},
	}
	if got := tables.Aggregate(in); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
}

func TestAggregateEmptyIsNeutral(t *testing.T) {
	if got := DefaultTables().Aggregate(nil); got != 50 {
		t.Fatalf("expected neutral 50, got %d", got)
	}
	if got := DefaultTables().Aggregate(Interpretations{}); got != 50 {
		t.Fatalf("expected neutral 50, got %d", got)
	}
}

func TestAggregateIsWeighted(t *testing.T) {
	tables := DefaultTables()
	in := Interpretations{
		MetricBitRate:  {Metric: MetricBitRate, Score: 100},
		MetricDCOffset: {Metric: MetricDCOffset, Score: 40},
	}
	// (100*0.25 + 40*0.10) / 0.35 = 82.857...
	if got := tables.Aggregate(in); got != 83 {
		t.Fatalf("expected 83, got %d", got)
	}
}

func TestAggregateRoundsHalfUp(t *testing.T) {
	tables, err := NewTables(map[string]float64{
		"sample_rate": 0.5,
		"bit_rate":    0.5,
		"loudness":    0,
		"lra":         0,
		"true_peak":   0,
		"dc_offset":   0,
	})
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	in := Interpretations{
		MetricSampleRate: {Metric: MetricSampleRate, Score: 100},
		MetricBitRate:    {Metric: MetricBitRate, Score: 85},
	}
	if got := tables.Aggregate(in); got != 93 {
		t.Fatalf("expected 92.5 to round to 93, got %d", got)
	}
	zeroOnly := Interpretations{MetricLRA: {Metric: MetricLRA, Score: 100}}
	if got := tables.Aggregate(zeroOnly); got != 50 {
		t.Fatalf("expected neutral score when only zero-weight metrics are present, got %d", got)
	}
}

func TestAggregateFullRecord(t *testing.T) {
	tables := DefaultTables()
	raw := RawMeasurement{
		Codec:              String("aac"),
		SampleRateHz:       Int(48000),
		BitRateBps:         Int(192000),
		IntegratedLoudness: Float(-23),
		LoudnessRange:      Float(8),
		TruePeak:           Float(-0.5),
		DCOffset:           Float(0.0001),
	}
	// 100*.15 + 85*.25 + 100*.20 + 100*.15 + 70*.15 + 100*.10 = 91.75
	if got := tables.Aggregate(tables.Interpret(raw)); got != 92 {
		t.Fatalf("expected 92, got %d", got)
	}
}

func TestNewTablesRejectsBadWeights(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]float64
		want      string
	}{
		{"unknown metric", map[string]float64{"bogus": 0.1}, "unknown metric"},
		{"negative", map[string]float64{"lra": -0.15, "bit_rate": 0.55}, "non-negative"},
		{"bad sum", map[string]float64{"lra": 0.5}, "sum to 1.0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTables(tc.overrides)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNewTablesAcceptsCaseInsensitiveNames(t *testing.T) {
	tables, err := NewTables(map[string]float64{"Bit_Rate": 0.20, "DC_OFFSET": 0.15})
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	if tables.Weight(MetricBitRate) != 0.20 || tables.Weight(MetricDCOffset) != 0.15 {
		t.Fatalf("overrides not applied: bit_rate=%v dc_offset=%v", tables.Weight(MetricBitRate), tables.Weight(MetricDCOffset))
	}
}
