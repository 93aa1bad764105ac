package quality

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Metric names one interpreted measurement axis.
type Metric string

const (
	MetricSampleRate Metric = "sample_rate"
	MetricBitRate    Metric = "bit_rate"
	MetricLoudness   Metric = "loudness"
	MetricLRA        Metric = "lra"
	MetricTruePeak   Metric = "true_peak"
	MetricDCOffset   Metric = "dc_offset"
)

// Metrics lists every scored axis in canonical order.
var Metrics = []Metric{
	MetricSampleRate,
	MetricBitRate,
	MetricLoudness,
	MetricLRA,
	MetricTruePeak,
	MetricDCOffset,
}

// ParseMetric resolves a metric name, accepting any case.
func ParseMetric(name string) (Metric, bool) {
	normalized := Metric(strings.ToLower(strings.TrimSpace(name)))
	for _, m := range Metrics {
		if m == normalized {
			return m, true
		}
	}
	return "", false
}

// Tier is a named quality bucket.
type Tier string

const (
	TierOptimal         Tier = "optimal"
	TierExcellent       Tier = "excellent"
	TierExcellentWide   Tier = "excellent_wide"
	TierExcellentMedium Tier = "excellent_medium"
	TierGood            Tier = "good"
	TierAcceptable      Tier = "acceptable"
	TierAcceptableLow   Tier = "acceptable_low"
	TierAcceptableHigh  Tier = "acceptable_high"
	TierHigh            Tier = "high"
	TierLow             Tier = "low"
	TierPoor            Tier = "poor"
	TierVeryHigh        Tier = "very_high"
	TierVeryLow         Tier = "very_low"
)

// Marker is the pass/caution/fail severity attached to a tier.
type Marker string

const (
	MarkerPass    Marker = "pass"
	MarkerCaution Marker = "caution"
	MarkerFail    Marker = "fail"
	MarkerUnknown Marker = "unknown"
)

// Symbol returns the glyph shown next to values in reports.
func (m Marker) Symbol() string {
	switch m {
	case MarkerPass:
		return "✅"
	case MarkerCaution:
		return "⚠️"
	case MarkerFail:
		return "❌"
	default:
		return "❓"
	}
}

// Codec families with dedicated bit rate tables.
const (
	CodecMP3     = "mp3"
	CodecAAC     = "aac"
	CodecDefault = "default"
)

const (
	scorePoor     = 40
	scoreNeutral  = 50
	weightEpsilon = 1e-6
)

var inf = math.Inf(1)

var sampleRateBands = Table{
	{TierExcellent, 48000, inf},
	{TierGood, 44100, 47999},
	{TierAcceptable, 32000, 44099},
	{TierPoor, 0, 31999},
}

var bitRateBands = map[string]Table{
	CodecMP3: {
		{TierExcellent, 320000, inf},
		{TierGood, 256000, 319999},
		{TierAcceptable, 192000, 255999},
		{TierPoor, 0, 191999},
	},
	CodecAAC: {
		{TierExcellent, 256000, inf},
		{TierGood, 192000, 255999},
		{TierAcceptable, 128000, 191999},
		{TierPoor, 0, 127999},
	},
	// lossless and unrecognised codecs
	CodecDefault: {
		{TierExcellent, 1000000, inf},
		{TierGood, 500000, 999999},
		{TierAcceptable, 200000, 499999},
		{TierPoor, 0, 199999},
	},
}

// Streaming level beats the broadcast band; high and very_high share -14.
var loudnessBands = Table{
	{TierOptimal, -18, -16},
	{TierExcellent, -23, -19},
	{TierGood, -27, -24},
	{TierHigh, -16, -14},
	{TierLow, -35, -28},
	{TierVeryHigh, -14, inf},
	{TierVeryLow, -inf, -35},
}

var lraBands = Table{
	{TierExcellentWide, 15, 25},
	{TierExcellentMedium, 7, 14},
	{TierGood, 4, 6},
	{TierAcceptable, 2, 3},
	{TierPoor, 0, 1},
}

var truePeakBands = Table{
	{TierExcellent, -inf, -3.0},
	{TierGood, -3.0, -1.0},
	{TierAcceptableLow, -1.0, -0.1},
	{TierAcceptableHigh, -0.1, 0.0},
	{TierPoor, 0.0, inf},
}

var dcOffsetBands = Table{
	{TierExcellent, 0.0, 0.001},
	{TierGood, 0.001, 0.01},
	{TierAcceptable, 0.01, 0.05},
	{TierPoor, 0.05, inf},
}

var tierScores = map[Tier]int{
	TierExcellent:       100,
	TierOptimal:         100,
	TierExcellentWide:   100,
	TierExcellentMedium: 100,
	TierGood:            85,
	TierHigh:            75,
	TierLow:             75,
	TierAcceptable:      70,
	TierAcceptableLow:   70,
	TierAcceptableHigh:  70,
	TierPoor:            scorePoor,
	TierVeryHigh:        30,
	TierVeryLow:         30,
}

var tierMarkers = map[Tier]Marker{
	TierExcellent:       MarkerPass,
	TierOptimal:         MarkerPass,
	TierExcellentWide:   MarkerPass,
	TierExcellentMedium: MarkerPass,
	TierGood:            MarkerPass,
	TierAcceptable:      MarkerCaution,
	TierHigh:            MarkerCaution,
	TierLow:             MarkerCaution,
	TierAcceptableLow:   MarkerCaution,
	TierAcceptableHigh:  MarkerCaution,
	TierPoor:            MarkerFail,
	TierVeryHigh:        MarkerFail,
	TierVeryLow:         MarkerFail,
}

// DefaultWeights returns the stock relative importance of each metric.
func DefaultWeights() map[Metric]float64 {
	return map[Metric]float64{
		MetricSampleRate: 0.15,
		MetricBitRate:    0.25,
		MetricLoudness:   0.20,
		MetricLRA:        0.15,
		MetricTruePeak:   0.15,
		MetricDCOffset:   0.10,
	}
}

// Tables is the read-only scoring configuration. Build it once at startup
// and share it between goroutines.
type Tables struct {
	bands   map[Metric]Table
	bitRate map[string]Table
	weights map[Metric]float64
}

var defaultTables = mustTables(nil)

// DefaultTables returns the stock scoring configuration.
func DefaultTables() *Tables {
	return defaultTables
}

// NewTables builds scoring tables, applying weight overrides keyed by metric
// name on top of the defaults. The resulting weights must be non-negative and
// sum to 1.
func NewTables(weightOverrides map[string]float64) (*Tables, error) {
	weights := DefaultWeights()
	for name, value := range weightOverrides {
		metric, ok := ParseMetric(name)
		if !ok {
			return nil, fmt.Errorf("scoring weight: unknown metric %q", name)
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("scoring weight %s: must be a non-negative number, got %v", metric, value)
		}
		weights[metric] = value
	}
	var total float64
	for _, metric := range Metrics {
		total += weights[metric]
	}
	if math.Abs(total-1.0) > weightEpsilon {
		return nil, fmt.Errorf("scoring weights must sum to 1.0, got %.4f", total)
	}
	return &Tables{
		bands: map[Metric]Table{
			MetricSampleRate: sampleRateBands,
			MetricLoudness:   loudnessBands,
			MetricLRA:        lraBands,
			MetricTruePeak:   truePeakBands,
			MetricDCOffset:   dcOffsetBands,
		},
		bitRate: bitRateBands,
		weights: weights,
	}, nil
}

func mustTables(overrides map[string]float64) *Tables {
	t, err := NewTables(overrides)
	if err != nil {
		panic(errors.Join(errors.New("default scoring tables invalid"), err))
	}
	return t
}

// ScoreFor returns the sub-score of a tier, or a neutral 50 for an
// unrecognised tier.
func (t *Tables) ScoreFor(tier Tier) int {
	if score, ok := tierScores[tier]; ok {
		return score
	}
	return scoreNeutral
}

// MarkerFor returns the severity marker of a tier.
func (t *Tables) MarkerFor(tier Tier) Marker {
	if marker, ok := tierMarkers[tier]; ok {
		return marker
	}
	return MarkerUnknown
}

// Weight returns the configured weight of metric.
func (t *Tables) Weight(metric Metric) float64 {
	return t.weights[metric]
}
