package quality

import (
	"fmt"
	"strconv"
)

// Problem is a human-readable defect found in one file.
type Problem struct {
	Metric  Metric `json:"metric" yaml:"metric"`
	Marker  Marker `json:"marker" yaml:"marker"`
	Message string `json:"message" yaml:"message"`
}

func (p Problem) String() string {
	return p.Message
}

type problemRule struct {
	metric Metric
	tiers  []Tier
	build  func(raw RawMeasurement, tier Tier) string
}

// problemRules run independently and in this order; report consumers rely on
// the order for display.
var problemRules = []problemRule{
	{
		metric: MetricSampleRate,
		tiers:  []Tier{TierPoor},
		build: func(raw RawMeasurement, _ Tier) string {
			return fmt.Sprintf("sample rate too low: %dHz", derefInt(raw.SampleRateHz))
		},
	},
	{
		metric: MetricBitRate,
		tiers:  []Tier{TierPoor},
		build: func(raw RawMeasurement, _ Tier) string {
			return fmt.Sprintf("bit rate too low: %dkbps", derefInt(raw.BitRateBps)/1000)
		},
	},
	{
		metric: MetricLoudness,
		tiers:  []Tier{TierVeryHigh, TierVeryLow},
		build: func(raw RawMeasurement, tier Tier) string {
			lufs := FormatNumber(derefFloat(raw.IntegratedLoudness))
			if tier == TierVeryHigh {
				return fmt.Sprintf("loudness too high: %s LUFS (possible limiting)", lufs)
			}
			return fmt.Sprintf("loudness too low: %s LUFS (possible recording problems)", lufs)
		},
	},
	{
		metric: MetricTruePeak,
		tiers:  []Tier{TierPoor},
		build: func(raw RawMeasurement, _ Tier) string {
			return fmt.Sprintf("true peak clipping: %s dBFS", FormatNumber(derefFloat(raw.TruePeak)))
		},
	},
	{
		metric: MetricDCOffset,
		tiers:  []Tier{TierPoor},
		build: func(raw RawMeasurement, _ Tier) string {
			return fmt.Sprintf("DC offset too high: %s", FormatNumber(derefFloat(raw.DCOffset)))
		},
	},
	{
		metric: MetricLRA,
		tiers:  []Tier{TierPoor},
		build: func(raw RawMeasurement, _ Tier) string {
			return fmt.Sprintf("dynamic range too limited: %s LU", FormatNumber(derefFloat(raw.LoudnessRange)))
		},
	},
}

// Detect returns every problem whose rule matches, in rule order rather than
// severity order.
func Detect(raw RawMeasurement, in Interpretations) []Problem {
	var problems []Problem
	for _, rule := range problemRules {
		interp, ok := in[rule.metric]
		if !ok || !tierIn(interp.Tier, rule.tiers) {
			continue
		}
		problems = append(problems, Problem{
			Metric:  rule.metric,
			Marker:  interp.Marker,
			Message: rule.build(raw, interp.Tier),
		})
	}
	return problems
}

// Messages flattens problems into their display strings.
func Messages(problems []Problem) []string {
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.Message)
	}
	return out
}

// FormatNumber renders a float without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tierIn(tier Tier, set []Tier) bool {
	for _, candidate := range set {
		if candidate == tier {
			return true
		}
	}
	return false
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
