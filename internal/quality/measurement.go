package quality

// RawMeasurement holds the measurements collected for one file. A nil field
// was never measured and is skipped by interpretation and scoring.
type RawMeasurement struct {
	Codec              *string  `json:"codec,omitempty" yaml:"codec,omitempty"`
	FormatName         *string  `json:"format_name,omitempty" yaml:"format_name,omitempty"`
	SampleRateHz       *int64   `json:"sample_rate_hz,omitempty" yaml:"sample_rate_hz,omitempty"`
	Channels           *int64   `json:"channels,omitempty" yaml:"channels,omitempty"`
	BitRateBps         *int64   `json:"bit_rate_bps,omitempty" yaml:"bit_rate_bps,omitempty"`
	DurationSeconds    *float64 `json:"duration_s,omitempty" yaml:"duration_s,omitempty"`
	IntegratedLoudness *float64 `json:"integrated_loudness_lufs,omitempty" yaml:"integrated_loudness_lufs,omitempty"`
	LoudnessRange      *float64 `json:"loudness_range_lu,omitempty" yaml:"loudness_range_lu,omitempty"`
	TruePeak           *float64 `json:"true_peak_dbfs,omitempty" yaml:"true_peak_dbfs,omitempty"`
	DCOffset           *float64 `json:"dc_offset,omitempty" yaml:"dc_offset,omitempty"`
	RMSLevel           *float64 `json:"rms_level_db,omitempty" yaml:"rms_level_db,omitempty"`
	PeakLevel          *float64 `json:"peak_level_db,omitempty" yaml:"peak_level_db,omitempty"`
	DynamicRange       *float64 `json:"dynamic_range_db,omitempty" yaml:"dynamic_range_db,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Merge returns a copy of r with every field present in other taking
// precedence.
func (r RawMeasurement) Merge(other RawMeasurement) RawMeasurement {
	out := r
	mergeString(&out.Codec, other.Codec)
	mergeString(&out.FormatName, other.FormatName)
	mergeInt(&out.SampleRateHz, other.SampleRateHz)
	mergeInt(&out.Channels, other.Channels)
	mergeInt(&out.BitRateBps, other.BitRateBps)
	mergeFloat(&out.DurationSeconds, other.DurationSeconds)
	mergeFloat(&out.IntegratedLoudness, other.IntegratedLoudness)
	mergeFloat(&out.LoudnessRange, other.LoudnessRange)
	mergeFloat(&out.TruePeak, other.TruePeak)
	mergeFloat(&out.DCOffset, other.DCOffset)
	mergeFloat(&out.RMSLevel, other.RMSLevel)
	mergeFloat(&out.PeakLevel, other.PeakLevel)
	mergeFloat(&out.DynamicRange, other.DynamicRange)
	return out
}

// Value returns the scalar used to classify metric and whether it is present.
// Bit rate additionally requires a codec.
func (r RawMeasurement) Value(metric Metric) (float64, bool) {
	switch metric {
	case MetricSampleRate:
		return intValue(r.SampleRateHz)
	case MetricBitRate:
		if r.Codec == nil {
			return 0, false
		}
		return intValue(r.BitRateBps)
	case MetricLoudness:
		return floatValue(r.IntegratedLoudness)
	case MetricLRA:
		return floatValue(r.LoudnessRange)
	case MetricTruePeak:
		return floatValue(r.TruePeak)
	case MetricDCOffset:
		return floatValue(r.DCOffset)
	default:
		return 0, false
	}
}

// CodecName returns the codec or "unknown".
func (r RawMeasurement) CodecName() string {
	if r.Codec == nil || *r.Codec == "" {
		return "unknown"
	}
	return *r.Codec
}

// IsEmpty reports whether nothing at all was measured.
func (r RawMeasurement) IsEmpty() bool {
	return r == RawMeasurement{}
}

func mergeString(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeInt(dst **int64, src *int64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func intValue(v *int64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

func floatValue(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
