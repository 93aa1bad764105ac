package measure

import (
	"log/slog"
	"regexp"
	"strings"

	"dubscore/internal/quality"
)

var (
	integratedPattern = regexp.MustCompile(`I:\s*(-?\d+\.?\d*)\s*LUFS`)
	lraPattern        = regexp.MustCompile(`LRA:\s*(\d+\.?\d*)\s*LU`)
	truePeakPattern   = regexp.MustCompile(`Peak:\s*(-?\d+\.?\d*)\s*dBFS`)

	rmsPattern          = regexp.MustCompile(`RMS level dB:\s*(-?\d+\.?\d*)`)
	peakLevelPattern    = regexp.MustCompile(`Peak level dB:\s*(-?\d+\.?\d*)`)
	dcOffsetPattern     = regexp.MustCompile(`DC offset:\s*(-?\d+\.?\d*)`)
	dynamicRangePattern = regexp.MustCompile(`Dynamic range:\s*(\d+\.?\d*)`)
)

// ParseLoudnessSummary reads integrated loudness, loudness range, and true
// peak from the "Summary:" block that ffmpeg's ebur128 filter prints on
// stderr. Output without a summary yields an empty measurement.
func ParseLoudnessSummary(text string, logger *slog.Logger) quality.RawMeasurement {
	_, summary, found := strings.Cut(text, "Summary:")
	if !found {
		return quality.RawMeasurement{}
	}
	// The summary ends where the next filter-prefixed log line begins.
	if idx := strings.Index(summary, "["); idx >= 0 {
		summary = summary[:idx]
	}

	coerce := coercer{logger: logger, source: "ebur128"}
	var raw quality.RawMeasurement
	if v, ok := match(integratedPattern, summary); ok {
		raw.IntegratedLoudness = quality.Float(coerce.float("integrated", v))
	}
	if v, ok := match(lraPattern, summary); ok {
		raw.LoudnessRange = quality.Float(coerce.float("lra", v))
	}
	if v, ok := match(truePeakPattern, summary); ok {
		raw.TruePeak = quality.Float(coerce.float("true_peak", v))
	}
	return raw
}

// ParseAstats reads RMS level, peak level, DC offset, and dynamic range from
// ffmpeg astats output. Values from the "Overall" block win over the
// per-channel ones when it is present.
func ParseAstats(text string, logger *slog.Logger) quality.RawMeasurement {
	coerce := coercer{logger: logger, source: "astats"}
	overall := ""
	if idx := strings.Index(text, "Overall"); idx >= 0 {
		overall = text[idx:]
	}
	lookup := func(pattern *regexp.Regexp) (string, bool) {
		if overall != "" {
			if v, ok := match(pattern, overall); ok {
				return v, true
			}
		}
		return match(pattern, text)
	}

	var raw quality.RawMeasurement
	if v, ok := lookup(rmsPattern); ok {
		raw.RMSLevel = quality.Float(coerce.float("rms_level", v))
	}
	if v, ok := lookup(peakLevelPattern); ok {
		raw.PeakLevel = quality.Float(coerce.float("peak_level", v))
	}
	if v, ok := lookup(dcOffsetPattern); ok {
		raw.DCOffset = quality.Float(coerce.float("dc_offset", v))
	}
	if v, ok := lookup(dynamicRangePattern); ok {
		raw.DynamicRange = quality.Float(coerce.float("dynamic_range", v))
	}
	return raw
}

func match(pattern *regexp.Regexp, text string) (string, bool) {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
