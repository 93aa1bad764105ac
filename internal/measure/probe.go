package measure

import (
	"log/slog"
	"strings"

	"dubscore/internal/logging"
	"dubscore/internal/media/ffprobe"
	"dubscore/internal/quality"
)

// FromProbe extracts stream-level facts from the first audio stream. The
// stream bit rate falls back to the container bit rate when it is missing or
// zero. It returns false when the file has no audio stream.
func FromProbe(result ffprobe.Result, logger *slog.Logger) (quality.RawMeasurement, bool) {
	stream, ok := result.FirstAudio()
	if !ok {
		return quality.RawMeasurement{}, false
	}
	coerce := coercer{logger: logger, source: "ffprobe"}

	codec := strings.TrimSpace(stream.CodecName)
	if codec == "" {
		codec = "unknown"
	}
	bitRate := coerce.integer("bit_rate", stream.BitRate)
	if bitRate == 0 {
		bitRate = coerce.integer("format.bit_rate", result.Format.BitRate)
	}
	duration := coerce.float("duration", stream.Duration)
	if duration == 0 {
		duration = coerce.float("format.duration", result.Format.Duration)
	}

	raw := quality.RawMeasurement{
		Codec:           quality.String(codec),
		SampleRateHz:    quality.Int(coerce.integer("sample_rate", stream.SampleRate)),
		Channels:        quality.Int(int64(stream.Channels)),
		BitRateBps:      quality.Int(bitRate),
		DurationSeconds: quality.Float(duration),
	}
	if name := strings.TrimSpace(result.Format.FormatName); name != "" {
		raw.FormatName = quality.String(name)
	}
	return raw, true
}

// coercer applies ParseFloat/ParseInt and logs malformed tokens at debug.
type coercer struct {
	logger *slog.Logger
	source string
}

func (c coercer) float(field, value string) float64 {
	v, err := ParseFloat(value)
	if err != nil {
		c.report(field, err)
	}
	return v
}

func (c coercer) integer(field, value string) int64 {
	v, err := ParseInt(value)
	if err != nil {
		c.report(field, err)
	}
	return v
}

func (c coercer) report(field string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Debug("coerced malformed value to zero",
		logging.String("source", c.source),
		logging.String("field", field),
		logging.Error(err),
	)
}
