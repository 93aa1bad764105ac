package measure

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed marks a numeric token that was present but unparseable.
var ErrMalformed = errors.New("malformed numeric value")

// ParseFloat coerces a tool-reported number. Placeholders ("", "N/A", "nan")
// yield 0 with no error; unparseable text yields 0 and ErrMalformed so the
// caller can log it.
func ParseFloat(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	if isPlaceholder(cleaned) {
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	return parsed, nil
}

// ParseInt coerces an integer count. Fractional input is truncated, the way
// ffprobe's "48000.000" style values are meant.
func ParseInt(value string) (int64, error) {
	parsed, err := ParseFloat(value)
	if err != nil {
		return 0, err
	}
	return int64(parsed), nil
}

func isPlaceholder(value string) bool {
	switch strings.ToLower(value) {
	case "", "n/a", "nan":
		return true
	}
	return false
}
