package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dubscore/internal/quality"
)

func techSummary(raw quality.RawMeasurement, path string) string {
	var b strings.Builder
	b.WriteString("Technical Information\n")
	b.WriteString("=====================\n\n")
	fmt.Fprintf(&b, "File: %s\n", path)
	fmt.Fprintf(&b, "Codec: %s\n", raw.CodecName())
	if raw.FormatName != nil {
		fmt.Fprintf(&b, "Container: %s\n", *raw.FormatName)
	}
	fmt.Fprintf(&b, "Sample Rate: %s\n", intField(raw.SampleRateHz, "Hz"))
	fmt.Fprintf(&b, "Channels: %s\n", intField(raw.Channels, ""))
	fmt.Fprintf(&b, "Bit Rate: %s\n", intField(raw.BitRateBps, "bps"))
	if raw.DurationSeconds != nil {
		fmt.Fprintf(&b, "Duration: %s s\n", quality.FormatNumber(*raw.DurationSeconds))
	}
	fmt.Fprintf(&b, "\nGenerated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	return b.String()
}

func intField(v *int64, suffix string) string {
	if v == nil {
		return "N/A"
	}
	if suffix == "" {
		return fmt.Sprintf("%d", *v)
	}
	return fmt.Sprintf("%d %s", *v, suffix)
}

func indentJSON(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return data
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
