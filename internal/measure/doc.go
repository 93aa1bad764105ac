// Package measure acquires raw audio measurements for one candidate file.
//
// Runner shells out to ffprobe and ffmpeg (ebur128 and astats filters, plus
// the A/B fragment export). The parsers turn each tool's output into a
// partial quality.RawMeasurement; partials are combined with
// RawMeasurement.Merge. Missing sections yield empty partials rather than
// errors, and placeholder or malformed numbers coerce to zero.
package measure
