// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes a previously captured ffprobe JSON payload
//
// Numeric fields arrive as strings; the accessors report whether a usable
// value was present so callers can tell "absent" from "zero".
package ffprobe
