// Package logging assembles structured slog loggers and formatting helpers used
// across dubscore.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so analysis code can tag log
// lines with the session ID, the file being measured, and the measurement
// stage. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging
