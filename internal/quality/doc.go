// Package quality interprets raw acoustic measurements and scores them.
//
// It owns the rule tables that classify each measurement axis into a named
// tier, the weighted aggregation of per-axis sub-scores into one overall
// score, and the problem heuristics that describe defects in plain language.
//
// Key types:
//   - RawMeasurement: sparse measurement record; nil fields were never measured
//   - Band/Table: ordered inclusive intervals evaluated first-match-wins
//   - Tables: the scoring configuration (bands, sub-scores, markers, weights)
//   - Interpretation: tier, severity marker, and sub-score for one metric
//   - Record: everything known about one candidate file after evaluation
//
// Primary entry points:
//   - Tables.Classify: one value on one axis
//   - Tables.Interpret: every present axis of a RawMeasurement
//   - Tables.Aggregate: weighted overall score over present axes
//   - Detect: ordered problem list
//   - Tables.Evaluate: all of the above bundled into a Record
//
// Band order inside a Table is policy. Loudness bands overlap on purpose and
// the first declared band containing a value wins, so tables must never be
// sorted or rebuilt from maps.
//
// Everything here is pure and safe for concurrent use once a Tables value is
// constructed.
package quality
