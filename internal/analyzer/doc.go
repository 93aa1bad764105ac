// Package analyzer runs the measurement pipeline over a set of candidate
// files and collects one record per file into a session.
//
// Files are measured concurrently by a bounded worker pool. Each worker
// probes the container, runs the loudness and statistics filters, writes
// the raw tool output next to the other per-file artifacts, optionally
// exports an A/B listening fragment, and evaluates the merged measurement.
// A failure in one file becomes a failed record and never aborts the run.
// The session is frozen once every worker has returned.
package analyzer
