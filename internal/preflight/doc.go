// Package preflight provides readiness checks that run before an analysis
// touches any candidate file.
//
// The analyze command calls RunAll and aborts when a check fails, so a run
// never starts without its tools or without room for its artifacts. The
// "deps" command reuses CheckSystemDeps for its status table.
package preflight
