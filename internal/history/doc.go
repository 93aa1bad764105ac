// Package history persists finished analysis sessions in SQLite so past
// comparisons can be listed and their reports re-rendered.
//
// The database holds one row per session (with its summary statistics
// denormalized for listing) and one row per file record. Measurements,
// interpretations, and problems are stored as JSON blobs. The schema is
// versioned; a mismatched database must be deleted or moved aside.
package history
