// Package services defines shared utilities consumed by the analysis stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, file names, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the short reason strings stored on failed records.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
