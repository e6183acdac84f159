// Package services defines shared utilities consumed by the QR pipeline and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and template IDs for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into a consistent taxonomy (validation, summarization, decode,
//     generation) the boundary can turn into user-facing messages.
//
// Use these helpers when wiring new components so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
