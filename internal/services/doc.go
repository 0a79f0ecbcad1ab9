// Package services defines shared utilities consumed by the resolution
// components and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp scan-job IDs, pipeline phase names, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across components.
//
// Use these helpers when wiring new resolution logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
