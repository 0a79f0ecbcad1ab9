// Package logging assembles the structured slog loggers used across carddex.
//
// It owns the console/JSON handler setup, centralizes level and output
// plumbing, and exposes context-aware helpers so resolution code can tag log
// lines with scan-job identifiers and correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
