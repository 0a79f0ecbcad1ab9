// Package catalog implements the curated canonical card catalog backed by
// SQLite.
//
// Rows store display fields alongside normalized mirror columns computed at
// write time; queries compare normalized values only, so the exact-match path
// is a composite-index lookup with a reused prepared statement. The package
// also owns the alias table (card-level and name-level aliases) and the
// health check that verifies the required indexes exist and a sample lookup
// completes inside the configured latency budget.
package catalog
