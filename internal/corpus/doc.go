// Package corpus implements the bulk fallback corpus queried when the
// canonical catalog has no match.
//
// The corpus is a SQLite mirror of a third-party sales database: larger and
// noisier than the catalog, with product names that embed variant markers and
// sometimes National-Dex numbers. Ingestion is idempotent and guarded by a
// single in-flight future so concurrent callers share one load instead of
// racing duplicates.
package corpus
