// Package retrieval orchestrates candidate retrieval and evidence assembly.
//
// GetCandidates searches the canonical catalog first when it is enabled,
// falls back to the larger ingested corpus, and as a last resort synthesizes
// a single low-confidence placeholder from the extracted name. Every pool is
// ranked by the candidate scorer; a high-confidence set hint from
// triangulation may boost candidates whose set name matches it exactly.
//
// ExplainCandidates rehydrates a job's stored top-N candidate ids from
// whichever store produced them, re-runs scoring, and assembles an evidence
// bundle: primary verdict, per-field checklist, sibling deltas, and
// contextual alerts. Bundles are cached under a content-derived key so a
// scorer or corpus version bump invalidates stale evidence.
package retrieval
