// Package scorer ranks fuzzy catalog candidates against OCR-extracted card
// fields.
//
// Scoring is additive across independent signal groups (name, set number,
// set total, release-year prior, sales volume, variant markers) and clamped
// to [0.05, 1.0]; the floor guarantees fallback candidates are never
// zero-confidence. Explain delegates to the same accumulation as Score, so
// the numeric score and the evidence trail can never diverge. Variant boosts
// only reward positive agreement: a missing marker on the candidate side is
// never scored as a match unless the extracted fields explicitly expect
// absence.
package scorer
