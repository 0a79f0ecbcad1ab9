// Package card holds the domain types shared across the resolution pipeline:
// the immutable extracted-field input produced upstream by OCR/ML, the fuzzy
// candidate record, the tagged candidate source, and the evidence signals
// attached to scored candidates.
package card
