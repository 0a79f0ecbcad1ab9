package card

// Strength tiers an evidence signal for operator display.
type Strength string

const (
	StrengthStrong Strength = "strong"
	StrengthMedium Strength = "medium"
	StrengthWeak   Strength = "weak"
)

// EvidenceSignal is one human-readable piece of support for a scored match.
// Signals are append-only and explanatory: re-scoring never reads them.
type EvidenceSignal struct {
	Key      string
	Strength Strength
	Detail   string
}
