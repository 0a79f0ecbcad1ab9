package card

// HoloType enumerates the holographic treatments OCR can report.
type HoloType string

const (
	HoloUnknown  HoloType = ""
	HoloNone     HoloType = "non-holo"
	HoloStandard HoloType = "holo"
	HoloReverse  HoloType = "reverse-holo"
)

// ExtractedFields is the upstream OCR/ML output describing a physical card.
// It is an immutable input: the resolution core never mutates it.
type ExtractedFields struct {
	Name      string
	SetName   string
	SetNumber string // raw, e.g. "083/165"

	FirstEdition bool
	Shadowless   bool
	HoloType     HoloType

	Rarity   string
	CardType string
	HP       string
	Artist   string
}

// HasName reports whether a usable card name was extracted.
func (e ExtractedFields) HasName() bool {
	return len(e.Name) > 0
}
