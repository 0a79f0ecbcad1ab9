package triangulate

import (
	"carddex/internal/card"
	"carddex/internal/normalize"
)

// Signals carries the extracted fields consulted during triangulation. Name
// is required; everything else is optional and only counted when present.
type Signals struct {
	Name     string
	Number   string // numerator, leading zeros stripped
	SetTotal string // denominator, kept as printed
	Rarity   string
	CardType string
	HP       string
	Artist   string
	// Shadowless is nil when the extractor made no determination.
	Shadowless *bool
}

// SignalsFromExtracted derives triangulation signals from extracted fields,
// splitting the raw set number into its numerator and denominator.
func SignalsFromExtracted(fields card.ExtractedFields) Signals {
	sig := Signals{
		Name:     fields.Name,
		Rarity:   fields.Rarity,
		CardType: fields.CardType,
		HP:       fields.HP,
		Artist:   fields.Artist,
	}
	if fields.SetNumber != "" {
		number, total, ok := normalize.NumberParts(fields.SetNumber)
		if ok {
			sig.Number = number
			sig.SetTotal = total
		} else {
			sig.Number = fields.SetNumber
		}
	}
	if fields.Shadowless {
		shadowless := true
		sig.Shadowless = &shadowless
	}
	return sig
}
