package scorer

import (
	"strings"

	"carddex/internal/card"
	"carddex/internal/normalize"
)

// variantSuffixes are the modern mechanic suffixes that distinguish e.g.
// "Charizard" from "Charizard VMAX". A suffix mismatch between extracted and
// candidate names is a strong hint the products differ.
var variantSuffixes = map[string]struct{}{
	"v":     {},
	"ex":    {},
	"gx":    {},
	"vmax":  {},
	"vstar": {},
}

func hasVariantSuffix(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	_, ok := variantSuffixes[tokens[len(tokens)-1]]
	return ok
}

// detectFirstEdition reports whether a product name carries a first-edition
// marker.
func detectFirstEdition(productName string) bool {
	normalized := normalize.Text(productName)
	return strings.Contains(normalized, "1st edition") || strings.Contains(normalized, "first edition")
}

// detectShadowless reports whether a product name carries a shadowless
// marker.
func detectShadowless(productName string) bool {
	return strings.Contains(normalize.Text(productName), "shadowless")
}

// detectHolo extracts the holographic marker from a product name. Returns
// HoloUnknown when no marker is present.
func detectHolo(productName string) card.HoloType {
	normalized := normalize.Text(productName)
	switch {
	case strings.Contains(normalized, "reverse holo"):
		return card.HoloReverse
	case strings.Contains(normalized, "holo"):
		return card.HoloStandard
	default:
		return card.HoloUnknown
	}
}
