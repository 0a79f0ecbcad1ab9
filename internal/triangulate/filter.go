package triangulate

import (
	"strconv"
	"strings"

	"carddex/internal/normalize"
	"carddex/internal/triangulate/tcgapi"
)

// countSignals reports how many of the optional query signals agree with the
// candidate. Name agreement is not counted; the search itself is name-based.
func countSignals(sig Signals, c tcgapi.Card) int {
	count := 0
	if numberMatches(sig, c) {
		count++
	}
	if totalMatches(sig, c) {
		count++
	}
	if rarityMatches(sig.Rarity, c.Rarity) {
		count++
	}
	if typeMatches(sig.CardType, c.Supertype) {
		count++
	}
	if hpMatches(sig, c) {
		count++
	}
	if artistMatches(sig.Artist, c.Artist) {
		count++
	}
	return count
}

// strictMatch requires exact agreement on both card number and set total. The
// pair is discriminative enough to bypass every weaker signal.
func strictMatch(sig Signals, c tcgapi.Card) bool {
	return numberMatches(sig, c) && totalMatches(sig, c)
}

func numberMatches(sig Signals, c tcgapi.Card) bool {
	if sig.Number == "" || c.Number == "" {
		return false
	}
	return normalize.CardNumber(sig.Number) == normalize.CardNumber(c.Number)
}

func totalMatches(sig Signals, c tcgapi.Card) bool {
	if sig.SetTotal == "" {
		return false
	}
	want, err := strconv.Atoi(strings.TrimSpace(sig.SetTotal))
	if err != nil || want <= 0 {
		return false
	}
	return c.Set.PrintedTotal == want || c.Set.Total == want
}

func rarityMatches(query, candidate string) bool {
	q := normalize.Text(query)
	c := normalize.Text(candidate)
	if q == "" || c == "" {
		return false
	}
	return strings.Contains(c, q) || strings.Contains(q, c)
}

func typeMatches(query, candidate string) bool {
	q := normalize.Text(query)
	c := normalize.Text(candidate)
	if q == "" || c == "" {
		return false
	}
	return q == c
}

// hpMatches tolerates a +/-10 OCR misread, but only for card types that
// actually print HP. Trainer and Energy cards carry no HP, so a numeric field
// on either side is noise there.
func hpMatches(sig Signals, c tcgapi.Card) bool {
	if looksTrainerOrEnergy(sig.CardType) || looksTrainerOrEnergy(c.Supertype) {
		return false
	}
	queryHP, err := strconv.Atoi(strings.TrimSpace(sig.HP))
	if err != nil || queryHP <= 0 {
		return false
	}
	candidateHP, err := strconv.Atoi(strings.TrimSpace(c.HP))
	if err != nil || candidateHP <= 0 {
		return false
	}
	delta := queryHP - candidateHP
	if delta < 0 {
		delta = -delta
	}
	return delta <= 10
}

func looksTrainerOrEnergy(cardType string) bool {
	t := normalize.Text(cardType)
	return strings.Contains(t, "trainer") || strings.Contains(t, "energy")
}

func artistMatches(query, candidate string) bool {
	q := normalize.Text(query)
	c := normalize.Text(candidate)
	if q == "" || c == "" {
		return false
	}
	if len(q) >= 4 && (strings.Contains(c, q) || strings.Contains(q, c)) {
		return true
	}
	return lastToken(q) != "" && lastToken(q) == lastToken(c)
}

func lastToken(value string) string {
	tokens := normalize.Tokens(value)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}
