package catalog

import (
	"carddex/internal/card"
	"carddex/internal/normalize"
)

// Card is one canonical catalog row. The normalized mirror fields are
// computed once at write time and never recomputed at query time.
type Card struct {
	ID         string
	Name       string
	SetName    string
	CardNumber string

	NormalizedName   string
	NormalizedSet    string
	NormalizedNumber string

	SetTotal    string
	ReleaseYear int
	SalesVolume float64
}

// Normalized returns a copy with the mirror fields recomputed from the
// display fields. Insert paths call this so the write-time invariant holds.
func (c Card) Normalized() Card {
	c.NormalizedName = normalize.Text(c.Name)
	c.NormalizedSet = normalize.Text(c.SetName)
	c.NormalizedNumber = normalize.CardNumber(c.CardNumber)
	return c
}

// Candidate converts a catalog row into the fuzzy-path candidate shape.
func (c Card) Candidate() card.Candidate {
	return card.Candidate{
		ID:          c.ID,
		Source:      card.SourceCanonical,
		Name:        c.Name,
		SetName:     c.SetName,
		ReleaseYear: c.ReleaseYear,
		SalesVolume: c.SalesVolume,
		Number:      c.CardNumber,
		SetTotal:    c.SetTotal,
	}
}

// Alias maps a normalized alias string to either a card id (card-level) or a
// canonical normalized name (name-level). Exactly one side is set.
type Alias struct {
	Alias         string
	CardID        string
	CanonicalName string
}
