package scorer

import (
	"math"
	"testing"

	"carddex/internal/card"
	"carddex/internal/logging"
)

func newTestScorer(dex DexLookup) *Scorer {
	return New(dex, logging.NewNop())
}

func TestScoreExactNameAndNumber(t *testing.T) {
	s := newTestScorer(nil)
	extracted := card.ExtractedFields{Name: "Charizard", SetNumber: "4/102"}
	candidate := card.Candidate{Name: "Charizard", Number: "004/102", SetTotal: "102"}

	score := s.Score(extracted, candidate)
	// name exact 0.50 + number 0.35 + total 0.12
	want := 0.50 + 0.35 + 0.12
	if math.Abs(score-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, score)
	}
}

func TestExplainNeverDivergesFromScore(t *testing.T) {
	s := newTestScorer(func(name, number string) bool { return number == "6" })
	extracted := []card.ExtractedFields{
		{Name: "Charizard", SetNumber: "4/102"},
		{Name: "Charizard VMAX", SetNumber: "20/189", FirstEdition: true, HoloType: card.HoloStandard},
		{Name: "Pikachu", Shadowless: true},
		{},
	}
	candidates := []card.Candidate{
		{Name: "Charizard Holo", Number: "4/102", SetTotal: "102", ReleaseYear: 1999, SalesVolume: 300},
		{Name: "Charizard", Number: "6", ReleaseYear: 2020},
		{Name: "Pikachu Shadowless 1st Edition", SalesVolume: 900},
		{Name: ""},
	}
	for _, e := range extracted {
		for _, c := range candidates {
			score := s.Score(e, c)
			explained := s.Explain(e, c)
			if score != explained.Score {
				t.Fatalf("score %f != explain score %f for e=%+v c=%+v", score, explained.Score, e, c)
			}
		}
	}
}

func TestScoreFloorForHopelessCandidates(t *testing.T) {
	s := newTestScorer(nil)
	score := s.Score(card.ExtractedFields{Name: "Charizard"}, card.Candidate{Name: "Trainer Deck B"})
	if score != 0.05 {
		t.Fatalf("expected floor 0.05, got %f", score)
	}
}

func TestNationalDexCollisionNotPenalized(t *testing.T) {
	dex := func(productName, number string) bool { return number == "6" }
	s := newTestScorer(dex)

	extracted := card.ExtractedFields{Name: "Charizard", SetNumber: "4/102"}
	collided := card.Candidate{Name: "Charizard #6", Number: "6"}
	plain := card.Candidate{Name: "Charizard #9", Number: "9"}

	collidedScore := s.Score(extracted, collided)
	plainScore := s.Score(extracted, plain)
	if collidedScore <= plainScore {
		t.Fatalf("dex collision should outscore a plain mismatch: %f vs %f", collidedScore, plainScore)
	}

	explained := s.Explain(extracted, collided)
	found := false
	for _, sig := range explained.Signals {
		if sig.Key == "national_dex_collision" {
			found = true
			if sig.Strength != card.StrengthStrong {
				t.Fatalf("dex collision should be strong, got %s", sig.Strength)
			}
		}
	}
	if !found {
		t.Fatal("expected national_dex_collision signal in explanation")
	}
}

func TestSuffixMismatchReplacesSubstringBonus(t *testing.T) {
	s := newTestScorer(nil)
	extracted := card.ExtractedFields{Name: "Charizard"}
	variant := card.Candidate{Name: "Charizard VMAX"}
	exact := card.Candidate{Name: "Charizard"}

	variantScore := s.Score(extracted, variant)
	exactScore := s.Score(extracted, exact)
	if variantScore >= exactScore {
		t.Fatalf("suffix-mismatched candidate must score below exact match: %f vs %f", variantScore, exactScore)
	}
	// Overlap is 1/2 (one of the two candidate tokens matches), so the
	// mismatch contribution is 0.5*0.15, well below the 0.35 substring bonus.
	if variantScore > 0.05+0.5*0.15+1e-9 {
		t.Fatalf("expected suffix-mismatch path, got %f", variantScore)
	}
}

func TestVariantBoostsRequirePositiveAgreement(t *testing.T) {
	s := newTestScorer(nil)

	// Extracted says first edition, candidate name carries no marker: no boost.
	base := s.Score(card.ExtractedFields{Name: "Pikachu"}, card.Candidate{Name: "Pikachu"})
	noMarker := s.Score(card.ExtractedFields{Name: "Pikachu", FirstEdition: true}, card.Candidate{Name: "Pikachu"})
	if noMarker != base {
		t.Fatalf("missing marker must not score as agreement: %f vs %f", noMarker, base)
	}

	withMarker := s.Score(card.ExtractedFields{Name: "Pikachu", FirstEdition: true}, card.Candidate{Name: "Pikachu 1st Edition"})
	if withMarker <= noMarker {
		t.Fatalf("expected first-edition boost, got %f vs %f", withMarker, noMarker)
	}
}

func TestHoloAbsenceAgreement(t *testing.T) {
	s := newTestScorer(nil)
	base := s.Score(card.ExtractedFields{Name: "Pikachu"}, card.Candidate{Name: "Pikachu"})
	nonHolo := s.Score(card.ExtractedFields{Name: "Pikachu", HoloType: card.HoloNone}, card.Candidate{Name: "Pikachu"})
	if nonHolo <= base {
		t.Fatal("expected non-holo expectation with no marker to count as agreement")
	}
}

func TestReleaseYearPriorFavorsMidEra(t *testing.T) {
	s := newTestScorer(nil)
	extracted := card.ExtractedFields{Name: "Mew"}
	mid := s.Score(extracted, card.Candidate{Name: "Mew", ReleaseYear: 2000})
	old := s.Score(extracted, card.Candidate{Name: "Mew", ReleaseYear: 1970})
	if mid <= old {
		t.Fatalf("expected year 2000 to outscore 1970: %f vs %f", mid, old)
	}
	// ReleaseYear < 1970 contributes nothing; 1970 contributes zero after the
	// cap, so the two scores tie.
	ancient := s.Score(extracted, card.Candidate{Name: "Mew", ReleaseYear: 1969})
	if ancient != old {
		t.Fatalf("expected pre-1970 and 1970 to tie at zero prior: %f vs %f", ancient, old)
	}
}

func TestSalesVolumeCap(t *testing.T) {
	s := newTestScorer(nil)
	extracted := card.ExtractedFields{Name: "Mew"}
	modest := s.Score(extracted, card.Candidate{Name: "Mew", SalesVolume: 25})
	huge := s.Score(extracted, card.Candidate{Name: "Mew", SalesVolume: 50000})
	capped := s.Score(extracted, card.Candidate{Name: "Mew", SalesVolume: 500})
	if huge != capped {
		t.Fatalf("sales bonus must cap at 0.10: %f vs %f", huge, capped)
	}
	if modest >= huge {
		t.Fatalf("expected higher volume to score higher below cap: %f vs %f", modest, huge)
	}
}

func TestSaturationCounter(t *testing.T) {
	s := newTestScorer(nil)
	extracted := card.ExtractedFields{
		Name:         "Charizard Holo Shadowless 1st Edition",
		SetNumber:    "4/102",
		FirstEdition: true,
		Shadowless:   true,
		HoloType:     card.HoloStandard,
	}
	candidate := card.Candidate{
		Name:        "Charizard Holo Shadowless 1st Edition",
		Number:      "4/102",
		SetTotal:    "102",
		ReleaseYear: 1999,
		SalesVolume: 5000,
	}
	score := s.Score(extracted, candidate)
	if score != 1.0 {
		t.Fatalf("expected clamp to 1.0, got %f", score)
	}
	if s.SaturationCount() != 1 {
		t.Fatalf("expected saturation count 1, got %d", s.SaturationCount())
	}
}
