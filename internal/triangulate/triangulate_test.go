package triangulate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"carddex/internal/card"
	"carddex/internal/config"
	"carddex/internal/triangulate"
	"carddex/internal/triangulate/tcgapi"
)

type stubSearcher struct {
	cards []tcgapi.Card
	quota tcgapi.QuotaStatus
	err   error
	delay time.Duration
	calls int
}

func (s *stubSearcher) SearchByName(ctx context.Context, name string, limit int) (*tcgapi.SearchResponse, error) {
	s.calls++
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &tcgapi.SearchResponse{Cards: s.cards, Quota: s.quota, CreditsUsed: 1}, nil
}

func newTriangulator(t *testing.T, searcher tcgapi.Searcher) (*triangulate.Triangulator, *config.Config) {
	t.Helper()
	cfg := config.Default()
	return triangulate.New(searcher, &cfg, nil), &cfg
}

func TestTriangulateSkipsShortName(t *testing.T) {
	searcher := &stubSearcher{}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{Name: "ab"})
	if result.Action != triangulate.ActionSkipped {
		t.Fatalf("expected skipped, got %s", result.Action)
	}
	if searcher.calls != 0 {
		t.Fatalf("expected no search call for unusable name, got %d", searcher.calls)
	}
}

func TestTriangulateSkipsOnSearchFailure(t *testing.T) {
	tri, _ := newTriangulator(t, &stubSearcher{err: errors.New("timeout")})

	result := tri.Triangulate(context.Background(), triangulate.Signals{Name: "Charizard"})
	if result.Action != triangulate.ActionSkipped {
		t.Fatalf("expected skipped on collaborator failure, got %s", result.Action)
	}
	if result.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", result.Confidence)
	}
}

func TestStrictNumberTotalResolvesSingleSet(t *testing.T) {
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:     "base1-4",
			Name:   "Charizard",
			Number: "4",
			Set:    tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
		{
			ID:     "base4-4",
			Name:   "Charizard",
			Number: "4",
			Set:    tcgapi.Set{ID: "base4", Name: "Base Set 2", PrintedTotal: 130},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Charizard",
		Number:   "4",
		SetTotal: "102",
	})
	if result.SetID != "base1" {
		t.Fatalf("expected base1, got %q (%s)", result.SetID, result.Reason)
	}
	if result.Confidence < 0.775 {
		t.Fatalf("expected confidence >= 0.775, got %f", result.Confidence)
	}
	if result.Action != triangulate.ActionHardFilter && result.Action != triangulate.ActionSoftRerank {
		t.Fatalf("expected usable action, got %s", result.Action)
	}
	if !result.Resolved() {
		t.Fatal("expected a resolved set identity")
	}
}

func TestStrictFilterBypassesWeakSignals(t *testing.T) {
	// The wrong-set candidate agrees on every weak signal; the right-set
	// candidate agrees only on number and total. Strict filtering must win.
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "base4-4",
			Name:      "Charizard",
			Number:    "4",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			HP:        "120",
			Artist:    "Mitsuhiro Arita",
			Set:       tcgapi.Set{ID: "base4", Name: "Base Set 2", PrintedTotal: 130},
		},
		{
			ID:     "base1-4",
			Name:   "Charizard",
			Number: "4",
			Set:    tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Charizard",
		Number:   "4",
		SetTotal: "102",
		Rarity:   "Rare Holo",
		CardType: "Pokemon",
		HP:       "120",
		Artist:   "Mitsuhiro Arita",
	})
	if result.SetID != "base1" {
		t.Fatalf("strict filter should pick base1, got %q (%s)", result.SetID, result.Reason)
	}
}

func TestFourSignalsEarnTopTier(t *testing.T) {
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "base1-4",
			Name:      "Charizard",
			Number:    "4",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Charizard",
		Number:   "4",
		SetTotal: "102",
		Rarity:   "Rare Holo",
		CardType: "Pokemon",
	})
	if result.MatchedSignals != 4 {
		t.Fatalf("expected 4 matched signals, got %d", result.MatchedSignals)
	}
	if result.Confidence != 0.95 {
		t.Fatalf("expected 0.95 confidence, got %f", result.Confidence)
	}
	if result.Action != triangulate.ActionHardFilter {
		t.Fatalf("expected hard_filter, got %s", result.Action)
	}
}

func TestFallbackFilterRequiresMinimumSignals(t *testing.T) {
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "base1-4",
			Name:      "Charizard",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
		{
			ID:        "ex3-100",
			Name:      "Charizard",
			Rarity:    "Common",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "ex3", Name: "Dragon", PrintedTotal: 97},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Charizard",
		Rarity:   "Rare Holo",
		CardType: "Pokemon",
	})
	if result.SetID != "base1" {
		t.Fatalf("expected base1 after fallback filtering, got %q (%s)", result.SetID, result.Reason)
	}
	if result.Confidence != 0.775 {
		t.Fatalf("expected baseline tier for 2 signals, got %f", result.Confidence)
	}
	if result.Action != triangulate.ActionSoftRerank {
		t.Fatalf("expected soft_rerank, got %s", result.Action)
	}
}

func TestHPSignalIgnoredForTrainerCards(t *testing.T) {
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "base1-91",
			Name:      "Bill",
			Supertype: "Trainer",
			HP:        "100",
			Set:       tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	// Type agreement alone is one signal; the HP coincidence must not count
	// as a second one for a Trainer card.
	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Bill",
		CardType: "Trainer",
		HP:       "100",
	})
	if result.Action != triangulate.ActionDiscard {
		t.Fatalf("expected discard when only one real signal agrees, got %s", result.Action)
	}
	if result.SetID != "" {
		t.Fatalf("expected no set identity, got %q", result.SetID)
	}
}

func TestSharedSetConfidence(t *testing.T) {
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "base1-4",
			Name:      "Charizard",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
		{
			ID:        "base1-4a",
			Name:      "Charizard",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Charizard",
		Rarity:   "Rare Holo",
		CardType: "Pokemon",
	})
	if result.Confidence != 0.85 {
		t.Fatalf("expected shared-set confidence 0.85, got %f", result.Confidence)
	}
	if result.Action != triangulate.ActionHardFilter {
		t.Fatalf("expected hard_filter at the default threshold, got %s", result.Action)
	}
}

func TestShadowlessDisambiguation(t *testing.T) {
	shadowless := true
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "base1-4",
			Name:      "Charizard",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
		{
			ID:        "base1s-4",
			Name:      "Charizard",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base1s", Name: "Base (Shadowless)", PrintedTotal: 102},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:       "Charizard",
		Rarity:     "Rare Holo",
		CardType:   "Pokemon",
		Shadowless: &shadowless,
	})
	if result.SetID != "base1s" {
		t.Fatalf("expected shadowless set, got %q (%s)", result.SetID, result.Reason)
	}
	if result.Confidence != 0.85 {
		t.Fatalf("expected 0.85 after disambiguation, got %f", result.Confidence)
	}
}

func TestAmbiguousSetsListCandidates(t *testing.T) {
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "base1-4",
			Name:      "Charizard",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
		},
		{
			ID:        "base4-4",
			Name:      "Charizard",
			Rarity:    "Rare Holo",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "base4", Name: "Base Set 2", PrintedTotal: 130},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Charizard",
		Rarity:   "Rare Holo",
		CardType: "Pokemon",
	})
	if result.Confidence != 0.50 {
		t.Fatalf("expected ambiguous confidence 0.50, got %f", result.Confidence)
	}
	if result.Action != triangulate.ActionDiscard {
		t.Fatalf("expected discard below soft threshold, got %s", result.Action)
	}
	if len(result.CandidateSets) != 2 {
		t.Fatalf("expected 2 candidate sets, got %d", len(result.CandidateSets))
	}
	if result.UniqueSets != 2 || result.Candidates != 2 {
		t.Fatalf("expected 2 candidates across 2 sets, got %d/%d", result.Candidates, result.UniqueSets)
	}
	if result.SetID != "" {
		t.Fatalf("expected no settled set, got %q", result.SetID)
	}
}

func TestNoSurvivorsDiscard(t *testing.T) {
	searcher := &stubSearcher{cards: []tcgapi.Card{
		{
			ID:        "ex3-100",
			Name:      "Charizard",
			Rarity:    "Common",
			Supertype: "Pokemon",
			Set:       tcgapi.Set{ID: "ex3", Name: "Dragon", PrintedTotal: 97},
		},
	}}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:   "Charizard",
		Rarity: "Rare Holo",
	})
	if result.Action != triangulate.ActionDiscard {
		t.Fatalf("expected discard, got %s", result.Action)
	}
	if result.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", result.Confidence)
	}
}

func TestSignalsFromExtractedSplitsNumber(t *testing.T) {
	shadowlessCases := []struct {
		fields     card.ExtractedFields
		number     string
		total      string
		shadowless bool
	}{
		{card.ExtractedFields{Name: "Charizard", SetNumber: "004/102"}, "4", "102", false},
		{card.ExtractedFields{Name: "Mew", SetNumber: "SWSH039"}, "39", "", false},
		{card.ExtractedFields{Name: "Charizard", SetNumber: "4/102", Shadowless: true}, "4", "102", true},
	}
	for _, tc := range shadowlessCases {
		sig := triangulate.SignalsFromExtracted(tc.fields)
		if sig.Number != tc.number || sig.SetTotal != tc.total {
			t.Fatalf("SignalsFromExtracted(%q) = (%q, %q), want (%q, %q)",
				tc.fields.SetNumber, sig.Number, sig.SetTotal, tc.number, tc.total)
		}
		if tc.shadowless && (sig.Shadowless == nil || !*sig.Shadowless) {
			t.Fatalf("expected shadowless signal for %q", tc.fields.SetNumber)
		}
		if !tc.shadowless && sig.Shadowless != nil {
			t.Fatalf("expected nil shadowless signal for %q", tc.fields.SetNumber)
		}
	}
}

func TestResultCarriesSearchAccounting(t *testing.T) {
	searcher := &stubSearcher{
		delay: time.Millisecond,
		cards: []tcgapi.Card{
			{
				ID:     "base1-4",
				Name:   "Charizard",
				Number: "4",
				Set:    tcgapi.Set{ID: "base1", Name: "Base", PrintedTotal: 102},
			},
			{
				ID:     "base4-4",
				Name:   "Charizard",
				Number: "4",
				Set:    tcgapi.Set{ID: "base4", Name: "Base Set 2", PrintedTotal: 130},
			},
		},
	}
	tri, _ := newTriangulator(t, searcher)

	result := tri.Triangulate(context.Background(), triangulate.Signals{
		Name:     "Charizard",
		Number:   "4",
		SetTotal: "102",
	})
	if result.Candidates != 1 {
		t.Fatalf("expected 1 surviving candidate, got %d", result.Candidates)
	}
	if result.UniqueSets != 1 {
		t.Fatalf("expected 1 unique set, got %d", result.UniqueSets)
	}
	if result.CreditsUsed != 1 {
		t.Fatalf("expected 1 credit consumed, got %d", result.CreditsUsed)
	}
	if result.Latency <= 0 {
		t.Fatalf("expected positive search latency, got %v", result.Latency)
	}
}

func TestSkippedSearchReportsNoAccounting(t *testing.T) {
	tri, _ := newTriangulator(t, &stubSearcher{})

	result := tri.Triangulate(context.Background(), triangulate.Signals{Name: "ab"})
	if result.CreditsUsed != 0 || result.Latency != 0 {
		t.Fatalf("expected zero accounting for skipped search, got credits=%d latency=%v",
			result.CreditsUsed, result.Latency)
	}
}
