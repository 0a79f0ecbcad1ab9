package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carddex/internal/catalog"
	"carddex/internal/logging"
	"carddex/internal/testsupport"
)

func openSeededStore(t *testing.T) *catalog.Store {
	t.Helper()
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))

	cards := []catalog.Card{
		{ID: "base1-4", Name: "Charizard", SetName: "Base Set", CardNumber: "4/102", SetTotal: "102"},
		{ID: "base2-4", Name: "Charizard", SetName: "Base Set 2", CardNumber: "4/130", SetTotal: "130"},
		{ID: "jungle-60", Name: "Pikachu", SetName: "Jungle", CardNumber: "60/64", SetTotal: "64"},
	}
	for _, c := range cards {
		testsupport.SeedCard(t, store, c)
	}
	testsupport.SeedAlias(t, store, catalog.Alias{Alias: "zard base 4", CardID: "base1-4"})
	testsupport.SeedAlias(t, store, catalog.Alias{Alias: "pikachu jungle", CanonicalName: "pikachu"})
	return store
}

func TestExactTripletCertain(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.ExactMatch(context.Background(), Query{Name: "Charizard", Set: "Base Set", Number: "004/102"})
	if result.Verdict != VerdictCertain {
		t.Fatalf("expected CERTAIN, got %s (%v)", result.Verdict, result.Evidence)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", result.Confidence)
	}
	if result.Card == nil || result.Card.ID != "base1-4" {
		t.Fatalf("expected base1-4, got %+v", result.Card)
	}
	joined := strings.Join(result.Evidence, "; ")
	for _, want := range []string{"charizard", "base set", "4"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("evidence %q does not cite %q", joined, want)
		}
	}
}

func TestCardAliasWinsOverTriplet(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.Resolve(context.Background(), "Zard Base 4")
	if result.Verdict != VerdictCertain || result.Confidence != 1.0 {
		t.Fatalf("expected CERTAIN 1.0 from card alias, got %s %f", result.Verdict, result.Confidence)
	}
	if result.Card == nil || result.Card.ID != "base1-4" {
		t.Fatalf("expected base1-4 via alias, got %+v", result.Card)
	}
}

func TestNameAliasCertain(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.ExactMatch(context.Background(), Query{Name: "Pikachu Jungle"})
	if result.Verdict != VerdictCertain {
		t.Fatalf("expected CERTAIN via name alias, got %s (%v)", result.Verdict, result.Evidence)
	}
	if result.Confidence != 0.98 {
		t.Fatalf("expected confidence 0.98, got %f", result.Confidence)
	}
}

func TestNameOnlyMultipleAlternatives(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.ExactMatch(context.Background(), Query{Name: "Charizard"})
	if result.Verdict != VerdictMultiple {
		t.Fatalf("expected MULTIPLE, got %s", result.Verdict)
	}
	if result.Confidence != 0.60 {
		t.Fatalf("expected confidence 0.60, got %f", result.Confidence)
	}
	if len(result.Alternatives) != 2 {
		t.Fatalf("expected exactly 2 alternatives, got %d", len(result.Alternatives))
	}
}

func TestNameSetLikely(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.ExactMatch(context.Background(), Query{Name: "Charizard", Set: "Base Set 2"})
	if result.Verdict != VerdictLikely || result.Confidence != 0.98 {
		t.Fatalf("expected LIKELY 0.98, got %s %f", result.Verdict, result.Confidence)
	}
	if result.Card == nil || result.Card.ID != "base2-4" {
		t.Fatalf("expected base2-4, got %+v", result.Card)
	}
}

func TestNameNumberDisambiguation(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.ExactMatch(context.Background(), Query{Name: "Pikachu", Number: "060"})
	if result.Verdict != VerdictLikely || result.Confidence != 0.96 {
		t.Fatalf("expected LIKELY 0.96, got %s %f", result.Verdict, result.Confidence)
	}
}

func TestNoInputUncertain(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.ExactMatch(context.Background(), Query{})
	if result.Verdict != VerdictUncertain || result.Confidence != 0 {
		t.Fatalf("expected UNCERTAIN 0, got %s %f", result.Verdict, result.Confidence)
	}
	if len(result.Evidence) == 0 {
		t.Fatal("expected evidence explaining the empty query")
	}
}

func TestNoMatchUncertain(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())

	result := r.ExactMatch(context.Background(), Query{Name: "Missingno"})
	if result.Verdict != VerdictUncertain {
		t.Fatalf("expected UNCERTAIN, got %s", result.Verdict)
	}
}

type failingCatalog struct{}

var errStoreDown = errors.New("database is locked")

func (failingCatalog) LookupCardAlias(context.Context, string) (string, error) {
	return "", errStoreDown
}
func (failingCatalog) LookupNameAlias(context.Context, string) (string, error) {
	return "", errStoreDown
}
func (failingCatalog) GetByID(context.Context, string) (*catalog.Card, error) {
	return nil, errStoreDown
}
func (failingCatalog) FindByTriplet(context.Context, string, string, string) ([]catalog.Card, error) {
	return nil, errStoreDown
}
func (failingCatalog) FindByNameSet(context.Context, string, string) ([]catalog.Card, error) {
	return nil, errStoreDown
}
func (failingCatalog) FindByNameNumber(context.Context, string, string) ([]catalog.Card, error) {
	return nil, errStoreDown
}
func (failingCatalog) FindByName(context.Context, string) ([]catalog.Card, error) {
	return nil, errStoreDown
}

func TestStoreFailureNeverPropagates(t *testing.T) {
	r := New(failingCatalog{}, logging.NewNop())

	result := r.Resolve(context.Background(), "Charizard Base Set 4/102")
	if result.Verdict != VerdictUncertain || result.Confidence != 0 {
		t.Fatalf("expected UNCERTAIN 0 on store failure, got %s %f", result.Verdict, result.Confidence)
	}
	joined := strings.Join(result.Evidence, "; ")
	if !strings.Contains(joined, "catalog error") {
		t.Fatalf("expected evidence recording the store failure, got %q", joined)
	}
}

func TestRulePrecedenceOrder(t *testing.T) {
	r := New(openSeededStore(t), logging.NewNop())
	want := []string{"card_alias", "triplet", "name_alias", "name_set", "name_number", "name_only"}
	got := r.Rules()
	if len(got) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rule %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
