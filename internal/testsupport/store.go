package testsupport

import (
	"context"
	"testing"

	"carddex/internal/catalog"
	"carddex/internal/config"
	"carddex/internal/corpus"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenCorpus opens a corpus.Store for tests and registers cleanup.
func MustOpenCorpus(t testing.TB, cfg *config.Config) *corpus.Store {
	t.Helper()

	store, err := corpus.Open(cfg)
	if err != nil {
		t.Fatalf("corpus.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedCard inserts a catalog row for tests using the provided store.
func SeedCard(t testing.TB, store *catalog.Store, c catalog.Card) {
	t.Helper()

	if err := store.InsertCard(context.Background(), c); err != nil {
		t.Fatalf("store.InsertCard(%s): %v", c.ID, err)
	}
}

// SeedAlias inserts a catalog alias row for tests.
func SeedAlias(t testing.TB, store *catalog.Store, a catalog.Alias) {
	t.Helper()

	if err := store.InsertAlias(context.Background(), a); err != nil {
		t.Fatalf("store.InsertAlias(%s): %v", a.Alias, err)
	}
}
