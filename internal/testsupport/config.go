package testsupport

import (
	"path/filepath"
	"testing"

	"carddex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.CardSearch.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithCatalogDisabled turns off the canonical catalog on the test config.
func WithCatalogDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Catalog.Enabled = false
	}
}

// WithSeedPath points corpus ingestion at the supplied JSONL file.
func WithSeedPath(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Corpus.SeedPath = path
	}
}
