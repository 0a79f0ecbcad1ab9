package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if !cfg.Catalog.Enabled {
		t.Fatal("expected catalog enabled by default")
	}
	if cfg.Retrieval.UnmatchedThreshold != 0.70 {
		t.Fatalf("expected default unmatched threshold 0.70, got %f", cfg.Retrieval.UnmatchedThreshold)
	}
	if cfg.Triangulation.MinSignalCount != 2 {
		t.Fatalf("expected default min signal count 2, got %d", cfg.Triangulation.MinSignalCount)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"

[triangulation]
min_signal_count = 3
hard_filter_threshold = 0.9
soft_rerank_threshold = 0.5

[retrieval]
candidate_limit = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Triangulation.MinSignalCount != 3 {
		t.Fatalf("expected min signal count 3, got %d", cfg.Triangulation.MinSignalCount)
	}
	if cfg.Retrieval.CandidateLimit != 10 {
		t.Fatalf("expected candidate limit 10, got %d", cfg.Retrieval.CandidateLimit)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("expected expanded data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.Triangulation.SoftRerankThreshold = 0.95
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for soft >= hard threshold")
	}
	if !strings.Contains(err.Error(), "soft_rerank_threshold") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadQuotaFraction(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.CardSearch.QuotaWarnFraction = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for quota_warn_fraction above 1")
	}
}

func TestCardSearchAPIKeyFromEnv(t *testing.T) {
	t.Setenv("CARD_SEARCH_API_KEY", "  secret-key  ")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.CardSearch.APIKey != "secret-key" {
		t.Fatalf("expected trimmed env key, got %q", cfg.CardSearch.APIKey)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	expanded, err := ExpandPath("~/carddex-test")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if expanded != filepath.Join(home, "carddex-test") {
		t.Fatalf("expected home expansion, got %q", expanded)
	}
}

func TestDBPathsDerivedFromDataDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/tmp/carddex"
	if cfg.CatalogDBPath() != "/tmp/carddex/catalog.db" {
		t.Fatalf("unexpected catalog path %q", cfg.CatalogDBPath())
	}
	if cfg.CorpusDBPath() != "/tmp/carddex/corpus.db" {
		t.Fatalf("unexpected corpus path %q", cfg.CorpusDBPath())
	}
}
