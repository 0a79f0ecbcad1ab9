package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCorpus(); err != nil {
		return err
	}
	c.normalizeCardSearch()
	c.normalizeTriangulation()
	c.normalizeRetrieval()
	c.normalizeCatalog()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCorpus() error {
	c.Corpus.SeedPath = strings.TrimSpace(c.Corpus.SeedPath)
	if c.Corpus.SeedPath == "" {
		return nil
	}
	expanded, err := expandPath(c.Corpus.SeedPath)
	if err != nil {
		return fmt.Errorf("corpus.seed_path: %w", err)
	}
	c.Corpus.SeedPath = expanded
	return nil
}

func (c *Config) normalizeCardSearch() {
	if c.CardSearch.APIKey == "" {
		if value, ok := os.LookupEnv("CARD_SEARCH_API_KEY"); ok {
			c.CardSearch.APIKey = strings.TrimSpace(value)
		}
	}
	c.CardSearch.BaseURL = strings.TrimRight(strings.TrimSpace(c.CardSearch.BaseURL), "/")
	if c.CardSearch.BaseURL == "" {
		c.CardSearch.BaseURL = defaultCardSearchBaseURL
	}
	if c.CardSearch.ResultLimit <= 0 {
		c.CardSearch.ResultLimit = defaultCardSearchResultLimit
	}
	if c.CardSearch.TimeoutMs <= 0 {
		c.CardSearch.TimeoutMs = defaultCardSearchTimeoutMs
	}
	if c.CardSearch.QuotaWarnFraction <= 0 {
		c.CardSearch.QuotaWarnFraction = defaultQuotaWarnFraction
	}
}

func (c *Config) normalizeTriangulation() {
	if c.Triangulation.MinSignalCount <= 0 {
		c.Triangulation.MinSignalCount = defaultMinSignalCount
	}
	if c.Triangulation.HardFilterThreshold <= 0 {
		c.Triangulation.HardFilterThreshold = defaultHardFilterThreshold
	}
	if c.Triangulation.SoftRerankThreshold <= 0 {
		c.Triangulation.SoftRerankThreshold = defaultSoftRerankThreshold
	}
}

func (c *Config) normalizeRetrieval() {
	if c.Retrieval.CandidateLimit <= 0 {
		c.Retrieval.CandidateLimit = defaultCandidateLimit
	}
	if c.Retrieval.UnmatchedThreshold <= 0 {
		c.Retrieval.UnmatchedThreshold = defaultUnmatchedThreshold
	}
	if c.Retrieval.EvidenceCacheSize <= 0 {
		c.Retrieval.EvidenceCacheSize = defaultEvidenceCacheSize
	}
}

func (c *Config) normalizeCatalog() {
	if c.Catalog.HealthLatencyBudgetMs <= 0 {
		c.Catalog.HealthLatencyBudgetMs = defaultHealthLatencyBudgetMs
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
