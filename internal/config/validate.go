package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCardSearch(); err != nil {
		return err
	}
	if err := c.validateTriangulation(); err != nil {
		return err
	}
	if err := c.validateRetrieval(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCardSearch() error {
	if c.CardSearch.BaseURL == "" {
		return errors.New("card_search.base_url must be set")
	}
	if c.CardSearch.QuotaWarnFraction <= 0 || c.CardSearch.QuotaWarnFraction >= 1 {
		return errors.New("card_search.quota_warn_fraction must be between 0 and 1")
	}
	if err := ensurePositiveMap(map[string]int{
		"card_search.result_limit": c.CardSearch.ResultLimit,
		"card_search.timeout_ms":   c.CardSearch.TimeoutMs,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTriangulation() error {
	if c.Triangulation.MinSignalCount < 1 {
		return errors.New("triangulation.min_signal_count must be at least 1")
	}
	if c.Triangulation.HardFilterThreshold <= 0 || c.Triangulation.HardFilterThreshold > 1 {
		return errors.New("triangulation.hard_filter_threshold must be between 0 and 1")
	}
	if c.Triangulation.SoftRerankThreshold <= 0 || c.Triangulation.SoftRerankThreshold > 1 {
		return errors.New("triangulation.soft_rerank_threshold must be between 0 and 1")
	}
	if c.Triangulation.SoftRerankThreshold >= c.Triangulation.HardFilterThreshold {
		return errors.New("triangulation.soft_rerank_threshold must be below triangulation.hard_filter_threshold")
	}
	return nil
}

func (c *Config) validateRetrieval() error {
	if c.Retrieval.UnmatchedThreshold <= 0 || c.Retrieval.UnmatchedThreshold > 1 {
		return errors.New("retrieval.unmatched_threshold must be between 0 and 1")
	}
	if err := ensurePositiveMap(map[string]int{
		"retrieval.candidate_limit":     c.Retrieval.CandidateLimit,
		"retrieval.evidence_cache_size": c.Retrieval.EvidenceCacheSize,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
