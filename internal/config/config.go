package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Catalog contains configuration for the curated canonical catalog.
type Catalog struct {
	Enabled bool `toml:"enabled"`
	// HealthLatencyBudgetMs is the ceiling for the health-check sample query.
	HealthLatencyBudgetMs int `toml:"health_latency_budget_ms"`
}

// Corpus contains configuration for the fallback corpus database.
type Corpus struct {
	// SeedPath is an optional JSONL file ingested on first use.
	SeedPath string `toml:"seed_path"`
}

// CardSearch contains configuration for the external card-search API used by
// set triangulation.
type CardSearch struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	// ResultLimit bounds how many candidates a name search may return.
	ResultLimit int `toml:"result_limit"`
	// TimeoutMs bounds a single search call end to end.
	TimeoutMs int `toml:"timeout_ms"`
	// QuotaWarnFraction triggers a non-blocking warning when remaining API
	// credits drop below this fraction of the plan total.
	QuotaWarnFraction float64 `toml:"quota_warn_fraction"`
}

// Triangulation contains thresholds for set triangulation decisions.
type Triangulation struct {
	MinSignalCount      int     `toml:"min_signal_count"`
	HardFilterThreshold float64 `toml:"hard_filter_threshold"`
	SoftRerankThreshold float64 `toml:"soft_rerank_threshold"`
}

// Retrieval contains configuration for candidate retrieval and evidence.
type Retrieval struct {
	// CandidateLimit is the default top-N returned by candidate retrieval.
	CandidateLimit int `toml:"candidate_limit"`
	// UnmatchedThreshold marks a job unmatched when every candidate scores
	// below it.
	UnmatchedThreshold float64 `toml:"unmatched_threshold"`
	// EvidenceCacheSize bounds the in-memory LRU of evidence bundles.
	EvidenceCacheSize int `toml:"evidence_cache_size"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for carddex.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Catalog: canonical catalog toggles and health budget
//   - Corpus: fallback corpus seeding
//   - CardSearch: external card-search API connection and quota
//   - Triangulation: signal-count and confidence thresholds
//   - Retrieval: candidate limits, unmatched threshold, evidence cache
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Catalog       Catalog       `toml:"catalog"`
	Corpus        Corpus        `toml:"corpus"`
	CardSearch    CardSearch    `toml:"card_search"`
	Triangulation Triangulation `toml:"triangulation"`
	Retrieval     Retrieval     `toml:"retrieval"`
	Logging       Logging       `toml:"logging"`
}

// LogDir returns the normalized log directory.
func (c *Config) LogDir() string { return c.Paths.LogDir }

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string { return c.Logging.Level }

// LogFormat returns the configured log format.
func (c *Config) LogFormat() string { return c.Logging.Format }

// CatalogDBPath returns the sqlite path for the canonical catalog.
func (c *Config) CatalogDBPath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

// CorpusDBPath returns the sqlite path for the fallback corpus.
func (c *Config) CorpusDBPath() string {
	return filepath.Join(c.Paths.DataDir, "corpus.db")
}

// IngestLockPath returns the flock path guarding corpus ingestion.
func (c *Config) IngestLockPath() string {
	return filepath.Join(c.Paths.DataDir, "ingest.lock")
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/carddex/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("carddex.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories carddex needs to operate.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
