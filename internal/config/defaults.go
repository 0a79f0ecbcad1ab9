package config

const (
	defaultDataDir               = "~/.local/share/carddex/data"
	defaultLogDir                = "~/.local/share/carddex/logs"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultCardSearchBaseURL     = "https://api.pokemontcg.io/v2"
	defaultCardSearchResultLimit = 25
	defaultCardSearchTimeoutMs   = 4000
	defaultQuotaWarnFraction     = 0.1
	defaultMinSignalCount        = 2
	defaultHardFilterThreshold   = 0.85
	defaultSoftRerankThreshold   = 0.60
	defaultCandidateLimit        = 5
	defaultUnmatchedThreshold    = 0.70
	defaultEvidenceCacheSize     = 256
	defaultHealthLatencyBudgetMs = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			Enabled:               true,
			HealthLatencyBudgetMs: defaultHealthLatencyBudgetMs,
		},
		CardSearch: CardSearch{
			BaseURL:           defaultCardSearchBaseURL,
			ResultLimit:       defaultCardSearchResultLimit,
			TimeoutMs:         defaultCardSearchTimeoutMs,
			QuotaWarnFraction: defaultQuotaWarnFraction,
		},
		Triangulation: Triangulation{
			MinSignalCount:      defaultMinSignalCount,
			HardFilterThreshold: defaultHardFilterThreshold,
			SoftRerankThreshold: defaultSoftRerankThreshold,
		},
		Retrieval: Retrieval{
			CandidateLimit:     defaultCandidateLimit,
			UnmatchedThreshold: defaultUnmatchedThreshold,
			EvidenceCacheSize:  defaultEvidenceCacheSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
