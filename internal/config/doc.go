// Package config loads, normalizes, and validates carddex configuration.
//
// Configuration is TOML on disk with environment-variable fallbacks for
// secrets. Load applies three passes: decode over defaults, normalization
// (path expansion, trimming, defaulting), then validation. Every tunable the
// resolution pipeline consumes (triangulation thresholds, search limits,
// timeouts, scoring cutoffs) lives here rather than as package constants.
package config
