package retrieval

import "sync/atomic"

// Telemetry holds the orchestrator's monotonically-incrementing counters.
// Counters are owned by the service instance rather than package globals so
// each orchestrator has an explicit lifecycle and tests stay isolated.
type Telemetry struct {
	canonicalHit         atomic.Uint64
	corpusFallback       atomic.Uint64
	canonicalUnavailable atomic.Uint64
	boostSaturation      atomic.Uint64
}

// NewTelemetry returns zeroed counters.
func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

// TelemetrySnapshot is a point-in-time copy of the counters.
type TelemetrySnapshot struct {
	CanonicalHit         uint64 `json:"canonical_hit"`
	CorpusFallback       uint64 `json:"corpus_fallback"`
	CanonicalUnavailable uint64 `json:"canonical_unavailable"`
	BoostSaturation      uint64 `json:"boost_saturation"`
}

// Snapshot copies the current counter values.
func (t *Telemetry) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		CanonicalHit:         t.canonicalHit.Load(),
		CorpusFallback:       t.corpusFallback.Load(),
		CanonicalUnavailable: t.canonicalUnavailable.Load(),
		BoostSaturation:      t.boostSaturation.Load(),
	}
}
