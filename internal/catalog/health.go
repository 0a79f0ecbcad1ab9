package catalog

import (
	"context"
	"fmt"
	"time"

	"carddex/internal/stage"
)

// requiredIndexes are the composite indexes the resolution ladder depends on.
// Missing any of them turns exact lookups into table scans.
var requiredIndexes = []string{
	"idx_cards_triplet",
	"idx_cards_name_set",
	"idx_cards_name_number",
	"idx_cards_name",
}

// Health verifies the required indexes exist and that a sample triplet query
// completes inside the latency budget. Failures degrade the status, they do
// not error: a missing index is a contract violation surfaced to operators,
// not a crash.
func (s *Store) Health(ctx context.Context, latencyBudget time.Duration) stage.Health {
	const name = "catalog"

	for _, index := range requiredIndexes {
		var count int
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM sqlite_master WHERE type='index' AND name=?", index,
		).Scan(&count)
		if err != nil {
			return stage.Unhealthy(name, fmt.Sprintf("index check failed: %v", err))
		}
		if count == 0 {
			return stage.Unhealthy(name, fmt.Sprintf("required index %s missing", index))
		}
	}

	start := time.Now()
	if _, err := s.FindByTriplet(ctx, "charizard", "base set", "4"); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("sample query failed: %v", err))
	}
	elapsed := time.Since(start)

	health := stage.Healthy(name)
	health.Latency = elapsed
	if latencyBudget > 0 && elapsed > latencyBudget {
		return stage.Health{
			Name:    name,
			Ready:   false,
			Detail:  fmt.Sprintf("sample query took %v, budget %v", elapsed, latencyBudget),
			Latency: elapsed,
		}
	}
	return health
}
