// Package stage defines the shared health record reported by pipeline
// components with external dependencies (catalog, corpus, card-search API).
package stage

import "time"

// Health summarizes the readiness of a pipeline component.
type Health struct {
	Name    string
	Ready   bool
	Detail  string
	Latency time.Duration
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
