// Package resolver implements the deterministic exact-match resolver over
// the normalized canonical catalog.
//
// Resolution is a precedence ladder of rules evaluated first-match-wins:
// card-level alias, exact triplet, name-level alias, name+set, name+number,
// name only. Each rule yields a categorical verdict with a fixed confidence
// and appends human-readable evidence describing what was compared. Store
// failures never propagate: they degrade the result to UNCERTAIN with the
// failure recorded in evidence.
package resolver
