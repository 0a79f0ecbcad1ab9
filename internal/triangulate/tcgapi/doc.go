// Package tcgapi provides the minimal card-search API client used during set
// triangulation.
//
// It exposes a single name-based card search bounded by a result limit, with
// an optional API key for higher rate limits. Responses carry the matched
// cards plus the provider's quota status so callers can warn before credits
// run out. Options allow tests to supply custom HTTP clients without
// modifying production code.
package tcgapi
