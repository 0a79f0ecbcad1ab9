// Package triangulate disambiguates which printed set a card belongs to.
//
// It queries an external card-search collaborator by card name, then filters
// the returned candidates against the extracted signals using a two-tier
// policy. When both card number and set total are present they form a strict
// filter that bypasses weaker signals entirely; otherwise candidates must
// agree on a configured minimum count of {number, set total, rarity, card
// type, HP, artist}. Surviving candidates are grouped by set identity and
// scored into a confidence, which maps to a caller-facing action: hard_filter,
// soft_rerank, or discard. Collaborator failures never escalate; they yield a
// skipped result so the caller can continue without a set hint.
package triangulate
