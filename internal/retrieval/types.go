package retrieval

import (
	"context"

	"carddex/internal/card"
)

// CandidateSearcher is the read side of a candidate store.
type CandidateSearcher interface {
	Search(ctx context.Context, extracted card.ExtractedFields, limit int) ([]card.Candidate, error)
	GetManyByIDsOrdered(ctx context.Context, ids []string) ([]card.Candidate, error)
}

// CorpusStore is a candidate store whose data is loaded lazily. EnsureIngested
// is idempotent and safe to call from concurrent requests.
type CorpusStore interface {
	CandidateSearcher
	EnsureIngested(ctx context.Context) error
}

// SetHint carries a triangulated set identity into candidate ranking.
type SetHint struct {
	SetName    string
	Confidence float64
}

// ScoredCandidate pairs a candidate with its match confidence.
type ScoredCandidate struct {
	Candidate card.Candidate
	Score     float64
}

// Job identifies one resolution job whose stored top-N candidates can be
// turned into an evidence bundle. CandidateIDs are source-prefixed.
type Job struct {
	ID           string
	Extracted    card.ExtractedFields
	CandidateIDs []string
}

// Evidence bundle statuses.
const (
	StatusComplete    = "complete"
	StatusPartial     = "partial"
	StatusUnavailable = "unavailable"
)

// FieldCheck is one row of the per-field evidence checklist.
type FieldCheck struct {
	Field    string
	Expected string
	Actual   string
	Pass     bool
	Detail   string
}

// PrimaryVerdict is the top-scored candidate with its strongest evidence.
type PrimaryVerdict struct {
	Candidate card.Candidate
	Score     float64
	Signals   []card.EvidenceSignal
}

// SiblingDelta is a non-primary candidate with its score gap to the primary.
type SiblingDelta struct {
	Candidate card.Candidate
	Score     float64
	Delta     float64
}

// EvidenceBundle is the operator-facing explanation of a stored candidate
// set. Status degrades to partial when rehydration lost records and to
// unavailable when nothing could be rehydrated.
type EvidenceBundle struct {
	JobID     string
	Status    string
	CacheKey  string
	Primary   *PrimaryVerdict
	Checklist []FieldCheck
	Siblings  []SiblingDelta
	Alerts    []string
}
