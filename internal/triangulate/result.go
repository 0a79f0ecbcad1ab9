package triangulate

import "time"

// Action is the caller-facing instruction derived from triangulation
// confidence.
type Action string

const (
	// ActionHardFilter means the set identity may be treated as ground truth.
	ActionHardFilter Action = "hard_filter"
	// ActionSoftRerank means the set identity may boost candidate scores but
	// must not exclude candidates outright.
	ActionSoftRerank Action = "soft_rerank"
	// ActionDiscard means the triangulation outcome is too weak to use.
	ActionDiscard Action = "discard"
	// ActionSkipped means triangulation did not run to completion, typically
	// because the collaborator was unavailable or the name was unusable.
	ActionSkipped Action = "skipped"
)

// SetOption describes one surviving set when triangulation stays ambiguous.
type SetOption struct {
	ID    string
	Name  string
	Cards int
}

// Result is the outcome of one triangulation attempt. SetID and SetName are
// populated only when the candidates converged on a single set.
type Result struct {
	SetID      string
	SetName    string
	Confidence float64
	Action     Action
	// MatchedSignals is the best per-candidate signal count among the
	// surviving candidates.
	MatchedSignals int
	// Candidates and UniqueSets count the survivors after filtering and the
	// distinct sets they span.
	Candidates int
	UniqueSets int
	// CandidateSets lists every surviving set when the outcome is ambiguous,
	// for caller-side display.
	CandidateSets []SetOption
	Reason        string
	// CreditsUsed and Latency describe the card-search call behind this
	// result. Both are zero when the search never ran.
	CreditsUsed int
	Latency     time.Duration
}

// Resolved reports whether triangulation settled on a single set identity.
func (r Result) Resolved() bool {
	return r.SetID != "" && (r.Action == ActionHardFilter || r.Action == ActionSoftRerank)
}

func skipped(reason string) Result {
	return Result{Action: ActionSkipped, Reason: reason}
}

func discarded(reason string) Result {
	return Result{Action: ActionDiscard, Reason: reason}
}
