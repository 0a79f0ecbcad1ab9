package resolver

import "carddex/internal/catalog"

// Verdict is the categorical resolution outcome.
type Verdict string

const (
	VerdictCertain   Verdict = "CERTAIN"
	VerdictLikely    Verdict = "LIKELY"
	VerdictMultiple  Verdict = "MULTIPLE"
	VerdictUncertain Verdict = "UNCERTAIN"
)

// maxAlternatives caps the alternatives returned with a MULTIPLE verdict.
const maxAlternatives = 5

// Result is a single resolution outcome. Constructed fresh per query and
// immutable once returned.
type Result struct {
	Verdict      Verdict
	Card         *catalog.Card
	Confidence   float64
	Evidence     []string
	Alternatives []catalog.Card
}

func uncertain(evidence ...string) Result {
	return Result{Verdict: VerdictUncertain, Confidence: 0, Evidence: evidence}
}

func certain(c catalog.Card, confidence float64, evidence ...string) Result {
	return Result{Verdict: VerdictCertain, Card: &c, Confidence: confidence, Evidence: evidence}
}

func likely(c catalog.Card, confidence float64, evidence ...string) Result {
	return Result{Verdict: VerdictLikely, Card: &c, Confidence: confidence, Evidence: evidence}
}

func multiple(rows []catalog.Card, confidence float64, evidence ...string) Result {
	alts := rows
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return Result{Verdict: VerdictMultiple, Confidence: confidence, Evidence: evidence, Alternatives: alts}
}
