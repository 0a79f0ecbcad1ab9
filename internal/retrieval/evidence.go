package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"carddex/internal/card"
	"carddex/internal/logging"
	"carddex/internal/normalize"
	"carddex/internal/scorer"
)

// Version tags folded into the evidence cache key. Bump when scoring weights
// or the corpus schema change so stale bundles stop serving.
const (
	scorerEvidenceVersion = "scorer-v2"
	corpusEvidenceVersion = "corpus-v1"

	maxPrimarySignals = 5
)

// ExplainCandidates rehydrates the job's stored candidate ids, re-runs
// scoring, and assembles the evidence bundle. Complete bundles are cached
// under a content-derived key.
func (s *Service) ExplainCandidates(ctx context.Context, job Job) (*EvidenceBundle, error) {
	key := s.evidenceCacheKey(job)
	if cached, ok := s.evidence.Get(key); ok {
		return cached, nil
	}

	rehydrated, err := s.rehydrate(ctx, job)
	if err != nil {
		return nil, err
	}
	if len(rehydrated) == 0 {
		return &EvidenceBundle{
			JobID:    job.ID,
			Status:   StatusUnavailable,
			CacheKey: key,
			Alerts:   []string{"no stored candidates could be rehydrated; manual review required"},
		}, nil
	}

	explanations := make([]scorer.Explanation, len(rehydrated))
	primary := 0
	for i, c := range rehydrated {
		explanations[i] = s.scorer.Explain(job.Extracted, c)
		if explanations[i].Score > explanations[primary].Score {
			primary = i
		}
	}

	bundle := &EvidenceBundle{
		JobID:    job.ID,
		Status:   StatusComplete,
		CacheKey: key,
		Primary: &PrimaryVerdict{
			Candidate: rehydrated[primary],
			Score:     explanations[primary].Score,
			Signals:   strongestSignals(explanations[primary].Signals, maxPrimarySignals),
		},
	}
	bundle.Checklist = s.checklist(job.Extracted, rehydrated[primary], explanations[primary])
	for i, c := range rehydrated {
		if i == primary {
			continue
		}
		bundle.Siblings = append(bundle.Siblings, SiblingDelta{
			Candidate: c,
			Score:     explanations[i].Score,
			Delta:     explanations[primary].Score - explanations[i].Score,
		})
	}
	bundle.Alerts = s.alerts(bundle.Checklist, explanations[primary])

	if len(rehydrated) < len(job.CandidateIDs) {
		bundle.Status = StatusPartial
		bundle.Alerts = append(bundle.Alerts, fmt.Sprintf(
			"only %d of %d stored candidates could be rehydrated",
			len(rehydrated), len(job.CandidateIDs)))
	}
	if bundle.Status == StatusComplete {
		s.evidence.Add(key, bundle)
	}
	s.logger.Debug("evidence bundle assembled",
		logging.String("job_id", job.ID),
		logging.String("status", bundle.Status),
		logging.Int("candidates", len(rehydrated)))
	return bundle, nil
}

// rehydrate loads full candidate records for the stored ids, preserving the
// stored order and silently dropping ids no store knows. Fallback-source ids
// are synthesized from the extracted name; they never lived in a store.
func (s *Service) rehydrate(ctx context.Context, job Job) ([]card.Candidate, error) {
	var canonicalIDs, corpusIDs []string
	for _, encoded := range job.CandidateIDs {
		source, local := card.DecodeID(encoded)
		switch source {
		case card.SourceCanonical:
			canonicalIDs = append(canonicalIDs, local)
		case card.SourceCorpus:
			corpusIDs = append(corpusIDs, local)
		}
	}

	byKey := make(map[string]card.Candidate)
	if len(canonicalIDs) > 0 && s.catalog != nil {
		records, err := s.catalog.GetManyByIDsOrdered(ctx, canonicalIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			byKey[r.EncodedID()] = r
		}
	}
	if len(corpusIDs) > 0 {
		records, err := s.corpus.GetManyByIDsOrdered(ctx, corpusIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			byKey[r.EncodedID()] = r
		}
	}

	var out []card.Candidate
	for _, encoded := range job.CandidateIDs {
		source, local := card.DecodeID(encoded)
		if source == card.SourceFallback {
			if job.Extracted.HasName() {
				out = append(out, card.Candidate{
					ID:     local,
					Source: card.SourceFallback,
					Name:   s.titler.String(normalize.Text(job.Extracted.Name)),
				})
			}
			continue
		}
		if c, ok := byKey[encoded]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) checklist(extracted card.ExtractedFields, primary card.Candidate, expl scorer.Explanation) []FieldCheck {
	var checks []FieldCheck
	if extracted.Name != "" {
		expected := normalize.Text(extracted.Name)
		actual := normalize.Text(primary.Name)
		check := FieldCheck{Field: "name", Expected: expected, Actual: actual, Pass: expected == actual}
		if !check.Pass && strings.Contains(actual, expected) {
			check.Detail = "candidate name contains extracted name"
		}
		checks = append(checks, check)
	}
	if extracted.SetNumber != "" {
		expected := normalize.CardNumber(extracted.SetNumber)
		actual := normalize.CardNumber(primary.Number)
		check := FieldCheck{Field: "set_number", Expected: expected, Actual: actual, Pass: expected == actual}
		if !check.Pass && hasSignal(expl.Signals, "national_dex_collision") {
			check.Pass = true
			check.Detail = "mismatch explained by a National-Dex number in the product name"
		}
		checks = append(checks, check)
	}
	if extracted.SetName != "" {
		expected := normalize.Text(extracted.SetName)
		actual := normalize.Text(primary.SetName)
		checks = append(checks, FieldCheck{Field: "set_name", Expected: expected, Actual: actual, Pass: expected == actual})
	}
	return checks
}

func (s *Service) alerts(checklist []FieldCheck, expl scorer.Explanation) []string {
	var alerts []string
	// A National-Dex number in the product name already explains why the
	// names diverge, so the suffix alert would be noise on top of it.
	if hasSignal(expl.Signals, "name_suffix_mismatch") && !hasSignal(expl.Signals, "national_dex_collision") {
		alerts = append(alerts, "variant suffix mismatch; review before accepting")
	}
	for _, check := range checklist {
		if check.Field == "set_number" && !check.Pass {
			alerts = append(alerts, "set number mismatch; review before accepting")
		}
	}
	return alerts
}

// strongestSignals orders signals strong before medium before weak, keeping
// the original order within a tier, and truncates to n.
func strongestSignals(signals []card.EvidenceSignal, n int) []card.EvidenceSignal {
	ranked := make([]card.EvidenceSignal, len(signals))
	copy(ranked, signals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return strengthRank(ranked[i].Strength) < strengthRank(ranked[j].Strength)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func strengthRank(s card.Strength) int {
	switch s {
	case card.StrengthStrong:
		return 0
	case card.StrengthMedium:
		return 1
	default:
		return 2
	}
}

func hasSignal(signals []card.EvidenceSignal, key string) bool {
	for _, sig := range signals {
		if sig.Key == key {
			return true
		}
	}
	return false
}

// evidenceCacheKey hashes the stored ids, the scorer and corpus versions,
// and the breadcrumb fields compared during scoring. Identical inputs reuse
// a cached bundle; any version bump invalidates it.
func (s *Service) evidenceCacheKey(job Job) string {
	h := sha256.New()
	for _, id := range job.CandidateIDs {
		h.Write([]byte(id))
		h.Write([]byte{'\n'})
	}
	fmt.Fprintf(h, "%s|%s\n", scorerEvidenceVersion, corpusEvidenceVersion)
	fmt.Fprintf(h, "%s|%s|%s\n",
		normalize.Text(job.Extracted.Name),
		normalize.Text(job.Extracted.SetName),
		normalize.CardNumber(job.Extracted.SetNumber))
	return hex.EncodeToString(h.Sum(nil))
}
