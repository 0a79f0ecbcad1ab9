package retrieval

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"carddex/internal/card"
	"carddex/internal/config"
	"carddex/internal/logging"
	"carddex/internal/normalize"
	"carddex/internal/scorer"
)

const (
	// fallbackConfidence marks the synthesized placeholder candidate; it is
	// always low enough to trip the unmatched threshold.
	fallbackConfidence = 0.1
	// hintBoostWeight scales the set-hint boost by hint confidence.
	hintBoostWeight = 0.15
	// poolFactor oversizes store searches so scoring can reorder beyond the
	// store's own sales-volume ordering.
	poolFactor = 4
)

// Service orchestrates candidate retrieval across the canonical catalog, the
// fallback corpus, and the synthesized placeholder path.
type Service struct {
	cfg       *config.Config
	catalog   CandidateSearcher
	corpus    CorpusStore
	scorer    *scorer.Scorer
	telemetry *Telemetry
	evidence  *lru.Cache[string, *EvidenceBundle]
	titler    cases.Caser
	logger    *slog.Logger
}

// NewService constructs the orchestrator. catalog may be nil when the
// canonical catalog is disabled; telemetry may be nil to allocate fresh
// counters; logger may be nil to disable logging.
func NewService(cfg *config.Config, catalog CandidateSearcher, corpus CorpusStore, sc *scorer.Scorer, telemetry *Telemetry, logger *slog.Logger) (*Service, error) {
	if telemetry == nil {
		telemetry = NewTelemetry()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	size := cfg.Retrieval.EvidenceCacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, *EvidenceBundle](size)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:       cfg,
		catalog:   catalog,
		corpus:    corpus,
		scorer:    sc,
		telemetry: telemetry,
		evidence:  cache,
		titler:    cases.Title(language.English),
		logger:    logging.NewComponentLogger(logger, "retrieval"),
	}, nil
}

// Telemetry returns the service's counters.
func (s *Service) Telemetry() *Telemetry { return s.telemetry }

// GetCandidates returns the top-limit scored candidates for the extracted
// fields. The canonical catalog is consulted first when enabled, then the
// corpus; when both are empty a single synthesized placeholder is returned,
// or an empty list if no name was extracted.
func (s *Service) GetCandidates(ctx context.Context, extracted card.ExtractedFields, limit int, hint *SetHint) ([]ScoredCandidate, error) {
	if limit <= 0 {
		limit = s.cfg.Retrieval.CandidateLimit
	}
	pool := limit * poolFactor

	if s.cfg.Catalog.Enabled && s.catalog != nil {
		candidates, err := s.catalog.Search(ctx, extracted, pool)
		if err != nil {
			s.telemetry.canonicalUnavailable.Add(1)
			s.logger.Warn("canonical catalog unavailable",
				logging.String("card_name", extracted.Name),
				logging.Error(err))
		} else if len(candidates) > 0 {
			s.telemetry.canonicalHit.Add(1)
			return s.rank(extracted, candidates, limit, hint), nil
		}
	} else {
		s.telemetry.canonicalUnavailable.Add(1)
	}

	s.telemetry.corpusFallback.Add(1)
	if err := s.corpus.EnsureIngested(ctx); err != nil {
		s.logger.Warn("corpus ingestion failed, searching existing data",
			logging.Error(err))
	}
	candidates, err := s.corpus.Search(ctx, extracted, pool)
	if err != nil {
		s.logger.Warn("corpus search failed",
			logging.String("card_name", extracted.Name),
			logging.Error(err))
		candidates = nil
	}
	if len(candidates) > 0 {
		return s.rank(extracted, candidates, limit, hint), nil
	}

	if !extracted.HasName() {
		return nil, nil
	}
	placeholder := card.Candidate{
		ID:     uuid.NewString(),
		Source: card.SourceFallback,
		Name:   s.titler.String(normalize.Text(extracted.Name)),
	}
	s.logger.Info("no store candidates, synthesizing placeholder",
		logging.String("card_name", extracted.Name))
	return []ScoredCandidate{{Candidate: placeholder, Score: fallbackConfidence}}, nil
}

// rank scores the pool, applies the exact-match set-hint boost, and returns
// the top-limit candidates by descending score.
func (s *Service) rank(extracted card.ExtractedFields, candidates []card.Candidate, limit int, hint *SetHint) []ScoredCandidate {
	hintSet := ""
	if hint != nil && hint.Confidence > 0 {
		hintSet = normalize.Text(hint.SetName)
	}
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score := s.scorer.Score(extracted, c)
		// Boosting is strict equality only. Substring matching would conflate
		// near-identical set names like "Jungle" and "Jungle (1st Edition)".
		if hintSet != "" && normalize.Text(c.SetName) == hintSet {
			score += hintBoostWeight * hint.Confidence
			if score > 1.0 {
				score = 1.0
				s.telemetry.boostSaturation.Add(1)
			}
		}
		scored = append(scored, ScoredCandidate{Candidate: c, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// AllBelowThreshold reports whether every candidate scored below the
// configured unmatched threshold. An empty list counts as unmatched.
func (s *Service) AllBelowThreshold(candidates []ScoredCandidate) bool {
	for _, c := range candidates {
		if c.Score >= s.cfg.Retrieval.UnmatchedThreshold {
			return false
		}
	}
	return true
}
