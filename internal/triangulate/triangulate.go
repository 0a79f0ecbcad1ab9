package triangulate

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"carddex/internal/config"
	"carddex/internal/logging"
	"carddex/internal/normalize"
	"carddex/internal/triangulate/tcgapi"
)

// Confidence tiers for a converged set identity. A lone survivor earns a tier
// by how many signals agreed; multiple survivors sharing one set settle at
// the group tier.
const (
	confidenceFourSignals  = 0.95
	confidenceThreeSignals = 0.875
	confidenceBaseline     = 0.775
	confidenceSharedSet    = 0.85
	confidenceAmbiguous    = 0.50

	minNameLength = 3
)

// Triangulator resolves set identity from extracted card signals via an
// external card-search collaborator.
type Triangulator struct {
	searcher tcgapi.Searcher
	cfg      *config.Config
	logger   *slog.Logger
}

// New constructs a Triangulator. A nil logger disables logging.
func New(searcher tcgapi.Searcher, cfg *config.Config, logger *slog.Logger) *Triangulator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Triangulator{
		searcher: searcher,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "triangulate"),
	}
}

// Triangulate attempts to pin the query signals to a single printed set.
// Collaborator failures and timeouts yield a skipped result, never an error.
func (t *Triangulator) Triangulate(ctx context.Context, sig Signals) Result {
	name := normalize.Text(sig.Name)
	if len(name) < minNameLength {
		return skipped("card name missing or too short")
	}

	timeout := time.Duration(t.cfg.CardSearch.TimeoutMs) * time.Millisecond
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	searchStart := time.Now()
	resp, err := t.searcher.SearchByName(ctx, sig.Name, t.cfg.CardSearch.ResultLimit)
	latency := time.Since(searchStart)
	if err != nil {
		t.logger.Warn("card search unavailable, skipping triangulation",
			logging.String("card_name", sig.Name),
			logging.Error(err))
		return skipped("card search unavailable")
	}
	if resp.Quota.NearlyExhausted(t.cfg.CardSearch.QuotaWarnFraction) {
		t.logger.Warn("card search quota nearly exhausted",
			logging.Int("remaining", resp.Quota.Remaining),
			logging.Int("limit", resp.Quota.Limit))
	}
	if len(resp.Cards) == 0 {
		result := discarded("no search results")
		result.CreditsUsed = resp.CreditsUsed
		result.Latency = latency
		return result
	}

	survivors, strict := t.filter(sig, resp.Cards)
	if len(survivors) == 0 {
		result := discarded("no candidates matched signals")
		result.CreditsUsed = resp.CreditsUsed
		result.Latency = latency
		return result
	}

	result := t.score(sig, survivors)
	result.Action = t.action(result.Confidence)
	result.Candidates = len(survivors)
	result.CreditsUsed = resp.CreditsUsed
	result.Latency = latency
	t.logger.Debug("triangulation complete",
		logging.String("card_name", sig.Name),
		logging.String("set", result.SetName),
		logging.Float64("confidence", result.Confidence),
		logging.String("action", string(result.Action)),
		logging.Bool("strict_filter", strict),
		logging.Int("survivors", len(survivors)))
	return result
}

// filter applies the strict number+total filter when both signals are
// present, falling back to minimum-signal-count filtering when the strict
// pass keeps nothing or the inputs are incomplete.
func (t *Triangulator) filter(sig Signals, cards []tcgapi.Card) ([]tcgapi.Card, bool) {
	if sig.Number != "" && sig.SetTotal != "" {
		var strictKeep []tcgapi.Card
		for _, c := range cards {
			if strictMatch(sig, c) {
				strictKeep = append(strictKeep, c)
			}
		}
		if len(strictKeep) > 0 {
			return strictKeep, true
		}
	}

	minCount := t.cfg.Triangulation.MinSignalCount
	if minCount < 1 {
		minCount = 1
	}
	var keep []tcgapi.Card
	for _, c := range cards {
		if countSignals(sig, c) >= minCount {
			keep = append(keep, c)
		}
	}
	return keep, false
}

func (t *Triangulator) score(sig Signals, survivors []tcgapi.Card) Result {
	groups := groupBySet(survivors)
	best := 0
	for _, c := range survivors {
		if n := countSignals(sig, c); n > best {
			best = n
		}
	}

	if len(groups) == 1 {
		g := groups[0]
		if len(survivors) == 1 {
			return Result{
				SetID:          g.ID,
				SetName:        g.Name,
				Confidence:     tierForSignals(best),
				MatchedSignals: best,
				UniqueSets:     1,
				Reason:         "single candidate survived filtering",
			}
		}
		return Result{
			SetID:          g.ID,
			SetName:        g.Name,
			Confidence:     confidenceSharedSet,
			MatchedSignals: best,
			UniqueSets:     1,
			Reason:         "all surviving candidates share one set",
		}
	}

	if picked, ok := disambiguateShadowless(sig, groups); ok {
		return Result{
			SetID:          picked.ID,
			SetName:        picked.Name,
			Confidence:     confidenceSharedSet,
			MatchedSignals: best,
			UniqueSets:     len(groups),
			Reason:         "shadowless marker disambiguated the set",
		}
	}

	return Result{
		Confidence:     confidenceAmbiguous,
		MatchedSignals: best,
		UniqueSets:     len(groups),
		CandidateSets:  groups,
		Reason:         "multiple distinct sets survived filtering",
	}
}

func (t *Triangulator) action(confidence float64) Action {
	switch {
	case confidence >= t.cfg.Triangulation.HardFilterThreshold:
		return ActionHardFilter
	case confidence >= t.cfg.Triangulation.SoftRerankThreshold:
		return ActionSoftRerank
	default:
		return ActionDiscard
	}
}

func tierForSignals(matched int) float64 {
	switch {
	case matched >= 4:
		return confidenceFourSignals
	case matched >= 3:
		return confidenceThreeSignals
	default:
		return confidenceBaseline
	}
}

func groupBySet(cards []tcgapi.Card) []SetOption {
	byKey := make(map[string]*SetOption)
	var order []string
	for _, c := range cards {
		key := c.Set.ID
		if key == "" {
			key = normalize.Text(c.Set.Name)
		}
		if existing, ok := byKey[key]; ok {
			existing.Cards++
			continue
		}
		byKey[key] = &SetOption{ID: c.Set.ID, Name: c.Set.Name, Cards: 1}
		order = append(order, key)
	}
	groups := make([]SetOption, 0, len(byKey))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Cards > groups[j].Cards })
	return groups
}

// disambiguateShadowless picks the one set whose name agrees with the
// extracted shadowless determination, if exactly one does.
func disambiguateShadowless(sig Signals, groups []SetOption) (SetOption, bool) {
	if sig.Shadowless == nil {
		return SetOption{}, false
	}
	var matched []SetOption
	for _, g := range groups {
		isShadowless := strings.Contains(normalize.Text(g.Name), "shadowless")
		if isShadowless == *sig.Shadowless {
			matched = append(matched, g)
		}
	}
	if len(matched) != 1 {
		return SetOption{}, false
	}
	return matched[0], true
}
