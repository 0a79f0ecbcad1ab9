package scorer

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"carddex/internal/card"
	"carddex/internal/logging"
	"carddex/internal/normalize"
)

// Score bounds. The floor keeps synthesized fallback candidates from ever
// reading as zero-confidence.
const (
	scoreFloor   = 0.05
	scoreCeiling = 1.0
)

// Signal weights. Preserved as tuned in production use; do not re-derive.
const (
	weightNameExact      = 0.50
	weightNameSubstring  = 0.35
	weightNameOverlap    = 0.30
	weightSuffixMismatch = 0.15
	weightNumberMatch    = 0.35
	weightDexCollision   = 0.25
	weightSetTotalMatch  = 0.12
	weightYearPriorMax   = 0.05
	weightSalesMax       = 0.10
	weightFirstEdition   = 0.15
	weightShadowless     = 0.12
	weightHoloMatch      = 0.08
)

// Strength tier cutoffs for token-overlap evidence.
const (
	overlapMediumThreshold = 0.66
	overlapWeakThreshold   = 0.33
)

// DexLookup reports whether candidateNumber is a National-Dex identifier
// embedded in the product name rather than a true set-position number. Pure
// function, injected so the scorer stays deterministic in tests.
type DexLookup func(productName, candidateNumber string) bool

// Derived is the normalized field snapshot the scorer actually compared,
// attached to explanations for UI and debugging.
type Derived struct {
	ExtractedName   string
	CandidateName   string
	ExtractedNumber string
	CandidateNumber string
	ExtractedTotal  string
	CandidateTotal  string
	OverlapRatio    float64
}

// Explanation pairs the numeric score with its ordered evidence trail.
type Explanation struct {
	Score   float64
	Signals []card.EvidenceSignal
	Derived Derived
}

// Scorer ranks candidates against extracted fields.
type Scorer struct {
	dex         DexLookup
	logger      *slog.Logger
	saturations atomic.Uint64
}

// New creates a scorer. dex may be nil, which disables National-Dex
// collision detection.
func New(dex DexLookup, logger *slog.Logger) *Scorer {
	return &Scorer{
		dex:    dex,
		logger: logging.NewComponentLogger(logger, "scorer"),
	}
}

// Score returns the match confidence for a candidate in [0.05, 1.0].
func (s *Scorer) Score(extracted card.ExtractedFields, candidate card.Candidate) float64 {
	total, _, _ := s.accumulate(extracted, candidate)
	return s.clamp(total)
}

// Explain returns the score plus its evidence trail. It delegates to the
// same signal accumulation as Score, so the two cannot diverge.
func (s *Scorer) Explain(extracted card.ExtractedFields, candidate card.Candidate) Explanation {
	total, signals, derived := s.accumulate(extracted, candidate)
	return Explanation{
		Score:   s.clamp(total),
		Signals: signals,
		Derived: derived,
	}
}

// SaturationCount reports how many scored candidates exceeded 1.0 before the
// clamp. Stacked variant boosts can overshoot; the clamp is the documented
// behaviour and this counter meters how often it engages.
func (s *Scorer) SaturationCount() uint64 {
	return s.saturations.Load()
}

func (s *Scorer) clamp(total float64) float64 {
	if total > scoreCeiling {
		s.saturations.Add(1)
		return scoreCeiling
	}
	if total < scoreFloor {
		return scoreFloor
	}
	return total
}

func (s *Scorer) accumulate(extracted card.ExtractedFields, candidate card.Candidate) (float64, []card.EvidenceSignal, Derived) {
	extractedName := normalize.Text(extracted.Name)
	candidateName := normalize.Text(candidate.Name)
	extractedTokens := normalize.Tokens(extracted.Name)
	candidateTokens := normalize.Tokens(candidate.Name)
	overlap := normalize.OverlapRatio(candidateTokens, extractedTokens)

	extractedNumber := normalize.CardNumber(extracted.SetNumber)
	candidateNumber := normalize.CardNumber(candidate.Number)
	_, extractedTotal, _ := normalize.NumberParts(extracted.SetNumber)
	extractedTotal = normalize.CardNumber(extractedTotal)
	candidateTotal := normalize.CardNumber(candidate.SetTotal)

	derived := Derived{
		ExtractedName:   extractedName,
		CandidateName:   candidateName,
		ExtractedNumber: extractedNumber,
		CandidateNumber: candidateNumber,
		ExtractedTotal:  extractedTotal,
		CandidateTotal:  candidateTotal,
		OverlapRatio:    overlap,
	}

	var total float64
	var signals []card.EvidenceSignal
	add := func(points float64, key string, strength card.Strength, detail string) {
		total += points
		signals = append(signals, card.EvidenceSignal{Key: key, Strength: strength, Detail: detail})
	}

	// Name signal group: exact, suffix-mismatch, substring, token overlap.
	// Evaluated in that order, one of them fires.
	suffixMismatch := hasVariantSuffix(extractedTokens) != hasVariantSuffix(candidateTokens)
	switch {
	case extractedName != "" && extractedName == candidateName:
		add(weightNameExact, "name_exact", card.StrengthStrong,
			fmt.Sprintf("names equal after normalization (%q)", extractedName))
	case suffixMismatch && extractedName != "":
		add(overlap*weightSuffixMismatch, "name_suffix_mismatch", card.StrengthWeak,
			fmt.Sprintf("variant suffix mismatch between %q and %q, overlap %.2f", extractedName, candidateName, overlap))
	case extractedName != "" && candidateName != "" && containsName(candidateName, extractedName):
		add(weightNameSubstring, "name_substring", card.StrengthMedium,
			fmt.Sprintf("candidate name %q contains extracted name %q", candidateName, extractedName))
	case overlap > 0:
		add(overlap*weightNameOverlap, "name_token_overlap", overlapStrength(overlap),
			fmt.Sprintf("token overlap %.2f between %q and %q", overlap, extractedName, candidateName))
	}

	// Set number group. A National-Dex number embedded in the product name
	// is not a true set number; treat that collision as passing so operator
	// review is not poisoned by a false negative.
	switch {
	case extractedNumber != "" && extractedNumber == candidateNumber:
		add(weightNumberMatch, "set_number_match", card.StrengthStrong,
			fmt.Sprintf("card number %s matches", extractedNumber))
	case candidateNumber != "" && s.dex != nil && s.dex(candidate.Name, candidateNumber):
		add(weightDexCollision, "national_dex_collision", card.StrengthStrong,
			fmt.Sprintf("candidate number %s is a National-Dex identifier in %q, not a set number", candidateNumber, candidate.Name))
	}

	if extractedTotal != "" && extractedTotal == candidateTotal {
		add(weightSetTotalMatch, "set_total_match", card.StrengthMedium,
			fmt.Sprintf("set total %s matches", extractedTotal))
	}

	if candidate.ReleaseYear >= 1970 {
		distance := float64(candidate.ReleaseYear - 2000)
		if distance < 0 {
			distance = -distance
		}
		penalty := distance / 100
		if penalty > weightYearPriorMax {
			penalty = weightYearPriorMax
		}
		add(weightYearPriorMax-penalty, "release_year_prior", card.StrengthWeak,
			fmt.Sprintf("release year %d plausibility prior", candidate.ReleaseYear))
	}

	if candidate.SalesVolume > 0 {
		bonus := candidate.SalesVolume / 500
		if bonus > weightSalesMax {
			bonus = weightSalesMax
		}
		add(bonus, "sales_volume", card.StrengthWeak,
			fmt.Sprintf("sales volume %.0f", candidate.SalesVolume))
	}

	// Variant boosts reward positive agreement only.
	if extracted.FirstEdition && detectFirstEdition(candidate.Name) {
		add(weightFirstEdition, "first_edition_match", card.StrengthMedium,
			"first-edition stamp expected and present in product name")
	}
	if extracted.Shadowless && detectShadowless(candidate.Name) {
		add(weightShadowless, "shadowless_match", card.StrengthMedium,
			"shadowless variant expected and present in product name")
	}
	detectedHolo := detectHolo(candidate.Name)
	holoAgrees := (extracted.HoloType != card.HoloUnknown && detectedHolo == extracted.HoloType) ||
		(extracted.HoloType == card.HoloNone && detectedHolo == card.HoloUnknown)
	if holoAgrees {
		add(weightHoloMatch, "holo_match", card.StrengthWeak,
			fmt.Sprintf("holo treatment agrees (%s)", extracted.HoloType))
	}

	if total > scoreCeiling {
		s.logger.Debug("score saturated before clamp",
			logging.Float64("raw_total", total),
			logging.String("candidate_id", candidate.ID))
	}

	return total, signals, derived
}

func containsName(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}

func overlapStrength(overlap float64) card.Strength {
	switch {
	case overlap >= overlapMediumThreshold:
		return card.StrengthMedium
	case overlap >= overlapWeakThreshold:
		return card.StrengthWeak
	default:
		return card.StrengthWeak
	}
}
