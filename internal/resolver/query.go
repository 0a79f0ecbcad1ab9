package resolver

import (
	"strings"
	"unicode"
)

// Query is a structured exact-match query. All fields are optional; Raw
// holds the original unparsed text when the query came from free-form input.
type Query struct {
	Name   string
	Set    string
	Number string
	Raw    string
}

// knownSetPhrases are the set names the raw-query parser can peel out of a
// token stream. Matching allows token gaps, so "base 2" still matches
// "base set 2" tokens present in the input.
var knownSetPhrases = []string{
	"base set 2",
	"base set",
	"jungle",
	"fossil",
	"team rocket",
	"gym heroes",
	"gym challenge",
	"neo genesis",
	"neo discovery",
	"neo revelation",
	"neo destiny",
	"legendary collection",
	"expedition",
	"aquapolis",
	"skyridge",
	"evolving skies",
	"darkness ablaze",
	"vivid voltage",
	"champions path",
	"shining fates",
	"brilliant stars",
	"lost origin",
	"silver tempest",
	"crown zenith",
	"scarlet violet",
	"obsidian flames",
	"paradox rift",
}

// ParseRaw splits free-form query text into name, set, and number parts.
// This is a heuristic, not a grammar: malformed input degrades to partial
// fields, it never fails.
//
// Tokens are scanned right to left for the first one containing a digit;
// that becomes the number. The remaining tokens are tested against the known
// set phrases (token gaps allowed); matched tokens peel off as the set, and
// whatever is left is the name.
func ParseRaw(raw string) Query {
	query := Query{Raw: raw}
	tokens := splitQueryTokens(raw)
	if len(tokens) == 0 {
		return query
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		if containsDigit(tokens[i]) {
			query.Number = tokens[i]
			tokens = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}

	if phrase, remaining, ok := peelSetPhrase(tokens); ok {
		query.Set = phrase
		tokens = remaining
	}

	query.Name = strings.Join(tokens, " ")
	return query
}

// splitQueryTokens lowercases and splits on whitespace and punctuation,
// except that "/" stays inside a token so "4/102" survives as one number
// token.
func splitQueryTokens(raw string) []string {
	lowered := strings.ToLower(raw)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		if r == '/' {
			return false
		}
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsDigit(token string) bool {
	for _, r := range token {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// peelSetPhrase finds the longest known set phrase whose tokens appear in
// order (gaps allowed) in the input, and removes those tokens. The scan runs
// over the tail of the token stream first so a set suffix does not eat name
// tokens that happen to collide with short set words.
func peelSetPhrase(tokens []string) (phrase string, remaining []string, ok bool) {
	bestLen := 0
	var bestPhrase string
	var bestUsed []int

	for _, candidate := range knownSetPhrases {
		phraseTokens := strings.Fields(candidate)
		used := matchSubsequenceFromEnd(tokens, phraseTokens)
		if used == nil {
			continue
		}
		if len(phraseTokens) > bestLen {
			bestLen = len(phraseTokens)
			bestPhrase = candidate
			bestUsed = used
		}
	}
	if bestLen == 0 {
		return "", tokens, false
	}

	usedSet := make(map[int]struct{}, len(bestUsed))
	for _, idx := range bestUsed {
		usedSet[idx] = struct{}{}
	}
	remaining = make([]string, 0, len(tokens)-bestLen)
	for i, tok := range tokens {
		if _, drop := usedSet[i]; !drop {
			remaining = append(remaining, tok)
		}
	}
	return bestPhrase, remaining, true
}

// matchSubsequenceFromEnd matches the phrase tokens as a subsequence of the
// input, preferring the rightmost occurrence. Returns the matched indexes or
// nil when the phrase is not present.
func matchSubsequenceFromEnd(tokens, phrase []string) []int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return nil
	}
	used := make([]int, len(phrase))
	idx := len(tokens) - 1
	for p := len(phrase) - 1; p >= 0; p-- {
		found := false
		for ; idx >= 0; idx-- {
			if tokens[idx] == phrase[p] {
				used[p] = idx
				idx--
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}
	return used
}
