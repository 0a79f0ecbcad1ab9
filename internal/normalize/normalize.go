package normalize

import (
	"strings"
	"unicode"
)

// Text lowercases, trims, and collapses internal whitespace to single spaces.
// Idempotent: Text(Text(s)) == Text(s).
func Text(value string) string {
	fields := strings.Fields(strings.ToLower(value))
	return strings.Join(fields, " ")
}

// CardNumber canonicalizes a card-number string. The substring left of a "/"
// is treated as the numerator; leading zeros are stripped but at least one
// digit is kept, so "083/165" becomes "83" and "0" stays "0".
func CardNumber(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexByte(value, '/'); idx >= 0 {
		value = value[:idx]
	}
	value = strings.TrimSpace(value)
	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" && value != "" {
		return "0"
	}
	return trimmed
}

// NumberParts splits a raw card number of the form "NNN/MMM" into its
// canonical numerator and the denominator as printed. When no slash is
// present it falls back to a trailing numeric run, which covers promo-style
// codes such as "SWSH039". Returns ok=false when nothing parseable is found.
func NumberParts(value string) (number, total string, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", false
	}
	if idx := strings.IndexByte(value, '/'); idx >= 0 {
		num := CardNumber(value[:idx])
		tot := strings.TrimSpace(value[idx+1:])
		if num == "" {
			return "", "", false
		}
		return num, tot, true
	}
	run := trailingDigits(value)
	if run == "" {
		return "", "", false
	}
	return CardNumber(run), "", true
}

func trailingDigits(value string) string {
	end := len(value)
	start := end
	for start > 0 && value[start-1] >= '0' && value[start-1] <= '9' {
		start--
	}
	return value[start:end]
}

// Tokens splits text on non-alphanumeric runes and lowercases the result.
// Empty tokens are dropped.
func Tokens(value string) []string {
	lowered := strings.ToLower(value)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// OverlapRatio reports the fraction of candidate tokens that also appear in
// the extracted token set. Returns 0 when either side is empty.
func OverlapRatio(candidate, extracted []string) float64 {
	if len(candidate) == 0 || len(extracted) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(extracted))
	for _, tok := range extracted {
		set[tok] = struct{}{}
	}
	matched := 0
	for _, tok := range candidate {
		if _, ok := set[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(candidate))
}
