package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// StripDiacritics removes combining marks so that "José" compares equal to
// "JOSE" after upper-casing. Falls back to the input when the transform fails
// on malformed UTF-8.
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize prepares text for comparison against option labels and field
// labels: trim, uppercase, collapse internal whitespace, strip diacritics.
func Normalize(s string) string {
	s = StripDiacritics(strings.TrimSpace(s))
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), " ")
}

// ContainsNormalized reports whether haystack contains needle after both are
// normalized. An empty needle never matches.
func ContainsNormalized(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}

// ExtractCode pulls the leading numeric code token out of an option label of
// the form "01 - CONCRETO", stripping leading zeros so that "01" and "1"
// compare equal. Returns "" when the text does not start with digits.
func ExtractCode(s string) string {
	s = strings.TrimSpace(s)
	head := s
	if idx := strings.Index(s, " - "); idx >= 0 {
		head = s[:idx]
	}
	head = strings.TrimSpace(head)
	for _, r := range head {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	if head == "" {
		return ""
	}
	trimmed := strings.TrimLeft(head, "0")
	if trimmed == "" {
		// "00" and "0" both mean code zero.
		return "0"
	}
	return trimmed
}
