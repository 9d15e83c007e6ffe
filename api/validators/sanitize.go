package validators

import (
	"strings"
	"unicode"
)

// SanitizeSearchQuery normalizes a free-text catalog search: control
// characters are dropped, whitespace runs collapse to one space and the
// result is cut to maxRunes runes (0 means no limit).
func SanitizeSearchQuery(input string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	query := strings.Join(strings.Fields(cleaned), " ")

	if maxRunes <= 0 {
		return query
	}
	runes := []rune(query)
	if len(runes) <= maxRunes {
		return query
	}
	return strings.TrimSpace(string(runes[:maxRunes]))
}
