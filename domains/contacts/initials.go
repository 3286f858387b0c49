package contacts

import (
	"strings"
	"unicode"
)

const (
	FallbackInitials = "?"
	maxInitials      = 2
)

var skipWords = map[string]struct{}{
	"of":  {},
	"the": {},
}

// Initials returns up to two upper-cased first letters of name words,
// skipping "of" and "the". Result is empty when nothing is left.
func Initials(name string) string {
	result := make([]rune, 0, maxInitials)
	for _, word := range strings.Fields(name) {
		if _, ok := skipWords[strings.ToLower(word)]; ok {
			continue
		}

		for _, r := range word {
			result = append(result, unicode.ToUpper(r))
			break
		}

		if len(result) == maxInitials {
			break
		}
	}

	return string(result)
}
