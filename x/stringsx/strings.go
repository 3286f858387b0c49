package stringsx

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// JoinStrings works as strings.Join, but can receive arbitrary number of strings
// The separator string sep is placed between elements in the resulting string.
func JoinStrings(sep string, elems ...string) string {
	return strings.Join(elems, sep)
}

// RedactedDSN hides password in dsn, so it can be logged.
func RedactedDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", errors.Wrap(err, "parse dsn")
	}

	return u.Redacted(), nil
}

// DigitsOnly drops every rune which is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsFold reports whether substr is within s, ignoring case.
// Empty substr matches everything.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
