// Package match implements the text normalization and fuzzy word matching
// used by the catalog index and the dialogue resolver.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes raw message or catalog text: lowercase, accents
// stripped, punctuation removed, underscores unified with spaces, whitespace
// collapsed. Idempotent; empty input yields the empty string.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	plain, _, err := transform.String(stripAccents, lower)
	if err != nil {
		plain = lower
	}
	var b strings.Builder
	b.Grow(len(plain))
	for _, r := range plain {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
