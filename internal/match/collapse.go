package match

import "strings"

// CollapseRepeats squashes runs of the same letter to a single occurrence
// ("siii" -> "si", "nooo" -> "no"). Yes/no detection compares collapsed
// tokens so enthusiasm spelling does not defeat the tolerance check.
func CollapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var last rune = -1
	for _, r := range s {
		if r != last {
			b.WriteRune(r)
			last = r
		}
	}
	return b.String()
}
