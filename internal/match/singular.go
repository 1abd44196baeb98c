package match

import "strings"

// consonant stems that take the "-es" plural; vowel stems just add "-s",
// so "biromes" singularizes to "birome", not "birom".
const esPluralStems = "rlndjzy"

// Singularize strips Spanish plural suffixes from a normalized word.
// Applied by callers only after the literal word missed the index.
func Singularize(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ces"):
		// lapices -> lapiz, peces excluded by length
		return w[:len(w)-3] + "z"
	case len(w) > 4 && strings.HasSuffix(w, "es") &&
		strings.ContainsRune(esPluralStems, rune(w[len(w)-3])):
		// marcadores -> marcador
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s"):
		// cuadernos -> cuaderno, biromes -> birome
		return w[:len(w)-1]
	}
	return w
}
