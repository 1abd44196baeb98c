package match

// abbreviations maps shorthand queries to the full phrase customers mean.
// Applied to the whole normalized query before word-level matching.
var abbreviations = map[string]string{
	"a4":       "cuaderno a4",
	"a5":       "cuaderno a5",
	"cv":       "curriculum vitae",
	"lapiz hb": "lapiz negro hb",
	"resma":    "resma hojas a4",
}

// ExpandAbbreviation returns the expansion for a normalized query and whether
// one applied.
func ExpandAbbreviation(text string) (string, bool) {
	full, ok := abbreviations[text]
	return full, ok
}
