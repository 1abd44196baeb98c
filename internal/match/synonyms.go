package match

// synonymGroups lists words customers use interchangeably. Lookup is
// bidirectional: any member expands to the rest of its group.
var synonymGroups = [][]string{
	{"lapicera", "birome", "boli", "boligrafo"},
	{"cuaderno", "libreta"},
	{"cartuchera", "canopla"},
	{"globo", "bomba"},
	{"resaltador", "marcaflor", "fluo"},
	{"marcador", "fibra", "fibron"},
	{"pegamento", "plasticola", "adhesivo"},
	{"cinta", "scotch"},
	{"mochila", "bolso"},
	{"hoja", "folio", "papel"},
	{"curriculum", "cv"},
	{"tarjeta", "tarjetita"},
	{"cotillon", "fiesta"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, group := range synonymGroups {
		for _, w := range group {
			for _, other := range group {
				if other != w {
					idx[w] = append(idx[w], other)
				}
			}
		}
	}
	return idx
}

// ExpandSynonyms returns the alternative words for a normalized word, or nil.
// Callers try this only after the literal and singular forms both missed.
func ExpandSynonyms(word string) []string {
	return synonymIndex[word]
}
