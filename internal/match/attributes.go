package match

import "strings"

var colorVocab = map[string]bool{
	"rojo": true, "roja": true, "azul": true, "verde": true, "negro": true,
	"negra": true, "blanco": true, "blanca": true, "amarillo": true,
	"amarilla": true, "rosa": true, "rosado": true, "rosada": true,
	"violeta": true, "naranja": true, "celeste": true, "gris": true,
	"dorado": true, "dorada": true, "plateado": true, "plateada": true,
	"marron": true, "turquesa": true, "fucsia": true,
}

var sizeVocab = map[string]bool{
	"a4": true, "a5": true, "a3": true, "oficio": true, "carta": true,
	"chico": true, "chica": true, "mediano": true, "mediana": true,
	"grande": true, "gigante": true, "xl": true, "mini": true,
}

// Attributes holds the color/size tokens found in a query plus the text that
// remains for name matching once they are removed.
type Attributes struct {
	Colors   []string
	Sizes    []string
	Stripped string
}

// ExtractAttributes scans a normalized query against the fixed color and size
// vocabularies. Matched tokens are removed from the text used for name
// matching but kept so the index can award the attribute score bonus.
func ExtractAttributes(text string) Attributes {
	var attrs Attributes
	var rest []string
	for _, tok := range strings.Fields(text) {
		switch {
		case colorVocab[tok]:
			attrs.Colors = append(attrs.Colors, tok)
		case sizeVocab[tok]:
			attrs.Sizes = append(attrs.Sizes, tok)
		default:
			rest = append(rest, tok)
		}
	}
	attrs.Stripped = strings.Join(rest, " ")
	return attrs
}
