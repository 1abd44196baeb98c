package match

import "testing"

func TestNormalize_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"Lowercase", "CUADERNO", "cuaderno"},
		{"Accents", "Lápiz Común", "lapiz comun"},
		{"Punctuation", "¿tenés globos?", "tenes globos"},
		{"Underscores", "cuaderno_a4", "cuaderno a4"},
		{"Whitespace", "  dos   cuadernos \n", "dos cuadernos"},
		{"Enie", "años", "anos"},
		{"Numbers", "2 biromes!", "2 biromes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"", "Hola!", "¿Cuánto salen los lápices?", "CUADERNO_A4 rayado",
		"  globos   metalizados  ", "garçon déjà vu", "123 !!! ***",
	}
	for _, s := range samples {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"cuadernos", "cuaderno"},
		{"lapices", "lapiz"},
		{"marcadores", "marcador"},
		{"biromes", "birome"},
		{"globos", "globo"},
		{"cuaderno", "cuaderno"},
		{"gas", "gas"},   // too short to strip
		{"mes", "mes"},   // too short to strip
		{"lunes", "lun"}, // rule-based, not dictionary-based
	}
	for _, tt := range tests {
		if got := Singularize(tt.in); got != tt.want {
			t.Errorf("Singularize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseRepeats(t *testing.T) {
	tests := []struct{ in, want string }{
		{"siii", "si"},
		{"nooo", "no"},
		{"dale", "dale"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CollapseRepeats(tt.in); got != tt.want {
			t.Errorf("CollapseRepeats(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
