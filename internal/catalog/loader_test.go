package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
Librería:
  Cuadernos:
    Cuaderno A4:
      price: 1000
      stock: true
      barcode: "7790001"
      images:
        - url: https://cdn.example.com/a4.jpg
          id: img-1
    Cuaderno A5:
      price: 800
      stock: true
Servicios:
  Impresiones:
    Curriculum Vitae:
      price_from: 2500
      stock: true
`

func TestParse_PreservesOrderAndNormalizesNames(t *testing.T) {
	snap, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, snap.Items, 3)

	var names []string
	for _, it := range snap.Items {
		names = append(names, it.Name)
	}
	want := []string{"cuaderno a4", "cuaderno a5", "curriculum vitae"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("item order mismatch (-want +got):\n%s", diff)
	}

	first := snap.Items[0]
	require.Equal(t, "libreria", first.Category)
	require.Equal(t, "cuadernos", first.Subcategory)
	require.Equal(t, "Cuaderno A4", first.DisplayName)
	require.Equal(t, 1000.0, first.Price)
	require.True(t, first.InStock)
	require.Len(t, first.Images, 1)
	require.Equal(t, "https://cdn.example.com/a4.jpg", first.Images[0].URL)

	svc := snap.Items[2]
	require.True(t, !svc.HasFixedPrice())
	require.Equal(t, 2500.0, svc.UnitPrice())
}

func TestParse_RejectsPriceConflict(t *testing.T) {
	_, err := Parse([]byte(`
lib:
  sub:
    item:
      price: 10
      price_from: 20
`))
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestParse_RejectsDuplicateBarcode(t *testing.T) {
	_, err := Parse([]byte(`
lib:
  sub:
    uno:
      price: 10
      barcode: "111"
    dos:
      price: 20
      barcode: "111"
`))
	require.ErrorContains(t, err, "barcode")
}

func TestParse_ToleratesMissingOptionalFields(t *testing.T) {
	snap, err := Parse([]byte(`
lib:
  sub:
    basico:
      price: 10
      stock: true
`))
	require.NoError(t, err)
	it := snap.Items[0]
	require.Empty(t, it.Barcode)
	require.Empty(t, it.Unit)
	require.Empty(t, it.Images)
}

func TestParse_EmptyDocument(t *testing.T) {
	snap, err := Parse(nil)
	require.NoError(t, err)
	require.Empty(t, snap.Items)
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"cuaderno a4", "Cuaderno A4"},
		{"globo metalizado", "Globo Metalizado"},
		{"cv", "CV"},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
