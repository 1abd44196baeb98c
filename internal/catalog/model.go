// Package catalog models the read-only catalog snapshot and the fuzzy
// search index built over it.
package catalog

import "strings"

// Image is one product photo reference.
type Image struct {
	URL    string `yaml:"url"`
	ID     string `yaml:"id"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Format string `yaml:"format"`
}

// Item is a single catalog entry, identified by its
// (category, subcategory, name) triple.
type Item struct {
	Category    string
	Subcategory string
	Name        string // normalized name, the identity component
	DisplayName string // title-cased name shown to customers

	// Price and PriceFrom are mutually exclusive: fixed-price items carry
	// Price, quoted services carry PriceFrom ("desde $X").
	Price     float64
	PriceFrom float64

	InStock bool
	Unit    string
	Barcode string
	Images  []Image
}

// Key returns the unique identity triple as a single string.
func (it *Item) Key() string {
	return it.Category + "/" + it.Subcategory + "/" + it.Name
}

// HasFixedPrice reports whether the item has an exact price rather than a
// "from" quote.
func (it *Item) HasFixedPrice() bool {
	return it.PriceFrom == 0
}

// UnitPrice returns the price used for cart totals.
func (it *Item) UnitPrice() float64 {
	if it.HasFixedPrice() {
		return it.Price
	}
	return it.PriceFrom
}

// Snapshot is an immutable view of the whole catalog in catalog order.
// The index never mutates it; catalog changes arrive as a fresh snapshot.
type Snapshot struct {
	Items []*Item
}

// TitleCase renders a normalized name for display ("cuaderno a4" ->
// "Cuaderno A4"; short tokens that look like sizes are upper-cased).
func TitleCase(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if len(w) <= 2 {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
