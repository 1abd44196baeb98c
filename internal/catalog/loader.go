package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tiendabot/internal/match"
)

// itemFields is the YAML shape of one catalog entry. Optional fields may be
// absent; the loader tolerates them.
type itemFields struct {
	Price     float64 `yaml:"price"`
	PriceFrom float64 `yaml:"price_from"`
	Stock     bool    `yaml:"stock"`
	Unit      string  `yaml:"unit"`
	Barcode   string  `yaml:"barcode"`
	Images    []Image `yaml:"images"`
}

// Load reads a catalog YAML file (category -> subcategory -> item -> fields)
// into a Snapshot. Item order follows file order so that search ties break
// deterministically by catalog position.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML. It walks the document with the yaml.Node API
// because plain map decoding would lose the file's item order.
func Parse(data []byte) (*Snapshot, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(doc.Content) == 0 {
		return &Snapshot{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("catalog root must be a mapping, got %v", root.Kind)
	}

	snap := &Snapshot{}
	seenBarcodes := make(map[string]string)
	for c := 0; c+1 < len(root.Content); c += 2 {
		category := match.Normalize(root.Content[c].Value)
		subMap := root.Content[c+1]
		if subMap.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("category %q must map subcategories", category)
		}
		for s := 0; s+1 < len(subMap.Content); s += 2 {
			subcategory := match.Normalize(subMap.Content[s].Value)
			itemMap := subMap.Content[s+1]
			if itemMap.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("subcategory %q/%q must map items", category, subcategory)
			}
			for i := 0; i+1 < len(itemMap.Content); i += 2 {
				name := match.Normalize(itemMap.Content[i].Value)
				var fields itemFields
				if err := itemMap.Content[i+1].Decode(&fields); err != nil {
					return nil, fmt.Errorf("item %q/%q/%q: %w", category, subcategory, name, err)
				}
				if fields.Price != 0 && fields.PriceFrom != 0 {
					return nil, fmt.Errorf("item %q/%q/%q: price and price_from are mutually exclusive", category, subcategory, name)
				}
				if fields.Barcode != "" {
					if prev, dup := seenBarcodes[fields.Barcode]; dup {
						return nil, fmt.Errorf("barcode %q duplicated by %q and %q", fields.Barcode, prev, name)
					}
					seenBarcodes[fields.Barcode] = name
				}
				snap.Items = append(snap.Items, &Item{
					Category:    category,
					Subcategory: subcategory,
					Name:        name,
					DisplayName: TitleCase(name),
					Price:       fields.Price,
					PriceFrom:   fields.PriceFrom,
					InStock:     fields.Stock,
					Unit:        fields.Unit,
					Barcode:     fields.Barcode,
					Images:      fields.Images,
				})
			}
		}
	}
	return snap, nil
}
