package catalog

import (
	"strings"
	"sync/atomic"

	"tiendabot/internal/match"
)

// Index serves fuzzy lookups over one catalog snapshot. It is immutable once
// built: catalog changes are handled by building a fresh index and swapping
// it into a Holder, never by patching maps in place.
type Index struct {
	items         []*Item
	pos           map[*Item]int
	byExact       map[string]*Item
	byBarcode     map[string]*Item
	byWord        map[string][]*Item
	byCategory    map[string][]*Item
	bySubcategory map[string][]*Item
	vocabulary    []string

	fuzzyThreshold int
}

// NewIndex builds all derived maps from a snapshot in one pass.
func NewIndex(snap *Snapshot, fuzzyThreshold int) *Index {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = match.DefaultFuzzyThreshold
	}
	ix := &Index{
		pos:            make(map[*Item]int, len(snap.Items)),
		byExact:        make(map[string]*Item, len(snap.Items)),
		byBarcode:      make(map[string]*Item),
		byWord:         make(map[string][]*Item),
		byCategory:     make(map[string][]*Item),
		bySubcategory:  make(map[string][]*Item),
		fuzzyThreshold: fuzzyThreshold,
	}
	for _, it := range snap.Items {
		ix.pos[it] = len(ix.items)
		ix.items = append(ix.items, it)
		ix.byExact[it.Name] = it
		if it.Barcode != "" {
			ix.byBarcode[it.Barcode] = it
		}
		ix.byCategory[it.Category] = append(ix.byCategory[it.Category], it)
		subKey := it.Category + "/" + it.Subcategory
		ix.bySubcategory[subKey] = append(ix.bySubcategory[subKey], it)
		for _, w := range strings.Fields(it.Name) {
			if _, seen := ix.byWord[w]; !seen {
				ix.vocabulary = append(ix.vocabulary, w)
			}
			ix.byWord[w] = appendUnique(ix.byWord[w], it)
		}
	}
	return ix
}

func appendUnique(items []*Item, it *Item) []*Item {
	for _, existing := range items {
		if existing == it {
			return items
		}
	}
	return append(items, it)
}

// Len returns the number of indexed items.
func (ix *Index) Len() int { return len(ix.items) }

// Items returns all items in catalog order. Callers must not mutate.
func (ix *Index) Items() []*Item { return ix.items }

// FindByExactName looks up an item by its normalized name.
func (ix *Index) FindByExactName(name string) (*Item, bool) {
	it, ok := ix.byExact[match.Normalize(name)]
	return it, ok
}

// FindByBarcode looks up an item by barcode.
func (ix *Index) FindByBarcode(code string) (*Item, bool) {
	it, ok := ix.byBarcode[strings.TrimSpace(code)]
	return it, ok
}

// FindByCategory returns the items of a category in catalog order.
func (ix *Index) FindByCategory(category string) []*Item {
	return ix.byCategory[match.Normalize(category)]
}

// FindBySubcategory returns the items of a subcategory in catalog order.
func (ix *Index) FindBySubcategory(category, sub string) []*Item {
	return ix.bySubcategory[match.Normalize(category)+"/"+match.Normalize(sub)]
}

// Categories returns the distinct category names in catalog order.
func (ix *Index) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, it := range ix.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// Holder publishes the current index. Readers always see either the fully
// old or fully new index, never a partially built one.
type Holder struct {
	ptr atomic.Pointer[Index]
}

// NewHolder wraps an initial index.
func NewHolder(ix *Index) *Holder {
	h := &Holder{}
	h.ptr.Store(ix)
	return h
}

// Get returns the current index.
func (h *Holder) Get() *Index { return h.ptr.Load() }

// Swap atomically replaces the index.
func (h *Holder) Swap(ix *Index) { h.ptr.Store(ix) }
