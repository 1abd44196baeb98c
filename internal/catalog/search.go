package catalog

import (
	"sort"
	"strings"

	"tiendabot/internal/match"
)

// Scoring weights. Ties break by catalog order.
const (
	scoreExact          = 100
	scoreFirstWord      = 50
	scoreExtraWord      = 25
	scoreSubstring      = 75
	scoreSubstringBonus = 30
	scoreAttribute      = 15
)

// stopwords are filler tokens that carry no product information and are
// skipped during word matching so they never fuzzy-match a catalog word.
var stopwords = map[string]bool{
	"de": true, "del": true, "el": true, "la": true, "los": true, "las": true,
	"un": true, "una": true, "unos": true, "unas": true, "y": true, "o": true,
	"con": true, "para": true, "por": true, "en": true, "me": true, "mi": true,
	"que": true, "algun": true, "alguna": true, "quiero": true, "quisiera": true,
	"necesito": true, "busco": true, "tenes": true, "tienen": true, "hay": true,
	"vendes": true, "venden": true, "precio": true, "cuanto": true, "sale": true,
	"vale": true, "cuesta": true, "comprar": true, "quieren": true, "dame": true,
	"pasame": true, "estan": true, "esta": true, "ver": true, "buscando": true,
}

// Result is one ranked search hit. Exact marks the item whose full name
// matched the query; at most one result carries it and it always ranks first.
type Result struct {
	Item  *Item
	Score int
	Exact bool
}

// Search is the fuzzy entry point over the index. The query is normalized,
// abbreviation-expanded and attribute-stripped, then matched word by word:
// literal index hit, else singularized, else synonyms, else approximate
// edit-distance match as the last resort. Unmatched queries return an empty
// list; Search never fails.
func (ix *Index) Search(query string) []Result {
	q := match.Normalize(query)
	if q == "" || ix.Len() == 0 {
		return nil
	}
	if full, ok := match.ExpandAbbreviation(q); ok {
		q = full
	}
	attrs := match.ExtractAttributes(q)
	nameText := attrs.Stripped
	if nameText == "" {
		// Pure attribute queries ("rojo") still search by the attribute word.
		nameText = q
	}

	// Exact match is checked against both the full query and the
	// attribute-stripped form: "cuaderno a4" is an exact name even though
	// "a4" doubles as a size token.
	exact, hasExact := ix.byExact[q]
	if !hasExact {
		exact, hasExact = ix.byExact[nameText]
	}

	scores := make(map[*Item]int)
	for _, word := range strings.Fields(nameText) {
		if stopwords[word] || isNumeric(word) || len(word) < 2 {
			continue
		}
		for _, it := range ix.resolveWord(word) {
			if scores[it] == 0 {
				scores[it] = scoreFirstWord
			} else {
				scores[it] += scoreExtraWord
			}
		}
	}

	// Substring containment in either direction.
	if len(nameText) >= 3 {
		for _, it := range ix.items {
			if !strings.Contains(it.Name, nameText) && !strings.Contains(nameText, it.Name) {
				continue
			}
			if scores[it] == 0 {
				scores[it] = scoreSubstring
			} else {
				scores[it] += scoreSubstringBonus
			}
		}
	}

	// Attribute bonus for items whose name carries a requested color/size.
	for it, s := range scores {
		bonus := 0
		for _, tok := range append(append([]string(nil), attrs.Colors...), attrs.Sizes...) {
			if containsWord(it.Name, tok) {
				bonus += scoreAttribute
			}
		}
		scores[it] = s + bonus
	}

	// An exact full-name match scores a flat 100 and always ranks first.
	if hasExact {
		scores[exact] = scoreExact
	}

	results := make([]Result, 0, len(scores))
	for it, s := range scores {
		results = append(results, Result{Item: it, Score: s, Exact: hasExact && it == exact})
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if hasExact && (a.Item == exact) != (b.Item == exact) {
			return a.Item == exact
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return ix.pos[a.Item] < ix.pos[b.Item]
	})
	return results
}

// resolveWord maps one query word to catalog items via the staged fallback
// chain. The expensive approximate scan runs only when every earlier stage
// missed.
func (ix *Index) resolveWord(word string) []*Item {
	if items := ix.byWord[word]; len(items) > 0 {
		return items
	}
	if singular := match.Singularize(word); singular != word {
		if items := ix.byWord[singular]; len(items) > 0 {
			return items
		}
	}
	var viaSynonyms []*Item
	synonymSources := []string{word}
	if singular := match.Singularize(word); singular != word {
		synonymSources = append(synonymSources, singular)
	}
	for _, src := range synonymSources {
		for _, syn := range match.ExpandSynonyms(src) {
			for _, it := range ix.byWord[syn] {
				viaSynonyms = appendUnique(viaSynonyms, it)
			}
		}
	}
	if len(viaSynonyms) > 0 {
		return viaSynonyms
	}
	if len(word) >= 3 {
		if hit, ok := match.Approximate(word, ix.vocabulary, ix.fuzzyThreshold); ok {
			return ix.byWord[hit]
		}
	}
	return nil
}

func containsWord(name, tok string) bool {
	for _, w := range strings.Fields(name) {
		if w == tok {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
