package match

import (
	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyThreshold is the minimum similarity (0-100) an indexed word
// must reach to count as an approximate match.
const DefaultFuzzyThreshold = 75

// Similarity returns the normalized edit-distance similarity between two
// words on a 0-100 scale: (maxLen - levenshtein) / maxLen * 100.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= maxLen {
		return 0
	}
	return (maxLen - dist) * 100 / maxLen
}

// Approximate finds the single best indexed word whose similarity to the
// query word is at or above the threshold. It scans the whole vocabulary, so
// callers invoke it only as the last-resort fallback for an unmatched word.
func Approximate(word string, vocabulary []string, threshold int) (string, bool) {
	best := ""
	bestScore := threshold - 1
	for _, candidate := range vocabulary {
		if s := Similarity(word, candidate); s > bestScore {
			best = candidate
			bestScore = s
		}
	}
	return best, best != ""
}

// WithinTolerance reports whether a typed token is close enough to a known
// phrase token. The tolerated edit distance grows with the known token's
// length (ratio of its length, floor of one edit) so that "siii" matches
// "si" without short tokens over-matching.
func WithinTolerance(typed, known string, ratio float64) bool {
	if typed == known {
		return true
	}
	maxDist := int(float64(len([]rune(known))) * ratio)
	if maxDist < 1 {
		maxDist = 1
	}
	return levenshtein.ComputeDistance(typed, known) <= maxDist
}
