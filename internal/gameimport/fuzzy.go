// Package gameimport reconciles user-supplied lists of game names
// against a reference catalog. It parses pasted text (plain, numbered,
// or CSV) into candidate titles, scores each one against every catalog
// entry, and classifies it as matched, ambiguous with suggestions, or
// unmatched.
package gameimport

import "strings"

// Similarity thresholds. These are business rules, not tuning knobs:
// clients render the preview differently on either side of each cutoff.
const (
	// considerThreshold is the floor below which a candidate is never
	// surfaced, not even as a suggestion.
	considerThreshold = 0.3

	// acceptThreshold is the score at which the top candidate is
	// accepted automatically.
	acceptThreshold = 0.7

	// substringScore is awarded when one normalized title contains the
	// other. It intentionally clears acceptThreshold.
	substringScore = 0.8

	// jaccardScale caps bag-of-words overlap at 0.7 so it can never
	// outrank a substring hit.
	jaccardScale = 0.7
)

// Score rates the similarity of two titles on [0,1]. Rules are checked
// in order and the first applicable one returns: exact match after
// normalization is 1.0, containment either way is 0.8, anything else is
// word-set Jaccard similarity scaled by 0.7.
func Score(input, target string) float64 {
	a := strings.ToLower(strings.TrimSpace(input))
	b := strings.ToLower(strings.TrimSpace(target))

	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return substringScore
	}
	return jaccard(a, b) * jaccardScale
}

// jaccard computes |intersection| / |union| over whitespace-separated
// word sets. Both inputs are already normalized.
func jaccard(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
