// Package fuzzy provides the 0-100 string-similarity scoring used by the
// attribute matchers. Scores are token-sorted Levenshtein similarity, so
// word order and separators do not affect the result.
package fuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Ratio returns a similarity score between 0 and 100. Inputs are case-folded
// and their whitespace-separated tokens sorted before comparison.
func Ratio(a, b string) int {
	na, nb := normalize(a), normalize(b)
	if na == "" && nb == "" {
		return 100
	}
	sim := levenshtein.Similarity(na, nb, nil)
	return int(math.Round(sim * 100))
}

// ExtractOne scores query against every choice and returns the index of
// the best choice with its score. ok is false when choices is empty.
func ExtractOne(query string, choices []string) (index, score int, ok bool) {
	index, score = -1, -1
	for i, c := range choices {
		if s := Ratio(query, c); s > score {
			index, score = i, s
		}
	}
	return index, score, index >= 0
}

// Dedupe collapses values that score strictly above threshold against an
// earlier value, keeping the first occurrence. Order is preserved.
func Dedupe(values []string, threshold int) []string {
	var kept []string
	for _, v := range values {
		dup := false
		for _, k := range kept {
			if Ratio(v, k) > threshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, v)
		}
	}
	return kept
}

func normalize(s string) string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
