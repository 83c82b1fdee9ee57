// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"strings"
	"unicode"
)

// minTitleSimilarity is the lowest title similarity collectors accept when
// matching search results against a paper.
const minTitleSimilarity = 0.6

// normalizeTitle returns a lowercased, punctuation-stripped version of the
// title with collapsed whitespace.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// titleSimilarity returns the Jaccard similarity of the two titles' token
// sets after normalization, in [0, 1]. Identical normalized titles score
// 1.0 regardless of tokenization.
func titleSimilarity(a, b string) float64 {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	setA := tokenSet(na)
	setB := tokenSet(nb)

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		set[tok] = true
	}
	return set
}
