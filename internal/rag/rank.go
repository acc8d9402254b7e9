package rag

import (
	"sort"
	"strings"
)

// Rerank rescales vector similarities with lexical signals: a fixed bonus per
// keyword found in the chunk content, a larger bonus when the original query
// appears verbatim, the sum capped at 1.0. Ties keep their original order.
// With no keywords there is no lexical signal and the input is returned as-is.
func Rerank(candidates []Candidate, keywords []string, originalQuery string, keywordBonus, phraseBonus float64) []Candidate {
	if len(keywords) == 0 {
		return candidates
	}

	query := strings.ToLower(originalQuery)
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		content := strings.ToLower(out[i].Content)
		score := out[i].Similarity
		for _, keyword := range keywords {
			if strings.Contains(content, strings.ToLower(keyword)) {
				score += keywordBonus
			}
		}
		if len(originalQuery) > 5 && strings.Contains(content, query) {
			score += phraseBonus
		}
		if score > 1.0 {
			score = 1.0
		}
		out[i].Similarity = score
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}
