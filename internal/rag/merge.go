package rag

import (
	"sort"
	"strings"
)

// MergeNeighbors coalesces candidates that are adjacent in the source
// transcript (chunk index exactly one apart) into single passages. Member
// contents are joined with a space, the passage similarity is the mean of its
// members', and the first member's index is kept for display ordering.
// Passages are returned most similar first; callers that want narrative order
// should re-sort by StartIndex. Candidates without any chunk index cannot be
// merged and pass through unchanged, in their original order.
func MergeNeighbors(candidates []Candidate) []Passage {
	if len(candidates) == 0 {
		return nil
	}

	hasIndex := false
	for _, c := range candidates {
		if c.ChunkIndex != nil {
			hasIndex = true
			break
		}
	}
	if !hasIndex {
		out := make([]Passage, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, Passage{Content: c.Content, Similarity: c.Similarity})
		}
		return out
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return indexOrZero(sorted[i]) < indexOrZero(sorted[j])
	})

	var merged []Passage
	group := []Candidate{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		cur := sorted[i]
		if cur.ChunkIndex != nil && prev.ChunkIndex != nil && *cur.ChunkIndex == *prev.ChunkIndex+1 {
			group = append(group, cur)
			continue
		}
		merged = append(merged, mergeGroup(group))
		group = []Candidate{cur}
	}
	merged = append(merged, mergeGroup(group))

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})
	return merged
}

func mergeGroup(group []Candidate) Passage {
	parts := make([]string, 0, len(group))
	sum := 0.0
	for _, c := range group {
		parts = append(parts, c.Content)
		sum += c.Similarity
	}
	passage := Passage{
		Content:    strings.Join(parts, " "),
		Similarity: sum / float64(len(group)),
	}
	if group[0].ChunkIndex != nil {
		idx := *group[0].ChunkIndex
		passage.StartIndex = &idx
	}
	return passage
}

func indexOrZero(c Candidate) int {
	if c.ChunkIndex == nil {
		return 0
	}
	return *c.ChunkIndex
}
