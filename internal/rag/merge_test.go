package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func idx(i int) *int {
	return &i
}

func TestMergeNeighborsCoalescesAdjacentRuns(t *testing.T) {
	candidates := []Candidate{
		{Content: "c0", Similarity: 0.9, ChunkIndex: idx(0)},
		{Content: "c1", Similarity: 0.8, ChunkIndex: idx(1)},
		{Content: "c2", Similarity: 0.7, ChunkIndex: idx(2)},
		{Content: "c5", Similarity: 0.6, ChunkIndex: idx(5)},
	}
	passages := MergeNeighbors(candidates)
	require.Len(t, passages, 2)

	require.Equal(t, "c0 c1 c2", passages[0].Content)
	require.InDelta(t, 0.8, passages[0].Similarity, 1e-9)
	require.NotNil(t, passages[0].StartIndex)
	require.Equal(t, 0, *passages[0].StartIndex)

	require.Equal(t, "c5", passages[1].Content)
	require.InDelta(t, 0.6, passages[1].Similarity, 1e-9)
	require.Equal(t, 5, *passages[1].StartIndex)
}

func TestMergeNeighborsGapOfTwoStartsNewGroup(t *testing.T) {
	candidates := []Candidate{
		{Content: "c0", Similarity: 0.5, ChunkIndex: idx(0)},
		{Content: "c2", Similarity: 0.5, ChunkIndex: idx(2)},
	}
	passages := MergeNeighbors(candidates)
	require.Len(t, passages, 2)
}

func TestMergeNeighborsOrdersBySimilarity(t *testing.T) {
	candidates := []Candidate{
		{Content: "c0", Similarity: 0.3, ChunkIndex: idx(0)},
		{Content: "c7", Similarity: 0.9, ChunkIndex: idx(7)},
	}
	passages := MergeNeighbors(candidates)
	require.Equal(t, "c7", passages[0].Content)
	require.Equal(t, "c0", passages[1].Content)
}

func TestMergeNeighborsWithoutIndicesPassesThrough(t *testing.T) {
	candidates := []Candidate{
		{Content: "low", Similarity: 0.2},
		{Content: "high", Similarity: 0.9},
	}
	passages := MergeNeighbors(candidates)
	require.Len(t, passages, 2)
	// No merging and no reordering without position information.
	require.Equal(t, "low", passages[0].Content)
	require.Equal(t, "high", passages[1].Content)
	require.Nil(t, passages[0].StartIndex)
}

func TestMergeNeighborsEmptyInput(t *testing.T) {
	require.Empty(t, MergeNeighbors(nil))
}

func TestMergeNeighborsUnsortedInputIsSortedByIndexFirst(t *testing.T) {
	candidates := []Candidate{
		{Content: "c3", Similarity: 0.4, ChunkIndex: idx(3)},
		{Content: "c2", Similarity: 0.6, ChunkIndex: idx(2)},
	}
	passages := MergeNeighbors(candidates)
	require.Len(t, passages, 1)
	require.Equal(t, "c2 c3", passages[0].Content)
	require.InDelta(t, 0.5, passages[0].Similarity, 1e-9)
	require.Equal(t, 2, *passages[0].StartIndex)
}
