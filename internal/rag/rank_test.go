package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testKeywordBonus = 0.03
	testPhraseBonus  = 0.1
)

func TestRerankKeywordBonusDoesNotFlipStrongerVectorScore(t *testing.T) {
	candidates := []Candidate{
		{Content: "a cat sat", Similarity: 0.5},
		{Content: "a dog sat", Similarity: 0.6},
	}
	ranked := Rerank(candidates, []string{"cat"}, "cat", testKeywordBonus, testPhraseBonus)
	require.Len(t, ranked, 2)
	// 0.5 + 0.03 = 0.53 < 0.6, so the dog chunk keeps first place.
	require.Equal(t, "a dog sat", ranked[0].Content)
	require.InDelta(t, 0.6, ranked[0].Similarity, 1e-9)
	require.Equal(t, "a cat sat", ranked[1].Content)
	require.InDelta(t, 0.53, ranked[1].Similarity, 1e-9)
}

func TestRerankPhraseBonusFlipsOrder(t *testing.T) {
	candidates := []Candidate{
		{Content: "the cat sat on the mat", Similarity: 0.5},
		{Content: "a dog sat", Similarity: 0.6},
	}
	ranked := Rerank(candidates, []string{"cat", "sat"}, "cat sat", testKeywordBonus, testPhraseBonus)
	// 0.5 + 2*0.03 + 0.1 = 0.66 > 0.6 + 0.03 = 0.63.
	require.Equal(t, "the cat sat on the mat", ranked[0].Content)
	require.InDelta(t, 0.66, ranked[0].Similarity, 1e-9)
	require.InDelta(t, 0.63, ranked[1].Similarity, 1e-9)
}

func TestRerankEmptyKeywordsIsIdentity(t *testing.T) {
	candidates := []Candidate{
		{Content: "b", Similarity: 0.2},
		{Content: "a", Similarity: 0.9},
	}
	ranked := Rerank(candidates, nil, "some query", testKeywordBonus, testPhraseBonus)
	require.Equal(t, candidates, ranked)
}

func TestRerankCapsScoreAtOne(t *testing.T) {
	candidates := []Candidate{
		{Content: "gophers love gophers and more gophers", Similarity: 0.99},
	}
	ranked := Rerank(candidates, []string{"gophers", "love", "more"}, "gophers love", testKeywordBonus, testPhraseBonus)
	require.InDelta(t, 1.0, ranked[0].Similarity, 1e-9)
}

func TestRerankShortQueryGetsNoPhraseBonus(t *testing.T) {
	candidates := []Candidate{
		{Content: "cats everywhere", Similarity: 0.4},
	}
	ranked := Rerank(candidates, []string{"cats"}, "cats", testKeywordBonus, testPhraseBonus)
	require.InDelta(t, 0.43, ranked[0].Similarity, 1e-9)
}
