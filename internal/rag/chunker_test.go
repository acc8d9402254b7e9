package rag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitEmptyTranscript(t *testing.T) {
	require.Empty(t, Split("", 500, 30))
	require.Empty(t, Split("   \n\t  ", 500, 30))
}

func TestSplitShortTranscriptSingleChunk(t *testing.T) {
	transcript := "one two three four five six seven eight nine ten"
	chunks := Split(transcript, 500, 30)
	require.Len(t, chunks, 1)
	require.Equal(t, transcript, chunks[0])
}

func TestSplitOverlapCarriesTrailingWords(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	chunks := Split(strings.Join(words, " "), 10, 2)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		curWords := strings.Fields(chunks[i])
		// Each chunk opens with the previous chunk's last two words.
		require.Equal(t, prevWords[len(prevWords)-2:], curWords[:2])
	}
}

func TestSplitReconstructsWordSequence(t *testing.T) {
	words := make([]string, 137)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	transcript := strings.Join(words, " ")
	overlap := 5
	chunks := Split(transcript, 80, overlap)
	require.Greater(t, len(chunks), 1)

	var rebuilt []string
	rebuilt = append(rebuilt, strings.Fields(chunks[0])...)
	for _, chunk := range chunks[1:] {
		chunkWords := strings.Fields(chunk)
		skip := overlap
		if skip > len(chunkWords) {
			skip = len(chunkWords)
		}
		rebuilt = append(rebuilt, chunkWords[skip:]...)
	}
	require.Equal(t, words, rebuilt)
}

func TestSplitChunkCountGrowsAsMaxLengthShrinks(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("tok%d", i)
	}
	transcript := strings.Join(words, " ")
	prev := 0
	for _, maxLen := range []int{800, 400, 200, 100} {
		count := len(Split(transcript, maxLen, 10))
		require.GreaterOrEqual(t, count, prev)
		prev = count
	}
}

func TestSplitOverlapClampedToBufferSize(t *testing.T) {
	// Every word alone exceeds maxLength, so the buffer flushes with a
	// single word in it while overlap asks for far more.
	chunks := Split("aaaaaaaaaa bbbbbbbbbb cccccccccc", 5, 30)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		require.NotEmpty(t, chunk)
	}
}
