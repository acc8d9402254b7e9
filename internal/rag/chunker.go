package rag

import "strings"

// Split breaks a transcript into word-bounded chunks. Words accumulate until
// the joined length reaches maxLength, then the buffer is emitted and reset to
// its last overlap words so context survives the cut. The final partial buffer
// is emitted as-is. An empty or whitespace-only transcript yields no chunks.
func Split(transcript string, maxLength int, overlap int) []string {
	words := strings.Fields(transcript)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	joinedLen := 0
	for _, word := range words {
		if len(current) > 0 {
			joinedLen++
		}
		current = append(current, word)
		joinedLen += len(word)

		if joinedLen >= maxLength {
			chunks = append(chunks, strings.Join(current, " "))
			keep := overlap
			if keep > len(current) {
				keep = len(current)
			}
			tail := make([]string, keep)
			copy(tail, current[len(current)-keep:])
			current = tail
			joinedLen = len(strings.Join(current, " "))
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
