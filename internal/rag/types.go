package rag

// Candidate is a chunk returned by vector search. ChunkIndex is nil when the
// caller does not know the chunk's position in the source transcript.
type Candidate struct {
	Content    string
	Similarity float64
	ChunkIndex *int
}

// Passage is one or more contiguous candidates merged into a single block of
// context. StartIndex is the first member's chunk index, nil when unknown.
type Passage struct {
	Content    string
	Similarity float64
	StartIndex *int
}
