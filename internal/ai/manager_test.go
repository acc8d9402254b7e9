package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	output string
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ []Message) (string, error) {
	f.calls++
	return f.output, f.err
}

type fakeEmbedder struct {
	input  string
	output []float32
	err    error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string, _ string) ([]float32, error) {
	f.input = text
	return f.output, f.err
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embed"
}

func TestEmbedNormalizesInput(t *testing.T) {
	embedder := &fakeEmbedder{output: []float32{1, 2}}
	mgr := NewManager(nil, embedder, ManagerConfig{})
	vec, err := mgr.Embed(context.Background(), "  line one\nline two\n", TaskRetrievalQuery)
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2}, vec)
	require.Equal(t, "line one line two", embedder.input)
}

func TestEmbedEmptyVector(t *testing.T) {
	mgr := NewManager(nil, &fakeEmbedder{output: nil}, ManagerConfig{})
	_, err := mgr.Embed(context.Background(), "text", TaskRetrievalQuery)
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty vector")
}

func TestEmbedWrapsProviderError(t *testing.T) {
	cause := errors.New("quota exhausted")
	mgr := NewManager(nil, &fakeEmbedder{err: cause}, ManagerConfig{})
	_, err := mgr.Embed(context.Background(), "text", TaskRetrievalQuery)
	require.ErrorIs(t, err, cause)
}

func TestExpandQuerySkipsShortQueries(t *testing.T) {
	gen := &fakeGenerator{output: "should not be used"}
	mgr := NewManager(gen, nil, ManagerConfig{ExpandMinChars: 15})
	require.Equal(t, "short", mgr.ExpandQuery(context.Background(), "short"))
	require.Zero(t, gen.calls)
}

func TestExpandQueryUsesExpansion(t *testing.T) {
	gen := &fakeGenerator{output: "kubernetes cluster network configuration"}
	mgr := NewManager(gen, nil, ManagerConfig{ExpandMinChars: 15})
	got := mgr.ExpandQuery(context.Background(), "kubernetes networking basics")
	require.Equal(t, "kubernetes cluster network configuration", got)
}

func TestExpandQueryFallsBackOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	mgr := NewManager(gen, nil, ManagerConfig{ExpandMinChars: 15})
	require.Equal(t, "kubernetes networking basics", mgr.ExpandQuery(context.Background(), "kubernetes networking basics"))
}

func TestExpandQueryDiscardsRunawayExpansion(t *testing.T) {
	query := "kubernetes networking"
	long := make([]byte, len(query)*3+1)
	for i := range long {
		long[i] = 'x'
	}
	gen := &fakeGenerator{output: string(long)}
	mgr := NewManager(gen, nil, ManagerConfig{ExpandMinChars: 15})
	require.Equal(t, query, mgr.ExpandQuery(context.Background(), query))
}

func TestExpandQuerySkipsShortMultibyteQueries(t *testing.T) {
	// 6 characters but 18 bytes; the threshold counts characters.
	gen := &fakeGenerator{output: "should not be used"}
	mgr := NewManager(gen, nil, ManagerConfig{ExpandMinChars: 15})
	require.Equal(t, "日本語を学ぶ", mgr.ExpandQuery(context.Background(), "日本語を学ぶ"))
	require.Zero(t, gen.calls)
}

func TestExpandQueryRunawayCheckCountsCharacters(t *testing.T) {
	// 25 characters of expansion for a 20-character query is within the 3x
	// budget even though the expansion is 75 bytes.
	query := "tell me about gopher" // 20 chars
	expansion := strings.Repeat("穴", 25)
	gen := &fakeGenerator{output: expansion}
	mgr := NewManager(gen, nil, ManagerConfig{ExpandMinChars: 15})
	require.Equal(t, expansion, mgr.ExpandQuery(context.Background(), query))
}

func TestSuggestQuestionsParsesNumberedList(t *testing.T) {
	gen := &fakeGenerator{output: "1. What is a gopher?\n2) Why do they dig?\n- How deep?\n\n"}
	mgr := NewManager(gen, nil, ManagerConfig{})
	questions, err := mgr.SuggestQuestions(context.Background(), "context", false)
	require.NoError(t, err)
	require.Equal(t, []string{"What is a gopher?", "Why do they dig?", "How deep?"}, questions)
}

func TestSuggestQuestionsEmptyOutput(t *testing.T) {
	gen := &fakeGenerator{output: "   \n \n"}
	mgr := NewManager(gen, nil, ManagerConfig{})
	_, err := mgr.SuggestQuestions(context.Background(), "context", false)
	require.Error(t, err)
}

func TestAnswerUnavailableWithoutGenerator(t *testing.T) {
	mgr := NewManager(nil, nil, ManagerConfig{})
	_, err := mgr.Answer(context.Background(), []Message{{Role: "user", Content: "q"}}, "ctx", false)
	require.ErrorIs(t, err, ErrUnavailable)
}
