package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tubechat/tubechat/internal/config"
	"github.com/tubechat/tubechat/internal/model"
	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
	"github.com/tubechat/tubechat/internal/repo"
)

type fakeRetrievalAI struct {
	expanded   string
	embedCalls int
	embedded   string
}

func (f *fakeRetrievalAI) ExpandQuery(_ context.Context, query string) string {
	if f.expanded != "" {
		return f.expanded
	}
	return query
}

func (f *fakeRetrievalAI) Embed(_ context.Context, text string, _ string) ([]float32, error) {
	f.embedCalls++
	f.embedded = text
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeVideoFinder struct {
	videos map[string]*model.Video
}

func (f *fakeVideoFinder) GetByYoutubeID(_ context.Context, youtubeID string) (*model.Video, error) {
	v, ok := f.videos[youtubeID]
	if !ok {
		return nil, appErr.ErrVideoNotFound
	}
	return v, nil
}

type fakeChunkSearcher struct {
	count       int
	results     []repo.SearchResult
	gotLimit    int
	gotFloor    float64
	gotMinLen   int
	searchCalls int
}

func (f *fakeChunkSearcher) CountByVideo(_ context.Context, _ string) (int, error) {
	return f.count, nil
}

func (f *fakeChunkSearcher) Search(_ context.Context, _ string, _ []float32, threshold float64, limit int, minContentLength int) ([]repo.SearchResult, error) {
	f.searchCalls++
	f.gotFloor = threshold
	f.gotLimit = limit
	f.gotMinLen = minContentLength
	return f.results, nil
}

func retrievalTestConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		SimilarityFloor:  0.05,
		MinContentLength: 20,
		KeywordBonus:     0.03,
		PhraseBonus:      0.1,
		ExpandMinChars:   15,
	}
}

func TestRetrieveUnknownVideo(t *testing.T) {
	svc := NewRetrievalService(&fakeRetrievalAI{}, &fakeVideoFinder{videos: map[string]*model.Video{}}, &fakeChunkSearcher{}, retrievalTestConfig())
	_, err := svc.Retrieve(context.Background(), "anything", "missing00000", 5)
	require.ErrorIs(t, err, appErr.ErrVideoNotFound)
}

func TestRetrieveEmptyVideo(t *testing.T) {
	mgr := &fakeRetrievalAI{}
	chunks := &fakeChunkSearcher{count: 0}
	videos := &fakeVideoFinder{videos: map[string]*model.Video{
		"abc12345678": {ID: "v1", YoutubeID: "abc12345678"},
	}}
	svc := NewRetrievalService(mgr, videos, chunks, retrievalTestConfig())
	res, err := svc.Retrieve(context.Background(), "anything", "abc12345678", 5)
	require.NoError(t, err)
	require.Empty(t, res.Passages)
	require.Equal(t, "v1", res.Video.ID)
	require.Zero(t, mgr.embedCalls)
	require.Zero(t, chunks.searchCalls)
}

func TestRetrieveOverFetchAndThreshold(t *testing.T) {
	mgr := &fakeRetrievalAI{}
	chunks := &fakeChunkSearcher{count: 10}
	videos := &fakeVideoFinder{videos: map[string]*model.Video{
		"abc12345678": {ID: "v1", YoutubeID: "abc12345678"},
	}}
	svc := NewRetrievalService(mgr, videos, chunks, retrievalTestConfig())
	res, err := svc.Retrieve(context.Background(), "anything", "abc12345678", 5)
	require.NoError(t, err)
	require.Empty(t, res.Passages)
	require.Equal(t, 10, chunks.gotLimit)
	require.Equal(t, 0.05, chunks.gotFloor)
	require.Equal(t, 20, chunks.gotMinLen)
}

func TestRetrieveEmbedsExpandedQuery(t *testing.T) {
	mgr := &fakeRetrievalAI{expanded: "a much longer expansion of the query"}
	chunks := &fakeChunkSearcher{count: 3}
	videos := &fakeVideoFinder{videos: map[string]*model.Video{
		"abc12345678": {ID: "v1", YoutubeID: "abc12345678"},
	}}
	svc := NewRetrievalService(mgr, videos, chunks, retrievalTestConfig())
	_, err := svc.Retrieve(context.Background(), "short query", "abc12345678", 5)
	require.NoError(t, err)
	require.Equal(t, 1, mgr.embedCalls)
	require.Equal(t, "a much longer expansion of the query", mgr.embedded)
}

func TestRetrieveRanksMergesAndTruncates(t *testing.T) {
	mgr := &fakeRetrievalAI{}
	chunks := &fakeChunkSearcher{
		count: 10,
		results: []repo.SearchResult{
			{ChunkIndex: 4, Content: "completely unrelated filler text", Similarity: 0.9},
			{ChunkIndex: 1, Content: "the gopher digs a burrow", Similarity: 0.6},
			{ChunkIndex: 2, Content: "inside the burrow the gopher sleeps", Similarity: 0.5},
			{ChunkIndex: 7, Content: "more filler about nothing", Similarity: 0.3},
		},
	}
	videos := &fakeVideoFinder{videos: map[string]*model.Video{
		"abc12345678": {ID: "v1", YoutubeID: "abc12345678"},
	}}
	svc := NewRetrievalService(mgr, videos, chunks, retrievalTestConfig())
	res, err := svc.Retrieve(context.Background(), "gopher burrow", "abc12345678", 2)
	require.NoError(t, err)
	// Keyword bonuses give 0.66 and 0.56 to the gopher chunks, still below
	// the 0.9 filler. Truncation to 2 keeps the filler and the top gopher
	// chunk; chunk 2 is cut before merging, so nothing merges.
	require.Len(t, res.Passages, 2)
	require.Equal(t, "completely unrelated filler text", res.Passages[0].Content)
	require.Equal(t, "the gopher digs a burrow", res.Passages[1].Content)
}

func TestRetrieveMergesAdjacentChunks(t *testing.T) {
	mgr := &fakeRetrievalAI{}
	chunks := &fakeChunkSearcher{
		count: 10,
		results: []repo.SearchResult{
			{ChunkIndex: 1, Content: "the gopher digs a burrow", Similarity: 0.8},
			{ChunkIndex: 2, Content: "inside the burrow the gopher sleeps", Similarity: 0.6},
		},
	}
	videos := &fakeVideoFinder{videos: map[string]*model.Video{
		"abc12345678": {ID: "v1", YoutubeID: "abc12345678"},
	}}
	svc := NewRetrievalService(mgr, videos, chunks, retrievalTestConfig())
	res, err := svc.Retrieve(context.Background(), "", "abc12345678", 5)
	require.NoError(t, err)
	require.Len(t, res.Passages, 1)
	require.Equal(t, "the gopher digs a burrow inside the burrow the gopher sleeps", res.Passages[0].Content)
	require.InDelta(t, 0.7, res.Passages[0].Similarity, 1e-9)
	require.NotNil(t, res.Passages[0].StartIndex)
	require.Equal(t, 1, *res.Passages[0].StartIndex)
}
