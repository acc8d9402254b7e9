package service

import (
	"context"
	"fmt"

	"github.com/tubechat/tubechat/internal/ai"
	"github.com/tubechat/tubechat/internal/config"
	"github.com/tubechat/tubechat/internal/model"
	"github.com/tubechat/tubechat/internal/rag"
	"github.com/tubechat/tubechat/internal/repo"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type retrievalAI interface {
	ExpandQuery(ctx context.Context, query string) string
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

type videoFinder interface {
	GetByYoutubeID(ctx context.Context, youtubeID string) (*model.Video, error)
}

type chunkSearcher interface {
	CountByVideo(ctx context.Context, videoID string) (int, error)
	Search(ctx context.Context, videoID string, embedding []float32, threshold float64, limit int, minContentLength int) ([]repo.SearchResult, error)
}

// RetrievalResult carries the retrieved passages together with the video
// they came from, so callers can inspect video attributes without a second
// lookup.
type RetrievalResult struct {
	Video    *model.Video
	Passages []rag.Passage
}

type RetrievalService struct {
	mgr    retrievalAI
	videos videoFinder
	chunks chunkSearcher
	cfg    config.RetrievalConfig
}

func NewRetrievalService(mgr retrievalAI, videos videoFinder, chunks chunkSearcher, cfg config.RetrievalConfig) *RetrievalService {
	return &RetrievalService{mgr: mgr, videos: videos, chunks: chunks, cfg: cfg}
}

// Retrieve resolves the video, embeds the (possibly expanded) query and
// returns up to limit passages ordered by relevance. A video with no stored
// chunks yields an empty result, not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, youtubeID string, limit int) (*RetrievalResult, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("youtube_id", youtubeID))
	video, err := s.videos.GetByYoutubeID(ctx, youtubeID)
	if err != nil {
		return nil, err
	}
	count, err := s.chunks.CountByVideo(ctx, video.ID)
	if err != nil {
		return nil, fmt.Errorf("count video chunks: %w", err)
	}
	if count == 0 {
		logger.Warn("video has no stored chunks")
		return &RetrievalResult{Video: video}, nil
	}
	expanded := s.mgr.ExpandQuery(ctx, query)
	embedding, err := s.mgr.Embed(ctx, expanded, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	// Over-fetch so reranking has extra candidates to promote.
	results, err := s.chunks.Search(ctx, video.ID, embedding, s.cfg.SimilarityFloor, limit*2, s.cfg.MinContentLength)
	if err != nil {
		return nil, fmt.Errorf("search video chunks: %w", err)
	}
	if len(results) == 0 {
		return &RetrievalResult{Video: video}, nil
	}
	candidates := make([]rag.Candidate, 0, len(results))
	for _, r := range results {
		idx := r.ChunkIndex
		candidates = append(candidates, rag.Candidate{
			Content:    r.Content,
			Similarity: r.Similarity,
			ChunkIndex: &idx,
		})
	}
	keywords := rag.ExtractKeywords(query)
	ranked := rag.Rerank(candidates, keywords, query, s.cfg.KeywordBonus, s.cfg.PhraseBonus)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	passages := rag.MergeNeighbors(ranked)
	if len(passages) > limit {
		passages = passages[:limit]
	}
	logger.Debug("retrieval finished",
		zap.Int("candidate_count", len(results)), zap.Int("passage_count", len(passages)))
	return &RetrievalResult{Video: video, Passages: passages}, nil
}
