package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/pgvector/pgvector-go"

	"github.com/tubechat/tubechat/internal/model"
	"github.com/tubechat/tubechat/internal/pkg/dbutil"
)

type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

func (r *ChunkRepo) Create(ctx context.Context, chunk *model.VideoChunk) error {
	data := map[string]interface{}{
		"video_id":    chunk.VideoID,
		"chunk_index": chunk.ChunkIndex,
		"content":     chunk.Content,
		"embedding":   pgvector.NewVector(chunk.Embedding),
		"ctime":       chunk.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("video_chunks", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ChunkRepo) CountByVideo(ctx context.Context, videoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM video_chunks WHERE video_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, videoID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SearchResult is one nearest-neighbor match with its cosine similarity.
type SearchResult struct {
	ChunkIndex int
	Content    string
	Similarity float64
}

// Search returns up to limit chunks of the video whose embedding similarity
// to queryEmbedding exceeds threshold, nearest first. Chunks shorter than
// minContentLength are skipped as noise.
func (r *ChunkRepo) Search(ctx context.Context, videoID string, queryEmbedding []float32, threshold float64, limit int, minContentLength int) ([]SearchResult, error) {
	const query = `
		SELECT chunk_index, content, 1 - (embedding <=> $1) AS similarity
		FROM video_chunks
		WHERE video_id = $2
			AND length(content) >= $3
			AND 1 - (embedding <=> $1) > $4
		ORDER BY embedding <=> $1
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query,
		pgvector.NewVector(queryEmbedding),
		videoID,
		minContentLength,
		threshold,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []SearchResult
	for rows.Next() {
		var result SearchResult
		if err := rows.Scan(&result.ChunkIndex, &result.Content, &result.Similarity); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
