package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/tubechat/tubechat/internal/model"
	"github.com/tubechat/tubechat/internal/pkg/dbutil"
	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
)

type VideoRepo struct {
	db *sql.DB
}

func NewVideoRepo(db *sql.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) Create(ctx context.Context, video *model.Video) error {
	data := map[string]interface{}{
		"id":                      video.ID,
		"youtube_id":              video.YoutubeID,
		"title":                   video.Title,
		"author":                  video.Author,
		"thumbnail_url":           video.ThumbnailURL,
		"transcript":              video.Transcript,
		"is_generated_transcript": video.IsGeneratedTranscript,
		"ctime":                   video.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("videos", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *VideoRepo) GetByYoutubeID(ctx context.Context, youtubeID string) (*model.Video, error) {
	const query = `
		SELECT id, youtube_id, title, author, thumbnail_url, transcript, is_generated_transcript, ctime
		FROM videos
		WHERE youtube_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, youtubeID)
	var video model.Video
	err := row.Scan(
		&video.ID,
		&video.YoutubeID,
		&video.Title,
		&video.Author,
		&video.ThumbnailURL,
		&video.Transcript,
		&video.IsGeneratedTranscript,
		&video.Ctime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepo) ListRecent(ctx context.Context, limit int) ([]model.Video, error) {
	const query = `
		SELECT id, youtube_id, title, author, thumbnail_url, is_generated_transcript, ctime
		FROM videos
		ORDER BY ctime DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var videos []model.Video
	for rows.Next() {
		var video model.Video
		if err := rows.Scan(
			&video.ID,
			&video.YoutubeID,
			&video.Title,
			&video.Author,
			&video.ThumbnailURL,
			&video.IsGeneratedTranscript,
			&video.Ctime,
		); err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}
