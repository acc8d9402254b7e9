package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tubechat/tubechat/internal/model"
	"github.com/tubechat/tubechat/internal/pkg/errcode"
	"github.com/tubechat/tubechat/internal/pkg/response"
	"github.com/tubechat/tubechat/internal/repo"
	"github.com/tubechat/tubechat/internal/service"
)

const defaultRecentLimit = 20

type VideoHandler struct {
	ingest *service.IngestService
	videos *repo.VideoRepo
}

func NewVideoHandler(ingest *service.IngestService, videos *repo.VideoRepo) *VideoHandler {
	return &VideoHandler{ingest: ingest, videos: videos}
}

type createVideoRequest struct {
	URL string `json:"url"`
}

type videoItem struct {
	YoutubeID             string `json:"youtube_id"`
	Title                 string `json:"title"`
	Author                string `json:"author"`
	ThumbnailURL          string `json:"thumbnail_url"`
	IsGeneratedTranscript bool   `json:"is_generated_transcript"`
	Ctime                 int64  `json:"ctime"`
}

func toVideoItem(v *model.Video) videoItem {
	return videoItem{
		YoutubeID:             v.YoutubeID,
		Title:                 v.Title,
		Author:                v.Author,
		ThumbnailURL:          v.ThumbnailURL,
		IsGeneratedTranscript: v.IsGeneratedTranscript,
		Ctime:                 v.Ctime,
	}
}

func (h *VideoHandler) Create(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		response.Error(c, errcode.ErrInvalid, "url required")
		return
	}
	result, err := h.ingest.Process(c.Request.Context(), req.URL)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"video":                toVideoItem(result.Video),
		"already_processed":    result.AlreadyProcessed,
		"generated_transcript": result.GeneratedTranscript,
		"chunks_stored":        result.ChunksStored,
		"chunks_total":         result.ChunksTotal,
	})
}

func (h *VideoHandler) List(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, errcode.ErrInvalid, "invalid limit")
			return
		}
		limit = parsed
	}
	videos, err := h.videos.ListRecent(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	items := make([]videoItem, 0, len(videos))
	for i := range videos {
		items = append(items, toVideoItem(&videos[i]))
	}
	response.Success(c, gin.H{"items": items})
}
