package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tubechat/tubechat/internal/pkg/errcode"
	"github.com/tubechat/tubechat/internal/pkg/response"
	"github.com/tubechat/tubechat/internal/rag"
	"github.com/tubechat/tubechat/internal/service"
)

const defaultSearchLimit = 5

type SearchHandler struct {
	retrieval *service.RetrievalService
}

func NewSearchHandler(retrieval *service.RetrievalService) *SearchHandler {
	return &SearchHandler{retrieval: retrieval}
}

type searchRequest struct {
	VideoID string `json:"video_id"`
	Query   string `json:"query"`
	Limit   int    `json:"limit"`
}

type passageItem struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
	StartIndex *int    `json:"start_index,omitempty"`
}

func toPassageItems(passages []rag.Passage) []passageItem {
	items := make([]passageItem, 0, len(passages))
	for _, p := range passages {
		items = append(items, passageItem{
			Content:    p.Content,
			Similarity: p.Similarity,
			StartIndex: p.StartIndex,
		})
	}
	return items
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoID == "" || req.Query == "" {
		response.Error(c, errcode.ErrInvalid, "video_id and query required")
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	result, err := h.retrieval.Retrieve(c.Request.Context(), req.Query, req.VideoID, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": toPassageItems(result.Passages)})
}
