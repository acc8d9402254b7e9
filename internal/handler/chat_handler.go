package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tubechat/tubechat/internal/ai"
	"github.com/tubechat/tubechat/internal/pkg/errcode"
	"github.com/tubechat/tubechat/internal/pkg/response"
	"github.com/tubechat/tubechat/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	VideoID  string        `json:"video_id"`
	Messages []chatMessage `json:"messages"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoID == "" || len(req.Messages) == 0 {
		response.Error(c, errcode.ErrInvalid, "video_id and messages required")
		return
	}
	messages := make([]ai.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}
	answer, err := h.chat.Answer(c.Request.Context(), req.VideoID, messages)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"answer": answer})
}

type topicsRequest struct {
	VideoID string `json:"video_id"`
	Topic   string `json:"topic"`
}

func (h *ChatHandler) SuggestQuestions(c *gin.Context) {
	var req topicsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoID == "" || req.Topic == "" {
		response.Error(c, errcode.ErrInvalid, "video_id and topic required")
		return
	}
	questions, err := h.chat.SuggestQuestions(c.Request.Context(), req.VideoID, req.Topic)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"questions": questions})
}
