package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tubechat/tubechat/internal/config"
	"github.com/tubechat/tubechat/internal/middleware"
)

type RouterDeps struct {
	Videos *VideoHandler
	Search *SearchHandler
	Chat   *ChatHandler
	Quota  config.QuotaConfig
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/videos", middleware.DailyQuota("video", deps.Quota.VideoPerDay), deps.Videos.Create)
	api.GET("/videos", deps.Videos.List)
	api.POST("/search", middleware.DailyQuota("search", deps.Quota.SearchPerDay), deps.Search.Search)
	api.POST("/chat", middleware.DailyQuota("chat", deps.Quota.ChatPerDay), deps.Chat.Chat)
	api.POST("/topics", middleware.DailyQuota("chat", deps.Quota.ChatPerDay), deps.Chat.SuggestQuestions)
}
