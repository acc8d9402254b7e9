package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/tubechat/tubechat/internal/pkg/errcode"
	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
	"github.com/tubechat/tubechat/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalidURL):
		response.Error(c, errcode.ErrInvalidURL, "invalid youtube url")
	case errors.Is(err, appErr.ErrVideoNotFound):
		response.Error(c, errcode.ErrVideoNotFound, "video not found")
	case errors.Is(err, appErr.ErrNoContent):
		response.Error(c, errcode.ErrNoContent, "no relevant content found")
	case errors.Is(err, appErr.ErrNoCaptions):
		response.Error(c, errcode.ErrNoCaptions, "no captions available")
	case errors.Is(err, appErr.ErrEmptyTranscript):
		response.Error(c, errcode.ErrEmptyTranscript, "transcript is empty")
	case errors.Is(err, appErr.ErrIngestionFailed):
		response.Error(c, errcode.ErrIngestionFailed, "video could not be processed")
	case errors.Is(err, appErr.ErrAIUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai provider unavailable")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
