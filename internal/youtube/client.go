// Package youtube talks to YouTube's public surfaces: oEmbed for video
// metadata and the timedtext endpoint for captions. No API key is required.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
)

var videoIDPattern = regexp.MustCompile(`(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// ExtractVideoID pulls the 11-character video ID out of any of the usual
// YouTube URL shapes. Returns ErrInvalidURL when none is found.
func ExtractVideoID(rawURL string) (string, error) {
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil || len(match[2]) != 11 {
		return "", appErr.ErrInvalidURL
	}
	return match[2], nil
}

type Metadata struct {
	Title        string
	Author       string
	ThumbnailURL string
}

type Client struct {
	client *http.Client
}

func NewClient() *Client {
	return &Client{client: &http.Client{Timeout: 10 * time.Second}}
}

type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FetchMetadata resolves title and author via oEmbed. It degrades to a
// placeholder title rather than failing, matching how the rest of ingestion
// treats metadata as best-effort.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) Metadata {
	fallback := Metadata{
		Title:        fmt.Sprintf("YouTube Video %s", videoID),
		Author:       "Unknown",
		ThumbnailURL: thumbnailURL(videoID),
	}
	endpoint := "https://www.youtube.com/oembed?format=json&url=" +
		url.QueryEscape("https://www.youtube.com/watch?v="+videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fallback
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logutil.GetLogger(ctx).Warn("oembed request failed", zap.String("video_id", videoID), zap.Error(err))
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logutil.GetLogger(ctx).Warn("oembed request rejected", zap.String("video_id", videoID), zap.Int("status", resp.StatusCode))
		return fallback
	}
	var data oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fallback
	}
	if data.Title == "" {
		return fallback
	}
	return Metadata{
		Title:        data.Title,
		Author:       data.AuthorName,
		ThumbnailURL: thumbnailURL(videoID),
	}
}

func thumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}
