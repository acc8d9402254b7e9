package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
)

type timedTextResponse struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// FetchTranscript downloads the video's caption track via the timedtext
// endpoint and joins all caption lines into one string. Returns
// ErrNoCaptions when the video has no caption track for the language.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, lang string) (string, error) {
	if lang == "" {
		lang = "en"
	}
	endpoint := fmt.Sprintf("https://video.google.com/timedtext?lang=%s&v=%s",
		url.QueryEscape(lang), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch transcript: unexpected status %s", resp.Status)
	}

	var data timedTextResponse
	if err := xml.NewDecoder(resp.Body).Decode(&data); err != nil {
		// The endpoint answers 200 with an empty body when no track exists.
		return "", appErr.ErrNoCaptions
	}
	parts := make([]string, 0, len(data.Texts))
	for _, text := range data.Texts {
		value := strings.TrimSpace(text.Value)
		if value == "" {
			continue
		}
		parts = append(parts, value)
	}
	if len(parts) == 0 {
		return "", appErr.ErrNoCaptions
	}
	return strings.Join(parts, " "), nil
}
