package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tubechat/tubechat/internal/ai"
	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
	"github.com/tubechat/tubechat/internal/rag"
)

const (
	answerPassageLimit  = 10
	suggestPassageLimit = 8
)

type retriever interface {
	Retrieve(ctx context.Context, query string, youtubeID string, limit int) (*RetrievalResult, error)
}

type chatAI interface {
	Answer(ctx context.Context, messages []ai.Message, contextBlock string, generatedTranscript bool) (string, error)
	SuggestQuestions(ctx context.Context, contextBlock string, generatedTranscript bool) ([]string, error)
}

type ChatService struct {
	retrieval retriever
	mgr       chatAI
}

func NewChatService(retrieval retriever, mgr chatAI) *ChatService {
	return &ChatService{retrieval: retrieval, mgr: mgr}
}

// Answer grounds a reply to the last user message on passages retrieved from
// the video transcript.
func (s *ChatService) Answer(ctx context.Context, youtubeID string, messages []ai.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: empty message list", appErr.ErrInvalid)
	}
	question := strings.TrimSpace(messages[len(messages)-1].Content)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", appErr.ErrInvalid)
	}
	res, err := s.retrieval.Retrieve(ctx, question, youtubeID, answerPassageLimit)
	if err != nil {
		return "", err
	}
	if len(res.Passages) == 0 {
		return "", appErr.ErrNoContent
	}
	return s.mgr.Answer(ctx, messages, formatPassages(res.Passages), res.Video.IsGeneratedTranscript)
}

// SuggestQuestions proposes follow-up questions about a topic, grounded on
// transcript passages relevant to it.
func (s *ChatService) SuggestQuestions(ctx context.Context, youtubeID string, topic string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", appErr.ErrInvalid)
	}
	res, err := s.retrieval.Retrieve(ctx, topic, youtubeID, suggestPassageLimit)
	if err != nil {
		return nil, err
	}
	if len(res.Passages) == 0 {
		return nil, appErr.ErrNoContent
	}
	return s.mgr.SuggestQuestions(ctx, formatPassages(res.Passages), res.Video.IsGeneratedTranscript)
}

// formatPassages renders retrieved passages as the context block handed to
// the language model, tagging each with its relevance percentage.
func formatPassages(passages []rag.Passage) string {
	parts := make([]string, 0, len(passages))
	for i, p := range passages {
		relevance := int(math.Round(p.Similarity * 100))
		parts = append(parts, fmt.Sprintf("[Segment %d (relevance: %d%%)]: %s", i+1, relevance, p.Content))
	}
	return strings.Join(parts, "\n\n")
}
