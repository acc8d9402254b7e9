package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type ManagerConfig struct {
	Timeout        int
	ExpandMinChars int
}

// Manager wraps the configured generator and embedder with the prompts and
// guard rails of the video question-answering domain.
type Manager struct {
	generator IGenerator
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(generator IGenerator, embedder IEmbedder, cfg ManagerConfig) *Manager {
	if cfg.ExpandMinChars <= 0 {
		cfg.ExpandMinChars = 15
	}
	return &Manager{generator: generator, embedder: embedder, cfg: cfg}
}

// Embed normalizes text (newlines collapsed to spaces, trimmed) and returns
// its embedding vector. Failures always carry the underlying cause.
func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.embedder == nil {
		return nil, ErrUnavailable
	}
	input := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	embedding, err := m.embedder.Embed(ctx, input, taskType)
	if err != nil {
		return nil, fmt.Errorf("generate embeddings: %w", err)
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("generate embeddings: empty vector in response")
	}
	return embedding, nil
}

const expandSystemPrompt = `You are a search query expansion AI. Your task is to rewrite search queries to make them more effective for semantic search.
Expand the query by adding relevant terms, synonyms, and context while keeping it concise. Don't make it longer than 2-3 sentences.
Don't use phrases like "searching for information about". Just output the improved query directly.`

// ExpandQuery rewrites a user query into a richer semantic-search query.
// Queries below the configured length are returned untouched to save a model
// call, and any failure or runaway expansion falls back to the original query.
// This method never fails.
func (m *Manager) ExpandQuery(ctx context.Context, query string) string {
	if utf8.RuneCountInString(query) < m.cfg.ExpandMinChars {
		return query
	}
	if m.generator == nil {
		return query
	}
	expanded, err := m.generateText(ctx, expandSystemPrompt, []Message{
		{Role: "user", Content: fmt.Sprintf("Expand this query for semantic search: %q", query)},
	})
	if err != nil {
		logutil.GetLogger(ctx).Warn("query expansion failed", zap.Error(err))
		return query
	}
	if expanded == "" || utf8.RuneCountInString(expanded) > utf8.RuneCountInString(query)*3 {
		return query
	}
	return expanded
}

const answerSystemPrompt = `You are a helpful AI assistant that answers questions about YouTube videos.
Use the following content from the video transcript to answer the user's question.
If the answer cannot be found in the transcript, say "I couldn't find specific information about that in the video."

%s

%s`

const generatedTranscriptNote = "IMPORTANT: This video does not have captions available. The following is an AI-generated description based on the video title, not an actual transcript."

// Answer produces the final response for a chat turn, given the retrieved
// context block and the prior conversation.
func (m *Manager) Answer(ctx context.Context, messages []Message, contextBlock string, generatedTranscript bool) (string, error) {
	if m.generator == nil {
		return "", ErrUnavailable
	}
	intro := "Relevant content from the video:"
	if generatedTranscript {
		intro = generatedTranscriptNote
	}
	system := fmt.Sprintf(answerSystemPrompt, intro, contextBlock)
	return m.generateText(ctx, system, messages)
}

const suggestSystemPrompt = `You are a helpful AI assistant that generates insightful questions about YouTube video content.
Based on the following content from the video transcript, generate 3-5 specific, clear, and insightful questions that users might want to ask.
The questions should be directly related to the content and help users understand the video better.

%s

%s`

// SuggestQuestions generates follow-up questions grounded in the retrieved
// context block.
func (m *Manager) SuggestQuestions(ctx context.Context, contextBlock string, generatedTranscript bool) ([]string, error) {
	if m.generator == nil {
		return nil, ErrUnavailable
	}
	intro := "Content from the video:"
	if generatedTranscript {
		intro = generatedTranscriptNote
	}
	system := fmt.Sprintf(suggestSystemPrompt, intro, contextBlock)
	result, err := m.generateText(ctx, system, []Message{
		{Role: "user", Content: "Generate the questions now."},
	})
	if err != nil {
		return nil, err
	}
	questions := parseQuestions(result)
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions in ai response")
	}
	return questions, nil
}

const describeSystemPrompt = `You are an assistant that creates detailed descriptions of YouTube videos based on their titles. Create a comprehensive summary that could serve as a transcript alternative.`

// DescribeVideo generates a stand-in transcript from the video title, used
// when no captions are available.
func (m *Manager) DescribeVideo(ctx context.Context, title string) (string, error) {
	if m.generator == nil {
		return "", ErrUnavailable
	}
	prompt := fmt.Sprintf(`Create a detailed description for a YouTube video titled: %q.
The description should be comprehensive enough to answer questions about the video content.
Format it as if it were a transcript, with detailed information about what might be discussed in the video.
Include likely key points, explanations, and concepts that would be covered in a video with this title.
Make it at least 500 words long.`, title)
	return m.generateText(ctx, describeSystemPrompt, []Message{{Role: "user", Content: prompt}})
}

func (m *Manager) generateText(ctx context.Context, system string, messages []Message) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := m.generator.Generate(ctx, system, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

var questionPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

func parseQuestions(output string) []string {
	var questions []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		line = questionPrefix.ReplaceAllString(line, "")
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}
