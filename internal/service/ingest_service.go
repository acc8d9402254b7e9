package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tubechat/tubechat/internal/ai"
	"github.com/tubechat/tubechat/internal/config"
	"github.com/tubechat/tubechat/internal/model"
	appErr "github.com/tubechat/tubechat/internal/pkg/errors"
	"github.com/tubechat/tubechat/internal/rag"
	"github.com/tubechat/tubechat/internal/youtube"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const generatedTranscriptNote = "[Note: This video does not have captions available. The following is an AI-generated description based on the video title.]"

type ingestAI interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	DescribeVideo(ctx context.Context, title string) (string, error)
}

type videoStore interface {
	GetByYoutubeID(ctx context.Context, youtubeID string) (*model.Video, error)
	Create(ctx context.Context, video *model.Video) error
}

type chunkStore interface {
	Create(ctx context.Context, chunk *model.VideoChunk) error
}

type videoSource interface {
	FetchMetadata(ctx context.Context, videoID string) youtube.Metadata
	FetchTranscript(ctx context.Context, videoID string, lang string) (string, error)
}

type transcriptArchive interface {
	Save(ctx context.Context, key string, data []byte) error
}

// ProcessResult reports what happened for one ingestion request.
type ProcessResult struct {
	Video               *model.Video `json:"video"`
	AlreadyProcessed    bool         `json:"already_processed"`
	GeneratedTranscript bool         `json:"generated_transcript"`
	ChunksStored        int          `json:"chunks_stored"`
	ChunksTotal         int          `json:"chunks_total"`
}

type IngestService struct {
	mgr     ingestAI
	videos  videoStore
	chunks  chunkStore
	source  videoSource
	archive transcriptArchive
	cfg     config.IngestConfig
	lang    string
	sleep   func(d time.Duration)
}

func NewIngestService(mgr ingestAI, videos videoStore, chunks chunkStore, source videoSource, archive transcriptArchive, cfg config.IngestConfig) *IngestService {
	return &IngestService{
		mgr:     mgr,
		videos:  videos,
		chunks:  chunks,
		source:  source,
		archive: archive,
		cfg:     cfg,
		lang:    "en",
		sleep:   time.Sleep,
	}
}

// Process ingests the video behind rawURL: fetch transcript, chunk, embed and
// store. Processing the same video twice is a no-op reporting
// AlreadyProcessed.
func (s *IngestService) Process(ctx context.Context, rawURL string) (*ProcessResult, error) {
	videoID, err := youtube.ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("youtube_id", videoID))
	if existing, err := s.videos.GetByYoutubeID(ctx, videoID); err == nil {
		logger.Info("video already processed")
		return &ProcessResult{Video: existing, AlreadyProcessed: true, GeneratedTranscript: existing.IsGeneratedTranscript}, nil
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}

	meta := s.source.FetchMetadata(ctx, videoID)
	transcript, generated, err := s.resolveTranscript(ctx, videoID, meta.Title)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, appErr.ErrEmptyTranscript
	}
	s.archiveTranscript(ctx, videoID, transcript)

	video := &model.Video{
		ID:                    newID(),
		YoutubeID:             videoID,
		Title:                 meta.Title,
		Author:                meta.Author,
		ThumbnailURL:          meta.ThumbnailURL,
		Transcript:            transcript,
		IsGeneratedTranscript: generated,
		Ctime:                 time.Now().Unix(),
	}
	if err := s.videos.Create(ctx, video); err != nil {
		if appErr.IsConflict(err) {
			// Lost a race with a concurrent request for the same video.
			existing, gerr := s.videos.GetByYoutubeID(ctx, videoID)
			if gerr != nil {
				return nil, gerr
			}
			return &ProcessResult{Video: existing, AlreadyProcessed: true, GeneratedTranscript: existing.IsGeneratedTranscript}, nil
		}
		return nil, fmt.Errorf("create video record: %w", err)
	}

	chunks := rag.Split(transcript, s.cfg.ChunkMaxLength, s.cfg.ChunkOverlapWords)
	if len(chunks) == 0 {
		return nil, appErr.ErrEmptyTranscript
	}
	stored := s.storeChunks(ctx, video.ID, chunks)
	logger.Info("video ingested",
		zap.Int("chunks_total", len(chunks)), zap.Int("chunks_stored", stored),
		zap.Bool("generated_transcript", generated))
	if stored == 0 {
		return nil, appErr.ErrIngestionFailed
	}
	return &ProcessResult{
		Video:               video,
		GeneratedTranscript: generated,
		ChunksStored:        stored,
		ChunksTotal:         len(chunks),
	}, nil
}

func (s *IngestService) resolveTranscript(ctx context.Context, videoID string, title string) (string, bool, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("youtube_id", videoID))
	transcript, err := s.source.FetchTranscript(ctx, videoID, s.lang)
	if err == nil {
		return transcript, false, nil
	}
	logger.Warn("caption fetch failed, generating description from title", zap.Error(err))
	desc, derr := s.mgr.DescribeVideo(ctx, title)
	if derr != nil {
		return "", false, fmt.Errorf("no captions and description generation failed: %w", derr)
	}
	return generatedTranscriptNote + "\n\n" + desc, true, nil
}

func (s *IngestService) archiveTranscript(ctx context.Context, videoID string, transcript string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(ctx, videoID+".txt", []byte(transcript)); err != nil {
		logutil.GetLogger(ctx).Warn("archive transcript failed",
			zap.String("youtube_id", videoID), zap.Error(err))
	}
}

// storeChunks embeds and stores chunks in concurrent batches with a pause in
// between, so a long transcript does not burst the embedding provider.
func (s *IngestService) storeChunks(ctx context.Context, videoID string, chunks []string) int {
	stored := 0
	pause := time.Duration(s.cfg.BatchPauseSeconds) * time.Second
	for start := 0; start < len(chunks); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		oks := make([]bool, len(batch))
		var wg sync.WaitGroup
		for i, content := range batch {
			wg.Add(1)
			go func(i int, index int, content string) {
				defer wg.Done()
				oks[i] = s.storeChunk(ctx, videoID, index, content)
			}(i, start+i, content)
		}
		wg.Wait()
		for _, ok := range oks {
			if ok {
				stored++
			}
		}
		if end < len(chunks) && pause > 0 {
			s.sleep(pause)
		}
	}
	return stored
}

// storeChunk embeds one chunk and inserts it. An embedding failure gets one
// retry with the content truncated; a store failure does not.
func (s *IngestService) storeChunk(ctx context.Context, videoID string, index int, content string) bool {
	logger := logutil.GetLogger(ctx).With(zap.String("video_id", videoID), zap.Int("chunk_index", index))
	embedding, err := s.mgr.Embed(ctx, content, ai.TaskRetrievalDocument)
	if err != nil {
		logger.Warn("embed chunk failed", zap.Error(err))
		if utf8.RuneCountInString(content) <= s.cfg.RetryTruncateLen {
			return false
		}
		content = truncateChars(content, s.cfg.RetryTruncateLen)
		embedding, err = s.mgr.Embed(ctx, content, ai.TaskRetrievalDocument)
		if err != nil {
			logger.Warn("embed truncated chunk failed", zap.Error(err))
			return false
		}
	}
	content = truncateChars(content, s.cfg.ContentCapChars)
	chunk := &model.VideoChunk{
		VideoID:    videoID,
		ChunkIndex: index,
		Content:    content,
		Embedding:  embedding,
		Ctime:      time.Now().Unix(),
	}
	if err := s.chunks.Create(ctx, chunk); err != nil {
		logger.Warn("store chunk failed", zap.Error(err))
		return false
	}
	return true
}

// truncateChars limits a string to max characters, never splitting a
// multi-byte rune. Caps are in characters so non-ASCII transcripts keep
// valid text.
func truncateChars(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func newID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
