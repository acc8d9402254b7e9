package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port             int              `json:"port"`
	LogConfig        logger.LogConfig `json:"log_config"`
	CORSAllowOrigins []string         `json:"cors_allow_origins"`
	Database         DatabaseConfig   `json:"database"`
	AI               AIConfig         `json:"ai"`
	Ingest           IngestConfig     `json:"ingest"`
	Retrieval        RetrievalConfig  `json:"retrieval"`
	Quota            QuotaConfig      `json:"quota"`
	Archive          ArchiveConfig    `json:"archive"`
	Cache            CacheConfig      `json:"cache"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIConfig struct {
	Provider       string       `json:"provider"`
	EmbedProvider  string       `json:"embed_provider"`
	GenerateModel  string       `json:"generate_model"`
	EmbedModel     string       `json:"embed_model"`
	TimeoutSeconds int          `json:"timeout_seconds"`
	Data           interface{}  `json:"data"`
	Fallback       *ProviderRef `json:"fallback"`
}

// ProviderRef names a secondary provider used when the primary one errors.
type ProviderRef struct {
	Provider      string      `json:"provider"`
	GenerateModel string      `json:"generate_model"`
	EmbedModel    string      `json:"embed_model"`
	Data          interface{} `json:"data"`
}

type IngestConfig struct {
	ChunkMaxLength    int `json:"chunk_max_length"`
	ChunkOverlapWords int `json:"chunk_overlap_words"`
	BatchSize         int `json:"batch_size"`
	BatchPauseSeconds int `json:"batch_pause_seconds"`
	ContentCapChars   int `json:"content_cap_chars"`
	RetryTruncateLen  int `json:"retry_truncate_len"`
}

type RetrievalConfig struct {
	SimilarityFloor  float64 `json:"similarity_floor"`
	MinContentLength int     `json:"min_content_length"`
	KeywordBonus     float64 `json:"keyword_bonus"`
	PhraseBonus      float64 `json:"phrase_bonus"`
	ExpandMinChars   int     `json:"expand_min_chars"`
}

type QuotaConfig struct {
	VideoPerDay  int `json:"video_per_day"`
	SearchPerDay int `json:"search_per_day"`
	ChatPerDay   int `json:"chat_per_day"`
}

type ArchiveConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type CacheConfig struct {
	LruSize     int    `json:"lru_size"`
	LruTTLHours int    `json:"lru_ttl_hours"`
	DBCache     bool   `json:"db_cache"`
	KeepDays    int    `json:"keep_days"`
	CleanupCron string `json:"cleanup_cron"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.EmbedProvider == "" {
		cfg.AI.EmbedProvider = cfg.AI.Provider
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.GenerateModel == "" {
		cfg.AI.GenerateModel = "gpt-4o"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "text-embedding-3-small"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	applyIngestDefaults(&cfg.Ingest)
	applyRetrievalDefaults(&cfg.Retrieval)
	applyQuotaDefaults(&cfg.Quota)
	applyCacheDefaults(&cfg.Cache)
	if cfg.Archive.Type == "" {
		cfg.Archive.Type = "none"
	}
	return &cfg, nil
}

func applyIngestDefaults(cfg *IngestConfig) {
	if cfg.ChunkMaxLength == 0 {
		cfg.ChunkMaxLength = 500
	}
	if cfg.ChunkOverlapWords == 0 {
		cfg.ChunkOverlapWords = 30
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 5
	}
	if cfg.BatchPauseSeconds == 0 {
		cfg.BatchPauseSeconds = 1
	}
	if cfg.ContentCapChars == 0 {
		cfg.ContentCapChars = 10000
	}
	if cfg.RetryTruncateLen == 0 {
		cfg.RetryTruncateLen = 1000
	}
}

// Scoring constants are empirically tuned, not derived. Keep them
// configurable rather than hard-coded.
func applyRetrievalDefaults(cfg *RetrievalConfig) {
	if cfg.SimilarityFloor == 0 {
		cfg.SimilarityFloor = 0.05
	}
	if cfg.MinContentLength == 0 {
		cfg.MinContentLength = 20
	}
	if cfg.KeywordBonus == 0 {
		cfg.KeywordBonus = 0.03
	}
	if cfg.PhraseBonus == 0 {
		cfg.PhraseBonus = 0.1
	}
	if cfg.ExpandMinChars == 0 {
		cfg.ExpandMinChars = 15
	}
}

func applyQuotaDefaults(cfg *QuotaConfig) {
	if cfg.VideoPerDay == 0 {
		cfg.VideoPerDay = 1
	}
	if cfg.SearchPerDay == 0 {
		cfg.SearchPerDay = 3
	}
	if cfg.ChatPerDay == 0 {
		cfg.ChatPerDay = 5
	}
}

func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.LruSize == 0 {
		cfg.LruSize = 10000
	}
	if cfg.LruTTLHours == 0 {
		cfg.LruTTLHours = 2
	}
	if cfg.KeepDays == 0 {
		cfg.KeepDays = 30
	}
	if cfg.CleanupCron == "" {
		cfg.CleanupCron = "0 4 * * *"
	}
}
