package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/tubechat/tubechat/internal/ai"
	"github.com/tubechat/tubechat/internal/config"
	"github.com/tubechat/tubechat/internal/db"
	"github.com/tubechat/tubechat/internal/embedcache"
	"github.com/tubechat/tubechat/internal/filestore"
	"github.com/tubechat/tubechat/internal/handler"
	"github.com/tubechat/tubechat/internal/job"
	"github.com/tubechat/tubechat/internal/middleware"
	"github.com/tubechat/tubechat/internal/repo"
	"github.com/tubechat/tubechat/internal/schedule"
	"github.com/tubechat/tubechat/internal/service"
	"github.com/tubechat/tubechat/internal/youtube"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "tubechat",
		Short: "tubechat backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run tubechat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			_ = godotenv.Load()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func buildGenerator(cfg config.AIConfig) (ai.IGenerator, error) {
	provider, err := ai.NewProvider(cfg.Provider, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("init ai provider: %w", err)
	}
	primary := ai.NewGenerator(provider, cfg.GenerateModel)
	if cfg.Fallback == nil {
		return primary, nil
	}
	fallbackProvider, err := ai.NewProvider(cfg.Fallback.Provider, cfg.Fallback.Data)
	if err != nil {
		return nil, fmt.Errorf("init fallback ai provider: %w", err)
	}
	model := cfg.Fallback.GenerateModel
	if model == "" {
		model = cfg.GenerateModel
	}
	return ai.NewGroupGenerator([]ai.GeneratorEntry{
		{Name: cfg.Provider, Generator: primary},
		{Name: cfg.Fallback.Provider, Generator: ai.NewGenerator(fallbackProvider, model)},
	}), nil
}

func buildEmbedder(cfg config.AIConfig) (ai.IEmbedder, error) {
	provider, err := ai.NewEmbedProvider(cfg.EmbedProvider, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("init embed provider: %w", err)
	}
	primary := ai.NewEmbedder(provider, cfg.EmbedModel)
	if cfg.Fallback == nil || cfg.Fallback.EmbedModel == "" {
		return primary, nil
	}
	fallbackProvider, err := ai.NewEmbedProvider(cfg.Fallback.Provider, cfg.Fallback.Data)
	if err != nil {
		return nil, fmt.Errorf("init fallback embed provider: %w", err)
	}
	return ai.NewGroupEmbedder([]ai.EmbedderEntry{
		{Name: cfg.EmbedProvider, Embedder: primary},
		{Name: cfg.Fallback.Provider, Embedder: ai.NewEmbedder(fallbackProvider, cfg.Fallback.EmbedModel)},
	}), nil
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("archive", cfg.Archive.Type),
	)

	videoRepo := repo.NewVideoRepo(conn)
	chunkRepo := repo.NewChunkRepo(conn)
	cacheRepo := repo.NewEmbeddingCacheRepo(conn)

	generator, err := buildGenerator(cfg.AI)
	if err != nil {
		return err
	}
	embedder, err := buildEmbedder(cfg.AI)
	if err != nil {
		return err
	}
	if cfg.Cache.DBCache {
		embedder = embedcache.WithDB(embedder, cacheRepo)
	}
	embedder = embedcache.WithLRU(embedder, cfg.Cache.LruSize, time.Duration(cfg.Cache.LruTTLHours)*time.Hour)
	manager := ai.NewManager(generator, embedder, ai.ManagerConfig{
		Timeout:        cfg.AI.TimeoutSeconds,
		ExpandMinChars: cfg.Retrieval.ExpandMinChars,
	})

	archive, err := filestore.New(cfg.Archive.Type, cfg.Archive.Data)
	if err != nil {
		return fmt.Errorf("init transcript archive: %w", err)
	}

	ytClient := youtube.NewClient()
	ingestService := service.NewIngestService(manager, videoRepo, chunkRepo, ytClient, archive, cfg.Ingest)
	retrievalService := service.NewRetrievalService(manager, videoRepo, chunkRepo, cfg.Retrieval)
	chatService := service.NewChatService(retrievalService, manager)

	deps := handler.RouterDeps{
		Videos: handler.NewVideoHandler(ingestService, videoRepo),
		Search: handler.NewSearchHandler(retrievalService),
		Chat:   handler.NewChatHandler(chatService),
		Quota:  cfg.Quota,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	scheduler := schedule.NewScheduler()
	if cfg.Cache.DBCache {
		cleanup := job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.Cache.KeepDays)
		if err := scheduler.AddJob(cleanup, cfg.Cache.CleanupCron); err != nil {
			return fmt.Errorf("schedule cache cleanup: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
