package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidtube/internal/api/handler"
	"vidtube/internal/api/router"
	"vidtube/internal/config"
	"vidtube/internal/infra/database"
	infraES "vidtube/internal/infra/elasticsearch"
	infraKafka "vidtube/internal/infra/kafka"
	infraMinio "vidtube/internal/infra/minio"
	infraRedis "vidtube/internal/infra/redis"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/pkg/logger"
	"vidtube/pkg/tracing"

	_ "vidtube/api/openapi"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title vidtube API
// @version 1.0
// @description Video sharing platform REST API

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer {token}

func main() {
	configPath := os.Getenv("VIDTUBE_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	shutdownTracing, err := tracing.Init(context.Background(), &cfg.Tracing)
	if err != nil {
		logger.Warn("Tracing init failed, continuing without traces", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()
	db := database.Get()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// the stats cache is optional; without redis every read hits the database
	var stats service.StatsCache
	if cache, rdb, err := infraRedis.OpenStatsCache(context.Background(), &cfg.Redis, cfg.Cache.StatsTTLDuration()); err != nil {
		logger.Warn("Redis init failed, channel stats will not be cached", zap.Error(err))
	} else {
		defer rdb.Close()
		stats = cache
	}

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}
	store := infraMinio.NewMediaStore(&cfg.MinIO)

	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()
	cleanup := infraKafka.NewCleanupQueue(cfg.Kafka.Topic("media_cleanup"))

	videoIndex := infraES.NewVideoIndex(cfg.Elasticsearch.VideosIndex())
	if cfg.Elasticsearch.Enabled {
		if err := infraES.Init(&cfg.Elasticsearch); err != nil {
			logger.Warn("Elasticsearch init failed, search will fall back to the database", zap.Error(err))
		} else {
			defer infraES.Close()
		}
	}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	videoService := service.NewVideoService(videoRepo, store, cleanup, videoIndex, stats)
	searchService := service.NewSearchService(videoRepo, videoIndex)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, stats)
	tweetService := service.NewTweetService(tweetRepo, userRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, userRepo, stats)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	dashboardService := service.NewDashboardService(statsRepo, videoService, stats)
	userService := service.NewUserService(userRepo)

	if videoIndex.Enabled() {
		go backfillIndex(searchService, cfg.Elasticsearch.VideosIndex())
	}

	gin.SetMode(cfg.App.Mode)
	uploads := handler.UploadConfig{
		TempDir:  cfg.MinIO.TempDir,
		MaxBytes: int64(cfg.Server.MaxUploadMB) << 20,
	}
	r := router.New(cfg, &router.Handlers{
		Health:       handler.NewHealthHandler(&cfg.App),
		Video:        handler.NewVideoHandler(videoService, uploads),
		Search:       handler.NewSearchHandler(searchService),
		Comment:      handler.NewCommentHandler(commentService),
		Like:         handler.NewLikeHandler(likeService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		User:         handler.NewUserHandler(userService),
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.App.Name),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	go func() {
		logger.Info("Server listening",
			zap.String("name", cfg.App.Name),
			zap.String("version", cfg.App.Version),
			zap.String("mode", cfg.App.Mode),
			zap.String("addr", addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutting down server", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
	logger.Info("Server exited")
}

// backfillIndex fills a freshly created index from the database
func backfillIndex(search *service.SearchService, index string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	created, err := infraES.EnsureIndex(ctx, index)
	if err != nil {
		logger.Warn("Elasticsearch index init failed", zap.Error(err))
		return
	}
	if !created {
		return
	}
	if _, err := search.Reindex(ctx); err != nil {
		logger.Warn("Elasticsearch backfill failed", zap.Error(err))
	}
}
