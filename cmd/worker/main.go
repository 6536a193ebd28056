package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidtube/internal/config"
	infraKafka "vidtube/internal/infra/kafka"
	infraMinio "vidtube/internal/infra/minio"
	"vidtube/internal/media"
	"vidtube/pkg/logger"

	"go.uber.org/zap"
)

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

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// failed deletes are requeued on the same topic
	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	topic := cfg.Kafka.Topic("media_cleanup")
	worker := &media.CleanupWorker{
		Storage:     infraMinio.NewMediaStore(&cfg.MinIO),
		Queue:       infraKafka.NewCleanupQueue(topic),
		MaxAttempts: media.DefaultMaxAttempts,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 2 * time.Second
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "vidtube-media-cleanup"
	}
	logger.Info("Media cleanup worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)
	infraKafka.StartCleanupConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, worker.Handle)
	logger.Info("Media cleanup worker stopped")
}
