package kafka

import (
	"context"
	"encoding/json"
	"time"

	"vidtube/internal/media"
	"vidtube/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CleanupHandler processes one cleanup task
type CleanupHandler func(ctx context.Context, task *media.CleanupTask) error

// DecodeCleanupTask parses a message produced by EncodeCleanupTask
func DecodeCleanupTask(msg kafka.Message) (*media.CleanupTask, error) {
	var task media.CleanupTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// StartCleanupConsumer consumes cleanup tasks until ctx is cancelled.
// It blocks; run it in its own goroutine.
func StartCleanupConsumer(ctx context.Context, brokers []string, topic, groupID string, handler CleanupHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka cleanup consumer stopped")
	}()

	logger.Info("Kafka cleanup consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		task, err := DecodeCleanupTask(msg)
		if err != nil {
			logger.Error("Failed to unmarshal cleanup task",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(ctx, task); err != nil {
			logger.Error("Failed to handle cleanup task",
				zap.String("public_id", task.PublicID),
				zap.Int("attempt", task.Attempt),
				zap.Error(err),
			)
		}
	}
}
