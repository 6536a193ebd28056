package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidtube/internal/config"
	"vidtube/internal/media"
	"vidtube/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// InitProducer creates the global writer
func InitProducer(cfg *config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}
	producer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Brokers))
	return nil
}

// CloseProducer closes the global writer
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}

// EncodeCleanupTask builds the message for task; the object key keeps
// retries of one object on one partition.
func EncodeCleanupTask(topic string, task *media.CleanupTask) (kafka.Message, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal cleanup task: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(task.PublicID),
		Value: payload,
	}, nil
}

// CleanupQueue publishes media cleanup tasks
type CleanupQueue struct {
	topic string
}

// NewCleanupQueue publishes to topic through the global writer
func NewCleanupQueue(topic string) *CleanupQueue {
	return &CleanupQueue{topic: topic}
}

// Enqueue publishes task
func (q *CleanupQueue) Enqueue(ctx context.Context, task *media.CleanupTask) error {
	if producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}
	msg, err := EncodeCleanupTask(q.topic, task)
	if err != nil {
		return err
	}
	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send cleanup task: %w", err)
	}

	logger.Info("Media cleanup task sent",
		zap.String("public_id", task.PublicID),
		zap.String("kind", string(task.Kind)),
		zap.Int("attempt", task.Attempt),
		zap.String("topic", q.topic),
	)
	return nil
}
