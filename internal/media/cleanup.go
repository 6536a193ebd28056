package media

import (
	"context"
	"fmt"
	"time"

	"vidtube/pkg/logger"
	"vidtube/pkg/metrics"

	"go.uber.org/zap"
)

const DefaultMaxAttempts = 5

// CleanupWorker retries deletes that failed during request handling
type CleanupWorker struct {
	Storage     Storage
	Queue       CleanupQueue
	MaxAttempts int
	// Backoff is the pause before a failed task is requeued
	Backoff func(attempt int) time.Duration
}

func (w *CleanupWorker) maxAttempts() int {
	if w.MaxAttempts > 0 {
		return w.MaxAttempts
	}
	return DefaultMaxAttempts
}

// Handle deletes the object named by task. On failure the task goes back on
// the queue with Attempt+1 until the attempt budget is spent.
func (w *CleanupWorker) Handle(ctx context.Context, task *CleanupTask) error {
	if task.PublicID == "" {
		return nil
	}

	err := w.Storage.Delete(ctx, task.PublicID, task.Kind)
	if err == nil {
		metrics.MediaCleanupTasks.WithLabelValues("deleted").Inc()
		logger.Named("media-cleanup").Info("Media object deleted",
			zap.String("public_id", task.PublicID),
			zap.Int("attempt", task.Attempt),
		)
		return nil
	}

	if task.Attempt >= w.maxAttempts() || w.Queue == nil {
		metrics.MediaCleanupTasks.WithLabelValues("failed").Inc()
		return fmt.Errorf("giving up on %s after %d attempts: %w", task.PublicID, task.Attempt, err)
	}

	if w.Backoff != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.Backoff(task.Attempt)):
		}
	}

	next := *task
	next.Attempt++
	if qerr := w.Queue.Enqueue(ctx, &next); qerr != nil {
		metrics.MediaCleanupTasks.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to requeue %s: %w", task.PublicID, qerr)
	}
	metrics.MediaCleanupTasks.WithLabelValues("queued").Inc()
	return nil
}
