package service

import (
	"context"
	"strings"

	"vidtube/internal/apperr"
	"vidtube/internal/infra/elasticsearch"
	"vidtube/internal/media"
	"vidtube/pkg/logger"
	"vidtube/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VideoIndexer keeps the search index in step with published videos
type VideoIndexer interface {
	Enabled() bool
	Upsert(ctx context.Context, doc *elasticsearch.VideoDoc) error
	Delete(ctx context.Context, id string) error
}

// VideoSearcher runs full-text searches; ids come back in rank order
type VideoSearcher interface {
	Enabled() bool
	Search(ctx context.Context, q elasticsearch.SearchQuery) ([]string, int64, error)
	BulkUpsert(ctx context.Context, docs []elasticsearch.VideoDoc) (success, failed int, err error)
}

// StatsCache caches channel statistics by channel id
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, key string) error
}

// invalidateStats drops the cached stats of a channel; cache failures are
// logged and never fail the request
func invalidateStats(ctx context.Context, cache StatsCache, owner uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, owner.String()); err != nil {
		logger.Warn("Invalidate channel stats failed", zap.String("owner_id", owner.String()), zap.Error(err))
	}
}

// ParseID validates a path or query identifier
func ParseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Validation("invalid "+name, name+" must be a valid id")
	}
	return id, nil
}

// blank reports whether s is empty after trimming
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// mediaReleaser deletes stored objects that are no longer referenced. A
// failed delete is handed to the cleanup queue so the worker can retry it.
type mediaReleaser struct {
	storage media.Storage
	cleanup media.CleanupQueue
}

func (m mediaReleaser) release(ctx context.Context, publicID string, kind media.Kind, reason string) {
	if publicID == "" || m.storage == nil {
		return
	}
	err := m.storage.Delete(ctx, publicID, kind)
	if err == nil {
		return
	}

	logger.Warn("Media delete failed, scheduling cleanup",
		zap.String("public_id", publicID), zap.String("kind", string(kind)), zap.Error(err))
	if m.cleanup == nil {
		metrics.MediaCleanupTasks.WithLabelValues("failed").Inc()
		return
	}
	task := &media.CleanupTask{PublicID: publicID, Kind: kind, Reason: reason, Attempt: 1}
	if qerr := m.cleanup.Enqueue(context.WithoutCancel(ctx), task); qerr != nil {
		metrics.MediaCleanupTasks.WithLabelValues("failed").Inc()
		logger.Error("Media cleanup task lost",
			zap.String("public_id", publicID), zap.Error(qerr))
		return
	}
	metrics.MediaCleanupTasks.WithLabelValues("queued").Inc()
}
