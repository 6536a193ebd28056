package service

import (
	"context"

	"vidtube/internal/apperr"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"
	"vidtube/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DashboardService struct {
	statsRepo *repository.StatsRepository
	videos    *VideoService
	cache     StatsCache
}

func NewDashboardService(statsRepo *repository.StatsRepository, videos *VideoService, cache StatsCache) *DashboardService {
	return &DashboardService{statsRepo: statsRepo, videos: videos, cache: cache}
}

// Stats returns the actor's channel totals, served from cache when fresh
func (s *DashboardService) Stats(ctx context.Context, actor uuid.UUID) (*repository.ChannelStats, error) {
	key := actor.String()
	if s.cache != nil {
		var cached repository.ChannelStats
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.StatsCache.WithLabelValues("error").Inc()
			logger.Warn("Read channel stats cache failed", zap.String("owner_id", key), zap.Error(err))
		case found:
			metrics.StatsCache.WithLabelValues("hit").Inc()
			return &cached, nil
		default:
			metrics.StatsCache.WithLabelValues("miss").Inc()
		}
	}

	stats, err := s.statsRepo.ChannelStats(ctx, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to compute channel stats", "channel not found")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats); err != nil {
			logger.Warn("Write channel stats cache failed", zap.String("owner_id", key), zap.Error(err))
		}
	}
	return stats, nil
}

// Videos lists every video of the actor's channel with like counts
func (s *DashboardService) Videos(ctx context.Context, actor uuid.UUID) ([]repository.ChannelVideo, error) {
	return s.videos.ChannelVideos(ctx, actor)
}
