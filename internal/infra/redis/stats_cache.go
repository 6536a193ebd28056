package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vidtube/internal/config"
	"vidtube/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsKeyPrefix = "vidtube:channel-stats:"

// JSONCache stores JSON values under a key prefix with a fixed TTL
type JSONCache struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewStatsCache caches channel statistics per channel id
func NewStatsCache(rdb redis.Cmdable, ttl time.Duration) *JSONCache {
	return &JSONCache{rdb: rdb, prefix: statsKeyPrefix, ttl: ttl}
}

// OpenStatsCache connects to redis and returns the channel stats cache on
// top of it. The caller closes the client.
func OpenStatsCache(ctx context.Context, cfg *config.RedisConfig, ttl time.Duration) (*JSONCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr(), err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Duration("stats_ttl", ttl),
	)
	return NewStatsCache(client, ttl), client, nil
}

// Get decodes the cached value into dest. found is false on a miss.
func (c *JSONCache) Get(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value for the configured TTL
func (c *JSONCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}

// Invalidate drops the cached value
func (c *JSONCache) Invalidate(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.prefix+key).Err()
}
