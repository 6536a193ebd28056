package redis

import (
	"context"
	"testing"
	"time"

	"vidtube/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRDB implements the three commands the cache uses
type memRDB struct {
	redis.Cmdable
	data map[string]string
	ttl  map[string]time.Duration
}

func newMemRDB() *memRDB {
	return &memRDB{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memRDB) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if v, ok := m.data[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *memRDB) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttl[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *memRDB) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

type stats struct {
	TotalViews int64 `json:"totalViews"`
}

func TestJSONCache_RoundTrip(t *testing.T) {
	rdb := newMemRDB()
	cache := NewStatsCache(rdb, 30*time.Second)
	ctx := context.Background()

	var got stats
	found, err := cache.Get(ctx, "chan-1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "chan-1", stats{TotalViews: 42}))
	assert.Equal(t, 30*time.Second, rdb.ttl[statsKeyPrefix+"chan-1"])

	found, err = cache.Get(ctx, "chan-1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(42), got.TotalViews)

	require.NoError(t, cache.Invalidate(ctx, "chan-1"))
	found, err = cache.Get(ctx, "chan-1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSONCache_CorruptValue(t *testing.T) {
	rdb := newMemRDB()
	rdb.data[statsKeyPrefix+"bad"] = "{not json"
	cache := NewStatsCache(rdb, time.Second)

	var got stats
	found, err := cache.Get(context.Background(), "bad", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestOpenStatsCache_Unreachable(t *testing.T) {
	cfg := &config.RedisConfig{Host: "127.0.0.1", Port: 1, PoolSize: 1}

	cache, client, err := OpenStatsCache(context.Background(), cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
	assert.Nil(t, cache)
	assert.Nil(t, client)
}
