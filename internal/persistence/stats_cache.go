package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/service"
)

const statsCacheKey = "dashboard:stats"

// RedisStatsCache keeps dashboard aggregates in Redis with a short TTL.
// Cache trouble degrades to recomputing from Postgres, never to a failure.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStatsCache builds the cache.
func NewRedisStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl, logger: logger}
}

// Get returns cached stats when present and decodable.
func (c *RedisStatsCache) Get(ctx context.Context) (*service.DashboardStats, bool) {
	raw, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var stats service.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// Set stores stats for the configured TTL.
func (c *RedisStatsCache) Set(ctx context.Context, stats service.DashboardStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached stats.
func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, statsCacheKey).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
