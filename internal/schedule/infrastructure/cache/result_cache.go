// Package cache memoizes computed schedule results in Redis so read-heavy
// consumers do not recompute the network on every query. Entries are keyed
// by schedule id and version; a save bumps the version, which retires the
// old entry without explicit invalidation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/torvane/gantry/internal/schedule/domain"
)

// ResultCache reads and writes computed schedule results.
type ResultCache interface {
	Get(ctx context.Context, scheduleID uuid.UUID, version int) (*domain.Result, bool)
	Set(ctx context.Context, scheduleID uuid.UUID, version int, result *domain.Result)
}

// RedisResultCache stores results as JSON with a TTL.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisResultCache connects to Redis and verifies the connection.
func NewRedisResultCache(ctx context.Context, url string, ttl time.Duration, logger *slog.Logger) (*RedisResultCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisResultCache{client: client, ttl: ttl, logger: logger}, nil
}

func resultKey(scheduleID uuid.UUID, version int) string {
	return fmt.Sprintf("gantry:schedule:%s:v%d:result", scheduleID, version)
}

// Get returns the cached result for a schedule version. Cache failures are
// logged and reported as misses.
func (c *RedisResultCache) Get(ctx context.Context, scheduleID uuid.UUID, version int) (*domain.Result, bool) {
	raw, err := c.client.Get(ctx, resultKey(scheduleID, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("result cache read failed", "schedule_id", scheduleID, "error", err)
		return nil, false
	}
	var result domain.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("result cache entry malformed", "schedule_id", scheduleID, "error", err)
		return nil, false
	}
	return &result, true
}

// Set stores the result. Failures are logged, never surfaced.
func (c *RedisResultCache) Set(ctx context.Context, scheduleID uuid.UUID, version int, result *domain.Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("result cache encode failed", "schedule_id", scheduleID, "error", err)
		return
	}
	if err := c.client.Set(ctx, resultKey(scheduleID, version), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("result cache write failed", "schedule_id", scheduleID, "error", err)
	}
}

// Close releases the Redis connection.
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

// NoopResultCache satisfies ResultCache when no Redis is configured.
type NoopResultCache struct{}

func (NoopResultCache) Get(context.Context, uuid.UUID, int) (*domain.Result, bool) { return nil, false }
func (NoopResultCache) Set(context.Context, uuid.UUID, int, *domain.Result)        {}
