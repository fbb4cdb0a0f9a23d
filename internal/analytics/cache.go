package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MetricsCache memoizes derived metrics per campaign and date range.
// A dashboard recomputes metrics on every render, so the computation is
// memoized behind this explicit, injected interface rather than a
// package-level map: cache lifetime and invalidation are visible at the
// call sites that own them.  Entries have no TTL; the stats service
// invalidates a campaign's entries on every stat insert, update or
// delete.
type MetricsCache interface {
	Get(ctx context.Context, campaignID, startDate, endDate string) (DerivedMetrics, bool)
	Set(ctx context.Context, campaignID, startDate, endDate string, m DerivedMetrics)
	Invalidate(ctx context.Context, campaignID string)
}

// MemoryMetricsCache is the default in-process implementation.
type MemoryMetricsCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]DerivedMetrics // campaignID -> rangeKey -> metrics
}

func NewMemoryMetricsCache() *MemoryMetricsCache {
	return &MemoryMetricsCache{entries: make(map[string]map[string]DerivedMetrics)}
}

func rangeKey(startDate, endDate string) string {
	return startDate + ".." + endDate
}

func (c *MemoryMetricsCache) Get(_ context.Context, campaignID, startDate, endDate string) (DerivedMetrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[campaignID][rangeKey(startDate, endDate)]
	return m, ok
}

func (c *MemoryMetricsCache) Set(_ context.Context, campaignID, startDate, endDate string, m DerivedMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byRange, ok := c.entries[campaignID]
	if !ok {
		byRange = make(map[string]DerivedMetrics)
		c.entries[campaignID] = byRange
	}
	byRange[rangeKey(startDate, endDate)] = m
}

func (c *MemoryMetricsCache) Invalidate(_ context.Context, campaignID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, campaignID)
}

// RedisMetricsCache shares memoized metrics across instances.  Values
// are JSON; each campaign keeps an index set of its range keys so
// Invalidate can delete them without a SCAN.  Redis failures degrade to
// cache misses; the computation is cheap enough to redo.
type RedisMetricsCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewRedisMetricsCache constructs a Redis-backed cache.  A zero ttl
// means entries live until invalidated.
func NewRedisMetricsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisMetricsCache {
	return &RedisMetricsCache{client: client, logger: logger, ttl: ttl}
}

func (c *RedisMetricsCache) key(campaignID, startDate, endDate string) string {
	return fmt.Sprintf("metrics:%s:%s", campaignID, rangeKey(startDate, endDate))
}

func (c *RedisMetricsCache) indexKey(campaignID string) string {
	return "metrics:idx:" + campaignID
}

func (c *RedisMetricsCache) Get(ctx context.Context, campaignID, startDate, endDate string) (DerivedMetrics, bool) {
	raw, err := c.client.Get(ctx, c.key(campaignID, startDate, endDate)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("metrics cache get failed", zap.String("campaign_id", campaignID), zap.Error(err))
		}
		return DerivedMetrics{}, false
	}
	var m DerivedMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		c.logger.Warn("metrics cache entry corrupt", zap.String("campaign_id", campaignID), zap.Error(err))
		return DerivedMetrics{}, false
	}
	return m, true
}

func (c *RedisMetricsCache) Set(ctx context.Context, campaignID, startDate, endDate string, m DerivedMetrics) {
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	key := c.key(campaignID, startDate, endDate)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	pipe.SAdd(ctx, c.indexKey(campaignID), key)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("metrics cache set failed", zap.String("campaign_id", campaignID), zap.Error(err))
	}
}

func (c *RedisMetricsCache) Invalidate(ctx context.Context, campaignID string) {
	keys, err := c.client.SMembers(ctx, c.indexKey(campaignID)).Result()
	if err != nil {
		c.logger.Warn("metrics cache invalidate failed", zap.String("campaign_id", campaignID), zap.Error(err))
		return
	}
	keys = append(keys, c.indexKey(campaignID))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("metrics cache invalidate failed", zap.String("campaign_id", campaignID), zap.Error(err))
	}
}
