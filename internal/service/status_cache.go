package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statusCachePrefix = "onboarding:status:"

// StatusCache keeps onboarding status snapshots in Redis for a short TTL.
// A nil cache is valid and caches nothing; cache failures are logged and
// never fail the read path.
type StatusCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewStatusCache constructs the cache. Returns nil when no client or TTL is
// configured, which disables caching entirely.
func NewStatusCache(client *redis.Client, logger *zap.Logger, ttl time.Duration) *StatusCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &StatusCache{client: client, logger: logger, ttl: ttl}
}

// Get returns a cached snapshot, if any.
func (c *StatusCache) Get(ctx context.Context, inviteID string) (*OnboardingStatus, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, statusCachePrefix+inviteID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("status cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var status OnboardingStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, false
	}
	return &status, true
}

// Set stores a snapshot for the configured TTL.
func (c *StatusCache) Set(ctx context.Context, inviteID string, status *OnboardingStatus) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statusCachePrefix+inviteID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("status cache write failed", zap.Error(err))
	}
}

// Invalidate drops the snapshot after a step submission or promotion.
func (c *StatusCache) Invalidate(ctx context.Context, inviteID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, statusCachePrefix+inviteID).Err(); err != nil {
		c.logger.Warn("status cache invalidate failed", zap.Error(err))
	}
}
