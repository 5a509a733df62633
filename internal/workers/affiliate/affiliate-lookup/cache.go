// internal/workers/affiliate/affiliate-lookup/cache.go
package affiliatelookup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"moonlight-diary/internal/common/database"
	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	"moonlight-diary/internal/common/metrics"
)

const cacheKeyPrefix = "affiliate:link:"

// CachedLookup keeps successful lookups in Redis for the configured TTL.
// Misses and failures are never cached, and a Redis outage falls through to
// the wrapped lookup.
type CachedLookup struct {
	next       Lookuper
	redis      *database.RedisClient
	ttl        time.Duration
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewCachedLookup(next Lookuper, redis *database.RedisClient, ttl time.Duration, errHandler *apperrors.ErrorHandler, log logger.Logger) *CachedLookup {
	return &CachedLookup{
		next:       next,
		redis:      redis,
		ttl:        ttl,
		errHandler: errHandler,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"cache":    "redis",
		}),
	}
}

func CacheKey(keyword string) string {
	sum := sha256.Sum256([]byte(keyword))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedLookup) Lookup(ctx context.Context, keyword string) (string, error) {
	key := CacheKey(keyword)

	link, err := c.redis.Get(ctx, key)
	switch {
	case err == nil && link != "":
		metrics.LinkCacheLookups.WithLabelValues("hit").Inc()
		return link, nil
	case err == nil, errors.Is(err, database.ErrCacheMiss):
		metrics.LinkCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.LinkCacheLookups.WithLabelValues("error").Inc()
		c.unavailable(ctx, err)
	}

	link, err = c.next.Lookup(ctx, keyword)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, key, link, c.ttl); err != nil {
		c.unavailable(ctx, err)
	}
	return link, nil
}

func (c *CachedLookup) unavailable(ctx context.Context, err error) {
	if c.errHandler != nil {
		c.errHandler.Absorb(ctx, TaskType, apperrors.NewLinkCacheUnavailableError(err))
		return
	}
	c.logger.Warn("link cache unavailable", map[string]interface{}{
		"error": err.Error(),
	})
}
