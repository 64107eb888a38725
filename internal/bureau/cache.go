// internal/bureau/cache.go
package bureau

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"algolend-workers/internal/common/database"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
	"algolend-workers/internal/models"
)

// CachedClient is a Redis read-through layer over another bureau client.
// Bureau pulls are billed per report, so a fresh report within the TTL is
// served from cache. Cache failures degrade to a direct fetch; they never
// fail the request.
type CachedClient struct {
	inner  Client
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedClient wraps a bureau client with a Redis cache.
func NewCachedClient(inner Client, rdb *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedClient {
	return &CachedClient{inner: inner, redis: rdb, ttl: ttl, logger: log}
}

func cacheKey(identityNumber string) string {
	return fmt.Sprintf("bureau:report:%s", identityNumber)
}

func (c *CachedClient) FetchReport(ctx context.Context, identityNumber string) (*models.BureauReport, error) {
	key := cacheKey(identityNumber)

	cached, err := c.redis.Get(ctx, key)
	if err == nil {
		var report models.BureauReport
		if jsonErr := json.Unmarshal([]byte(cached), &report); jsonErr == nil {
			metrics.BureauFetches.WithLabelValues("hit").Inc()
			return &report, nil
		}
		// corrupt cache entry, drop it and fall through to a fresh fetch
		_ = c.redis.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("Bureau cache read failed, fetching direct", map[string]interface{}{
			"error": err.Error(),
		})
	}

	report, err := c.inner.FetchReport(ctx, identityNumber)
	if err != nil {
		metrics.BureauFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.BureauFetches.WithLabelValues("miss").Inc()

	if payload, jsonErr := json.Marshal(report); jsonErr == nil {
		if setErr := c.redis.Set(ctx, key, payload, c.ttl); setErr != nil {
			c.logger.Warn("Bureau cache write failed", map[string]interface{}{
				"error": setErr.Error(),
			})
		}
	}

	return report, nil
}
