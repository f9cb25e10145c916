package cache

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/persistence"
)

const keyPrefix = "cache:"

// ResponseCache caches successful GET responses in Redis with a TTL.
type ResponseCache struct {
	redis   *persistence.Redis
	logger  *zap.Logger
	ttl     time.Duration
	enabled bool
}

// NewResponseCache constructs the cache.
func NewResponseCache(redis *persistence.Redis, logger *zap.Logger, ttl time.Duration, enabled bool) *ResponseCache {
	return &ResponseCache{redis: redis, logger: logger, ttl: ttl, enabled: enabled}
}

// Middleware serves cached JSON bodies for GET requests and stores fresh
// 200 responses. Cache failures never fail the request.
func (rc *ResponseCache) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rc.enabled || rc.redis == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := keyPrefix + c.OriginalURL()
		cached, err := rc.redis.Client.Get(c.Context(), key).Bytes()
		if err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			c.Set("X-Cache", "HIT")
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			if err := rc.redis.Client.Set(c.Context(), key, body, rc.ttl).Err(); err != nil {
				rc.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
			}
		}
		return nil
	}
}

// InvalidatePrefix removes cached entries whose URL starts with the given
// path. Used after writes so stale lists age out immediately.
func (rc *ResponseCache) InvalidatePrefix(ctx context.Context, path string) {
	if !rc.enabled || rc.redis == nil {
		return
	}
	pattern := keyPrefix + path + "*"
	iter := rc.redis.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := rc.redis.Client.Del(ctx, iter.Val()).Err(); err != nil {
			rc.logger.Debug("cache invalidate failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		rc.logger.Debug("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
