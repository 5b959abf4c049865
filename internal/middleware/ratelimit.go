// Package middleware provides request-scoped Fiber middleware: logging, tracing,
// metrics and rate limiting.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spincat/internal/models"
	"spincat/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is configured
	// but unreachable. Without a Redis client the limit is skipped under either policy.
	FailClosed
)

// fixedWindowScript counts hits in the current window and arms the expiry on the first one.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

var errNoRedis = errors.New("redis client is nil")

// RateLimiter enforces per-client fixed-window quotas backed by Redis.
type RateLimiter struct {
	rdb     *redis.Client
	enabled bool
	now     func() time.Time
}

// NewRateLimiter returns a limiter. A disabled limiter lets every request through.
func NewRateLimiter(rdb *redis.Client, enabled bool) *RateLimiter {
	return &RateLimiter{rdb: rdb, enabled: enabled, now: time.Now}
}

// Allow reports whether another hit for resource/id fits in the current window.
func (l *RateLimiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if !l.enabled {
		return true, nil
	}
	if l.rdb == nil {
		return false, errNoRedis
	}

	windowMs := window.Milliseconds()
	if windowMs <= 0 || limit <= 0 {
		return true, nil
	}
	slot := l.now().UTC().UnixMilli() / windowMs
	key := fmt.Sprintf("rl:%s:%s:%d", resource, id, slot)

	cnt, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, windowMs).Int64()
	if err != nil {
		return false, err
	}
	return cnt <= int64(limit), nil
}

// Limit returns a Fiber middleware enforcing limit requests per window for each client IP.
// Rejections are answered with 429 and the RATE_LIMITED code.
func (l *RateLimiter) Limit(name string, limit int, window time.Duration) fiber.Handler {
	return l.LimitWithPolicy(name, limit, window, FailOpen)
}

// LimitWithPolicy is Limit with an explicit behavior for an unreachable store.
func (l *RateLimiter) LimitWithPolicy(name string, limit int, window time.Duration, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		allowed, err := l.Allow(ctx, name, "ip:"+c.IP(), limit, window)
		if err != nil {
			if policy == FailClosed && !errors.Is(err, errNoRedis) {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					slog.String("resource", name), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Error: "rate limit unavailable",
					Code:  models.CodeInternal,
				})
			}
			if !errors.Is(err, errNoRedis) {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing open",
					slog.String("resource", name), slog.String("error", err.Error()))
			}
			return c.Next()
		}

		if !allowed {
			observability.RateLimitRejections.WithLabelValues(name).Inc()
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitError("Too many requests, please try again later"))
		}
		return c.Next()
	}
}
