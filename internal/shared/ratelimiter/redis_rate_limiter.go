package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter limits calls with a fixed window counter stored in Redis,
// so that every instance of the server shares the same provider quota.
// If Redis fails, it falls back to the given in-process Limiter.
type RedisRateLimiter struct {
	rdb       *redis.Client
	limit     int
	interval  time.Duration
	namespace string
	fallback  Limiter

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRedisRateLimiter creates a Redis-backed limiter.
// If namespace is empty, it uses "ratelimit". A nil fallback is replaced with Noop.
func NewRedisRateLimiter(rdb *redis.Client, limit int, interval time.Duration, namespace string, fallback Limiter) *RedisRateLimiter {
	if namespace == "" {
		namespace = "ratelimit"
	}
	if fallback == nil {
		fallback = Noop{}
	}
	return &RedisRateLimiter{
		rdb:       rdb,
		limit:     limit,
		interval:  interval,
		namespace: namespace,
		fallback:  fallback,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Wait increments the counter of the current window and waits for the next
// window while the counter exceeds the limit.
func (l *RedisRateLimiter) Wait(ctx context.Context) error {
	for {
		now := l.now()
		window := now.Truncate(l.interval)
		key := l.windowKey(window)

		n, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("redis rate limiter unavailable, using fallback", "key", key, "error", err)
			return l.fallback.Wait(ctx)
		}
		if n == 1 {
			// Keep the key a little longer than the window; best effort
			_ = l.rdb.Expire(ctx, key, 2*l.interval).Err()
		}
		if n <= int64(l.limit) {
			return nil
		}

		wait := window.Add(l.interval).Sub(now)
		slog.Info("shared rate limit reached, waiting", "limit", l.limit, "wait", wait)
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// windowKey generates the counter key for the window starting at w.
func (l *RedisRateLimiter) windowKey(w time.Time) string {
	return fmt.Sprintf("%s:%d", l.namespace, w.Unix())
}
