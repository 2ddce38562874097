package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"stock_correlation/internal/shared/ratelimiter"
)

// NewRateLimiter creates the provider rate limiter.
// perMinute <= 0 disables limiting. If Redis is available, the quota is shared
// across instances through Redis, falling back to the in-process limiter on Redis errors.
func NewRateLimiter(rdb *redis.Client, perMinute int) ratelimiter.Limiter {
	if perMinute <= 0 {
		return ratelimiter.Noop{}
	}
	local := ratelimiter.NewRateLimiter(perMinute, time.Minute)
	if rdb == nil {
		return local
	}
	return ratelimiter.NewRedisRateLimiter(rdb, perMinute, time.Minute, "ratelimit:provider", local)
}
