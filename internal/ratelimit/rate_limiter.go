package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is the subset of the Redis client the limiter needs
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter is a fixed-window request counter per key. A limiter without a Redis
// client allows every request.
type RateLimiter struct {
	rdb    Counter
	limit  int
	window time.Duration
	prefix string
}

func NewRateLimiter(rdb Counter, prefix string, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow records one request for key and reports whether it is within the limit
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if rl == nil || rl.rdb == nil || rl.limit <= 0 {
		return true, nil
	}

	redisKey := fmt.Sprintf("rate:%s:%s", rl.prefix, key)
	count, err := rl.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	// first hit opens the window
	if count == 1 {
		if err := rl.rdb.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, err
		}
	}
	allowed := count <= int64(rl.limit)
	if !allowed {
		// a window whose Expire failed never closes on its own
		if err := rl.ensureExpiry(ctx, redisKey); err != nil {
			return false, err
		}
	}
	return allowed, nil
}

func (rl *RateLimiter) ensureExpiry(ctx context.Context, redisKey string) error {
	ttl, err := rl.rdb.TTL(ctx, redisKey).Result()
	if err != nil {
		return err
	}
	// -1 means the key exists without an expiry
	if ttl == -1 {
		return rl.rdb.Expire(ctx, redisKey, rl.window).Err()
	}
	return nil
}
