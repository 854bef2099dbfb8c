package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisLimiter implements Limiter on a shared Redis instance so multiple
// API replicas count against the same windows.
type redisLimiter struct {
	cfg    Config
	client *redis.Client
}

// NewRedisLimiter creates a Redis-backed fixed-window limiter
func NewRedisLimiter(client *redis.Client, cfg Config) Limiter {
	return &redisLimiter{cfg: cfg, client: client}
}

// Allow counts a request against the key's current window
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	// One counter per key per window bucket; the bucket index makes the
	// window boundaries deterministic across replicas.
	bucket := time.Now().Unix() / int64(l.cfg.Window.Seconds())
	counterKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit counter failed: %w", err)
	}
	if count == 1 {
		// First hit in the window sets the TTL.
		if err := l.client.Expire(ctx, counterKey, l.cfg.Window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expiry failed: %w", err)
		}
	}

	return count <= int64(l.cfg.Limit), nil
}
