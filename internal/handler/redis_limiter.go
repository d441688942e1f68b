package handler

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window Limiter shared by every server instance.
// Each key is a Redis counter that expires one window after its first hit.
type RedisLimiter struct {
	rdb          *redis.Client
	maxPerMinute int64
	window       time.Duration
}

// NewRedisLimiter creates a RedisLimiter allowing maxPerMinute requests per key.
func NewRedisLimiter(rdb *redis.Client, maxPerMinute int) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, maxPerMinute: int64(maxPerMinute), window: time.Minute}
}

var _ Limiter = (*RedisLimiter)(nil)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := "ratelimit:" + key

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	ttl := pttl.Val()
	// First hit in the window, or a counter that lost its expiry.
	if ttl < 0 {
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return false, 0, err
		}
		ttl = l.window
	}

	if incr.Val() > l.maxPerMinute {
		return false, ttl, nil
	}
	return true, 0, nil
}
