package handler

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newTestRedis connects to TEST_REDIS_URL or skips.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse TEST_REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	return rdb
}

func TestRedisLimiter_BlocksOverLimit(t *testing.T) {
	rdb := newTestRedis(t)
	l := NewRedisLimiter(rdb, 3)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, "ratelimit:"+key) })

	for i := 0; i < 3; i++ {
		ok, _, err := l.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should pass", i+1)
		}
	}

	ok, retry, err := l.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Fatal("fourth request should be rejected")
	}
	if retry <= 0 || retry > time.Minute {
		t.Errorf("unexpected retry %v", retry)
	}
}

func TestRedisLimiter_RestoresLostExpiry(t *testing.T) {
	rdb := newTestRedis(t)
	l := NewRedisLimiter(rdb, 10)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, "ratelimit:"+key) })

	if err := rdb.Set(ctx, "ratelimit:"+key, 1, 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := l.Allow(ctx, key); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	ttl, err := rdb.PTTL(ctx, "ratelimit:"+key).Result()
	if err != nil {
		t.Fatalf("PTTL: %v", err)
	}
	if ttl <= 0 {
		t.Errorf("expected counter to expire, ttl %v", ttl)
	}
}
