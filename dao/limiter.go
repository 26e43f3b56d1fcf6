package dao

import (
	"context"
	"time"

	"LiveCTF/challenge"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

// RedisLimiter 在 window 内最多允许 max 次错误提交
type RedisLimiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

func limiterKey(key string) string {
	return "attempts_" + key
}

func (l *RedisLimiter) Limited(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Get(ctx, limiterKey(key)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.max, nil
}

func (l *RedisLimiter) Record(ctx context.Context, key string) error {
	k := limiterKey(key)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.rdb.Expire(ctx, k, l.window).Err()
	}
	return nil
}

// MemoryLimiter 单进程时使用
type MemoryLimiter struct {
	counts *cache.Cache
	max    int
	window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{counts: cache.New(window, 2*window), max: max, window: window}
}

func (l *MemoryLimiter) Limited(_ context.Context, key string) (bool, error) {
	v, ok := l.counts.Get(key)
	if !ok {
		return false, nil
	}
	return v.(int) >= l.max, nil
}

func (l *MemoryLimiter) Record(_ context.Context, key string) error {
	if err := l.counts.Add(key, 1, l.window); err == nil {
		return nil
	}
	_, err := l.counts.IncrementInt(key, 1)
	return err
}

// RateLimiter max 不大于 0 时不限制, 返回 nil
func (d *DB) RateLimiter(max int, window time.Duration) challenge.RateLimiter {
	if max <= 0 {
		return nil
	}
	if d.rdb == nil {
		return NewMemoryLimiter(max, window)
	}
	return &RedisLimiter{rdb: d.rdb, max: int64(max), window: window}
}
