package dao

import (
	"context"
	"errors"
	"time"

	"LiveCTF/challenge"
	"LiveCTF/common"

	"github.com/go-redis/redis/v8"
)

const (
	LOCK_EXPIRE = 10 * time.Second //持有锁的进程挂掉后自动释放
	LOCK_RETRY  = 20 * time.Millisecond
)

var ErrLockTimeout = errors.New("lock wait timed out")

//只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker 用 SETNX 实现跨进程的锁
type RedisLocker struct {
	rdb     *redis.Client
	expire  time.Duration
	retry   time.Duration
	timeout time.Duration
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, expire: LOCK_EXPIRE, retry: LOCK_RETRY, timeout: LOCK_EXPIRE}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	key = "lock_" + key
	token := common.RandHex(16)
	deadline := time.Now().Add(l.timeout)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.expire).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
	return func() {
		unlockScript.Run(context.Background(), l.rdb, []string{key}, token)
	}, nil
}

// Locker 配置了 redis 时返回 RedisLocker, 否则只在进程内加锁
func (d *DB) Locker() challenge.Locker {
	if d.rdb == nil {
		return challenge.NewKeyedMutex()
	}
	return NewRedisLocker(d.rdb)
}
