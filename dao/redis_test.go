package dao

import (
	"context"
	"testing"
	"time"

	"LiveCTF/challenge"
	"LiveCTF/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisObjRoundTrip(t *testing.T) {
	d, mr := newTestDB(t, true)
	ctx := context.Background()
	in := &model.Award{
		ID: 3, TeamID: 7, Name: "Bonus 🩸", Value: -20,
		Requirements: map[string]int64{"challenge_id": 9},
		Date:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, d.putObjToRedis(ctx, "award_3", in, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("award_3"))

	out := &model.Award{}
	ok, err := d.getObjFromRedis(ctx, "award_3", out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.TeamID, out.TeamID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Value, out.Value)
	assert.Equal(t, in.Requirements, out.Requirements)
	assert.True(t, in.Date.Equal(out.Date))
	assert.Nil(t, out.UserID)

	ok, err = d.getObjFromRedis(ctx, "missing", out)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.getObjFromRedis(ctx, "award_3", *out)
	assert.Error(t, err)
}

func TestLockerFallback(t *testing.T) {
	d, _ := newTestDB(t, false)
	_, ok := d.Locker().(*challenge.KeyedMutex)
	assert.True(t, ok)

	r, _ := newTestDB(t, true)
	_, ok = r.Locker().(*RedisLocker)
	assert.True(t, ok)
}

func TestRedisLocker(t *testing.T) {
	d, mr := newTestDB(t, true)
	l := NewRedisLocker(d.rdb)
	l.timeout = 50 * time.Millisecond
	l.retry = 5 * time.Millisecond
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "award_lock_team_1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock_award_lock_team_1"))

	_, err = l.Lock(ctx, "award_lock_team_1")
	assert.ErrorIs(t, err, ErrLockTimeout)

	other, err := l.Lock(ctx, "award_lock_team_2")
	require.NoError(t, err)
	other()

	unlock()
	assert.False(t, mr.Exists("lock_award_lock_team_1"))
	again, err := l.Lock(ctx, "award_lock_team_1")
	require.NoError(t, err)

	// 过期后被别人拿走的锁不会被旧的 unlock 删掉
	mr.FastForward(LOCK_EXPIRE + time.Second)
	third, err := l.Lock(ctx, "award_lock_team_1")
	require.NoError(t, err)
	again()
	assert.True(t, mr.Exists("lock_award_lock_team_1"))
	third()
}

func TestRedisLockerContext(t *testing.T) {
	d, _ := newTestDB(t, true)
	l := NewRedisLocker(d.rdb)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	d, _ := newTestDB(t, false)
	assert.Nil(t, d.RateLimiter(0, time.Minute))
	_, ok := d.RateLimiter(3, time.Minute).(*MemoryLimiter)
	assert.True(t, ok)

	r, mr := newTestDB(t, true)
	_, ok = r.RateLimiter(3, time.Minute).(*RedisLimiter)
	assert.True(t, ok)

	for name, l := range map[string]challenge.RateLimiter{
		"memory": d.RateLimiter(3, time.Minute),
		"redis":  r.RateLimiter(3, time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				limited, err := l.Limited(ctx, "user_1")
				require.NoError(t, err)
				assert.False(t, limited)
				require.NoError(t, l.Record(ctx, "user_1"))
			}
			limited, err := l.Limited(ctx, "user_1")
			require.NoError(t, err)
			assert.True(t, limited)

			limited, err = l.Limited(ctx, "user_2")
			require.NoError(t, err)
			assert.False(t, limited)
		})
	}

	assert.Equal(t, time.Minute, mr.TTL("attempts_user_1"))
	mr.FastForward(time.Minute + time.Second)
	limited, err := r.RateLimiter(3, time.Minute).Limited(context.Background(), "user_1")
	require.NoError(t, err)
	assert.False(t, limited)
}
