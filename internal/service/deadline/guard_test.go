package deadline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSetNX struct {
	keys   map[string]bool
	err    error
	delErr error
	ttl    time.Duration
}

func (f *fakeSetNX) SetNX(_ context.Context, key string, _ interface{}, expiration time.Duration) *redis.BoolCmd {
	f.ttl = expiration
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if f.keys[key] {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = true
	return redis.NewBoolResult(true, nil)
}

func (f *fakeSetNX) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.delErr != nil {
		return redis.NewIntResult(0, f.delErr)
	}
	var n int64
	for _, k := range keys {
		if f.keys[k] {
			delete(f.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRunGuard_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("Once per date", func(t *testing.T) {
		fake := &fakeSetNX{keys: map[string]bool{}}
		g := &RunGuard{redis: fake}

		ok, err := g.Acquire(ctx, "2026-04-01")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, guardTTL, fake.ttl)

		ok, err = g.Acquire(ctx, "2026-04-01")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = g.Acquire(ctx, "2026-04-02")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Redis failure", func(t *testing.T) {
		g := &RunGuard{redis: &fakeSetNX{err: errors.New("connection refused")}}

		ok, err := g.Acquire(ctx, "2026-04-01")
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestRunGuard_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("Date can be acquired again", func(t *testing.T) {
		g := &RunGuard{redis: &fakeSetNX{keys: map[string]bool{}}}

		ok, err := g.Acquire(ctx, "2026-04-01")
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, g.Release(ctx, "2026-04-01"))

		ok, err = g.Acquire(ctx, "2026-04-01")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Redis failure", func(t *testing.T) {
		g := &RunGuard{redis: &fakeSetNX{keys: map[string]bool{}, delErr: errors.New("connection refused")}}

		assert.Error(t, g.Release(ctx, "2026-04-01"))
	})
}
