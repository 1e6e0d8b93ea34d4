package deadline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const guardTTL = 36 * time.Hour

type guardStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RunGuard lets at most one scan through per calendar date across every
// scheduler instance sharing the same redis.
type RunGuard struct {
	redis guardStore
}

func NewRunGuard(client *redis.Client) *RunGuard {
	return &RunGuard{redis: client}
}

func guardKey(date string) string {
	return "deadline-scan:" + date
}

// Acquire reports whether the caller owns the run for date.
func (g *RunGuard) Acquire(ctx context.Context, date string) (bool, error) {
	ok, err := g.redis.SetNX(ctx, guardKey(date), time.Now().UTC().Format(time.RFC3339), guardTTL).Result()
	if err != nil {
		return false, errors.Wrapf(err, "unable to acquire deadline scan guard for %s", date)
	}
	return ok, nil
}

// Release gives up the run for date so a later trigger can retry it.
func (g *RunGuard) Release(ctx context.Context, date string) error {
	if err := g.redis.Del(ctx, guardKey(date)).Err(); err != nil {
		return errors.Wrapf(err, "unable to release deadline scan guard for %s", date)
	}
	return nil
}
