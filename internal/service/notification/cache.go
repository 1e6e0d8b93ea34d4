package notification

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	unreadTTL    = 5 * time.Minute
	unreadGenTTL = 24 * time.Hour
)

type unreadStore interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// unreadCache keeps unread counters in redis. A nil client disables it and
// every lookup falls through to the database.
//
// Counters are stamped with the generation that was current before the
// database read. invalidate bumps the generation, so a count computed
// concurrently with an invalidation is never served.
type unreadCache struct {
	redis unreadStore
}

func newUnreadCache(client *redis.Client) *unreadCache {
	if client == nil {
		return &unreadCache{}
	}
	return &unreadCache{redis: client}
}

func unreadKey(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String()
}

func unreadGenKey(userID uuid.UUID) string {
	return unreadKey(userID) + ":gen"
}

// get returns the cached count, or the generation to stamp a fresh count
// with when there is no usable entry.
func (c *unreadCache) get(ctx context.Context, userID uuid.UUID) (count int64, gen string, ok bool) {
	if c == nil || c.redis == nil {
		return 0, "", false
	}
	vals, err := c.redis.MGet(ctx, unreadGenKey(userID), unreadKey(userID)).Result()
	if err != nil || len(vals) != 2 {
		return 0, "", false
	}

	gen = "0"
	if s, isStr := vals[0].(string); isStr {
		gen = s
	}

	cached, isStr := vals[1].(string)
	if !isStr {
		return 0, gen, false
	}
	stamp, value, found := strings.Cut(cached, ":")
	if !found || stamp != gen {
		return 0, gen, false
	}
	count, err = strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, gen, false
	}
	return count, gen, true
}

func (c *unreadCache) set(ctx context.Context, userID uuid.UUID, gen string, count int64) {
	if c == nil || c.redis == nil || gen == "" {
		return
	}
	_ = c.redis.Set(ctx, unreadKey(userID), gen+":"+strconv.FormatInt(count, 10), unreadTTL).Err()
}

func (c *unreadCache) invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.redis == nil {
		return
	}
	key := unreadGenKey(userID)
	if err := c.redis.Incr(ctx, key).Err(); err != nil {
		return
	}
	_ = c.redis.Expire(ctx, key, unreadGenTTL).Err()
}
