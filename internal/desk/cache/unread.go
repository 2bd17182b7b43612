package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadKeyPrefix = "notify:unread:"

// UnreadCounter caches per-user unread notification counts in redis.
type UnreadCounter struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewUnreadCounter(rdb redis.UniversalClient, ttl time.Duration) *UnreadCounter {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UnreadCounter{rdb: rdb, ttl: ttl}
}

func key(userID string) string {
	return unreadKeyPrefix + userID
}

// Get returns the cached count; ok is false on a miss.
func (c *UnreadCounter) Get(ctx context.Context, userID string) (int64, bool, error) {
	n, err := c.rdb.Get(ctx, key(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get unread count: %w", err)
	}
	return n, true, nil
}

func (c *UnreadCounter) Set(ctx context.Context, userID string, n int64) error {
	if err := c.rdb.Set(ctx, key(userID), n, c.ttl).Err(); err != nil {
		return fmt.Errorf("set unread count: %w", err)
	}
	return nil
}

func (c *UnreadCounter) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate unread count: %w", err)
	}
	return nil
}
