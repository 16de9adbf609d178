package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkoutLockTTL = 30 * time.Second

// RedisCheckoutLock is the per-session re-entrancy guard around checkout.
// The TTL bounds how long a crashed submission can block the session.
type RedisCheckoutLock struct {
	rdb redis.UniversalClient
}

func NewRedisCheckoutLock(rdb redis.UniversalClient) *RedisCheckoutLock {
	return &RedisCheckoutLock{rdb: rdb}
}

func checkoutLockKey(sessionID string) string {
	return fmt.Sprintf("checkout_lock:%s", sessionID)
}

func (l *RedisCheckoutLock) Acquire(ctx context.Context, sessionID string) (bool, error) {
	return l.rdb.SetNX(ctx, checkoutLockKey(sessionID), 1, checkoutLockTTL).Result()
}

func (l *RedisCheckoutLock) Release(ctx context.Context, sessionID string) error {
	return l.rdb.Del(ctx, checkoutLockKey(sessionID)).Err()
}
