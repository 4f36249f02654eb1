package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gophauth:rl:"

// RedisLimiter is a fixed-window counter in Redis. The window starts at the
// first request for a key and the counter expires with it.
type RedisLimiter struct {
	redis  redis.UniversalClient
	policy Policy
}

// NewRedis creates a limiter backed by the given Redis client.
func NewRedis(client redis.UniversalClient, p Policy) *RedisLimiter {
	return &RedisLimiter{redis: client, policy: p}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (int, error) {
	count, err := l.incrementWithTTL(ctx, l.key(key), l.policy.Window)
	if err != nil {
		return 0, err
	}
	if count > int64(l.policy.Max) {
		return 0, ErrRateLimited
	}
	return l.policy.Max - int(count), nil
}

func (l *RedisLimiter) Policy() Policy {
	return l.policy
}

func (l *RedisLimiter) key(key string) string {
	return keyPrefix + l.policy.Name + ":" + key
}

func (l *RedisLimiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// first hit opens the window
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
