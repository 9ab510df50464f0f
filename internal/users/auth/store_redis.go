// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xcalibur215/mmhub/internal/platform/constants"
)

// # Login Throttle

// RedisLoginLimiter implements LoginLimiter with one counter key per identifier.
//
// The first failure starts a fixed window; the key expires with it.
type RedisLoginLimiter struct {
	client redis.Cmdable
	window time.Duration
}

// NewLoginLimiter creates a Redis-backed LoginLimiter.
func NewLoginLimiter(client redis.Cmdable, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client, window: window}
}

func limiterKey(identifier string) string {
	return constants.RedisPrefixLoginFailures + identifier
}

/*
Failures returns the failed-attempt count for the identifier.

Returns:
  - int: 0 when no window is open
  - error: Connectivity errors
*/
func (limiter *RedisLoginLimiter) Failures(context context.Context, identifier string) (int, error) {
	count, err := limiter.client.Get(context, limiterKey(identifier)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_limiter_get_failed: %w", err)
	}
	return count, nil
}

/*
RecordFailure increments the counter and opens the window on the first failure.

Returns:
  - int: The count after incrementing
  - error: Connectivity errors
*/
func (limiter *RedisLoginLimiter) RecordFailure(context context.Context, identifier string) (int, error) {
	key := limiterKey(identifier)

	count, err := limiter.client.Incr(context, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_limiter_incr_failed: %w", err)
	}

	if count == 1 {
		if err := limiter.client.Expire(context, key, limiter.window).Err(); err != nil {
			return int(count), fmt.Errorf("redis_login_limiter_expire_failed: %w", err)
		}
	}

	return int(count), nil
}

/*
Reset deletes the counter.
*/
func (limiter *RedisLoginLimiter) Reset(context context.Context, identifier string) error {
	if err := limiter.client.Del(context, limiterKey(identifier)).Err(); err != nil {
		return fmt.Errorf("redis_login_limiter_reset_failed: %w", err)
	}
	return nil
}

/*
RetryAfter returns the remaining window, or the full window if the key has no TTL.
*/
func (limiter *RedisLoginLimiter) RetryAfter(context context.Context, identifier string) (time.Duration, error) {
	ttl, err := limiter.client.TTL(context, limiterKey(identifier)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_limiter_ttl_failed: %w", err)
	}
	if ttl <= 0 {
		return limiter.window, nil
	}
	return ttl, nil
}
