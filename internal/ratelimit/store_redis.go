// AngelaMos | 2026
// store_redis.go

package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:op:"

// takeScript prunes, counts and conditionally appends in one round trip,
// so concurrent requests for the same key cannot slip past the limit
// between the read and the write.
var takeScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local max_requests = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count >= max_requests then
		return 0
	end

	redis.call('ZADD', key, now, ARGV[1] .. '-' .. ARGV[5])
	redis.call('EXPIRE', key, ttl_seconds)
	return 1
`)

// RedisStore keeps one sorted set per key, scored by request time in
// microseconds. Keys expire on their own a window after the last request;
// SweepStale exists for explicit cleanup of long windows.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Take(
	ctx context.Context,
	key string,
	now time.Time,
	window time.Duration,
	max int,
) (bool, error) {
	nowMicros := now.UnixMicro()
	windowStart := now.Add(-window).UnixMicro()

	ttl := int64(window.Seconds()) + 1

	// A per-call nonce keeps two requests in the same microsecond from
	// collapsing into one sorted-set member.
	nonce := strconv.FormatInt(now.UnixNano(), 36)

	result, err := takeScript.Run(
		ctx,
		s.client,
		[]string{keyPrefix + key},
		nowMicros,
		windowStart,
		max,
		ttl,
		nonce,
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit take: %w", err)
	}

	return result == 1, nil
}

func (s *RedisStore) SweepStale(
	ctx context.Context,
	olderThan time.Duration,
) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixMicro()

	var swept int64
	var cursor uint64

	for {
		keys, next, err := s.client.Scan(
			ctx,
			cursor,
			keyPrefix+"*",
			100,
		).Result()
		if err != nil {
			return swept, fmt.Errorf("scan rate limit keys: %w", err)
		}

		for _, key := range keys {
			max, err := s.client.ZRevRangeWithScores(ctx, key, 0, 0).Result()
			if err != nil {
				return swept, fmt.Errorf("inspect rate limit key: %w", err)
			}

			if len(max) == 0 || int64(max[0].Score) < cutoff {
				if err := s.client.Del(ctx, key).Err(); err != nil {
					return swept, fmt.Errorf("delete rate limit key: %w", err)
				}
				swept++
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return swept, nil
}
