package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// Скользящее окно на sorted set: старые отметки удаляются, новая добавляется
// только если лимит не исчерпан.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call("ZREMRANGEBYSCORE", key, "-inf", window_start)

	local count = redis.call("ZCARD", key)

	if count < limit then
		redis.call("ZADD", key, now, member)
		redis.call("PEXPIRE", key, window_ms)
		return {1, limit - count - 1}
	end
	return {0, 0}
`)

// CheckRateLimit counts one request for key against limit within window.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	prefixedKey := c.prefixKey("ratelimit:" + key)
	now := c.clock.Now()
	windowStart := now.Add(-window).UnixMilli()
	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())

	result, err := slidingWindowScript.Run(ctx, c.rdb, []string{prefixedKey},
		now.UnixMilli(),
		windowStart,
		limit,
		window.Milliseconds(),
		member,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script failed: %w", err)
	}

	return &RateLimitResult{
		Allowed:   result[0] == 1,
		Limit:     limit,
		Remaining: result[1],
		ResetAt:   now.Add(window),
	}, nil
}
