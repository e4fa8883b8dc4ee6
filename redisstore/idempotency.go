package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrKeyExists = errors.New("idempotency key already exists")

const idempotencyPending = "pending"

// CheckAndSetIdempotency reserves key. A nil slice with nil error means the
// caller owns the key; a non-nil slice is the stored result of a finished run;
// ErrKeyExists means another run is still in flight.
func (c *Client) CheckAndSetIdempotency(ctx context.Context, key string, ttl time.Duration) ([]byte, error) {
	prefixedKey := c.prefixKey("idempotency:" + key)

	set, err := c.rdb.SetNX(ctx, prefixedKey, idempotencyPending, ttl).Result()
	if err != nil {
		return nil, err
	}
	if set {
		return nil, nil
	}

	val, err := c.rdb.Get(ctx, prefixedKey).Result()
	if errors.Is(err, redis.Nil) {
		// ключ истек между SETNX и GET
		return nil, ErrKeyExists
	}
	if err != nil {
		return nil, err
	}
	if val == idempotencyPending {
		return nil, ErrKeyExists
	}
	return []byte(val), nil
}

func (c *Client) MarkIdempotencyComplete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if len(response) == 0 {
		response = []byte("done")
	}
	return c.rdb.Set(ctx, c.prefixKey("idempotency:"+key), response, ttl).Err()
}

// MarkIdempotencyFailed releases the key so a redelivery can retry.
func (c *Client) MarkIdempotencyFailed(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.prefixKey("idempotency:"+key)).Err()
}
