package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.rdb.Publish(ctx, c.prefixKey(channel), payload).Err()
}

// Subscribe returns a subscription on the prefixed channel. The caller closes it.
func (c *Client) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return c.rdb.Subscribe(ctx, c.prefixKey(channel))
}
