package redisstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Faaz345/playsplit/clock"
)

type Config struct {
	Address      string
	Password     string
	DB           int
	KeyPrefix    string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Client struct {
	rdb       *redis.Client
	keyPrefix string
	clock     clock.Clock
	logger    *slog.Logger
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", "addr", cfg.Address)
	return NewFromClient(rdb, cfg.KeyPrefix, clock.New(), logger), nil
}

// NewFromClient оборачивает уже созданный клиент (используется в тестах с miniredis).
func NewFromClient(rdb *redis.Client, keyPrefix string, clk clock.Clock, logger *slog.Logger) *Client {
	return &Client{
		rdb:       rdb,
		keyPrefix: keyPrefix,
		clock:     clk,
		logger:    logger,
	}
}

func (c *Client) prefixKey(key string) string {
	return c.keyPrefix + key
}

// Redis exposes the underlying client for pub/sub consumers.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	c.logger.Info("closing redis client connection")
	return c.rdb.Close()
}
