package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/tradelens/pkg/config"
)

// pingTimeout bounds the connection check in New
const pingTimeout = 3 * time.Second

// Client wraps the Redis client
// ⭐ SSOT: Redis connections are managed here only
type Client struct {
	rdb     *redis.Client
	enabled bool
	ttl     time.Duration
}

// New creates a Redis client. A disabled config yields a no-op client.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{enabled: false, ttl: cfg.Redis.TTL}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewFromClient(rdb, cfg.Redis.TTL), nil
}

// NewFromClient wraps an existing go-redis client
func NewFromClient(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{
		rdb:     rdb,
		enabled: rdb != nil,
		ttl:     ttl,
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Enabled returns whether Redis is enabled
func (c *Client) Enabled() bool {
	return c.enabled
}

// TTL default lifetime for cached entries
func (c *Client) TTL() time.Duration {
	return c.ttl
}

// Redis returns the underlying redis client for advanced usage
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
