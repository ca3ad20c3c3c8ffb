// Package rdx wraps the Redis client used for the access-token registry and
// the distributed account locks.
package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func New(addr string) *Client {
	return &Client{redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *Client) RdxGet(ctx context.Context, key string) (string, error) {
	return c.Get(ctx, key).Result()
}

func (c *Client) RdxDel(ctx context.Context, key string) error {
	return c.Del(ctx, key).Err()
}

func (c *Client) RdxSetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) RdxHset(ctx context.Context, hash, field, value string) error {
	return c.HSet(ctx, hash, field, value).Err()
}

func (c *Client) RdxHdel(ctx context.Context, hash, field string) error {
	return c.HDel(ctx, hash, field).Err()
}
