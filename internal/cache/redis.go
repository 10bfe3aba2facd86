package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 30 * time.Second
	versionKey = "feed:version"
)

// RedisFeedCache keys every page under the current feed version, so bumping
// the version invalidates all pages without scanning keys.
type RedisFeedCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRedisFeedCache connects to redisURL and verifies the connection.
func NewRedisFeedCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisFeedCache, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("feed cache: invalid URL: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("feed cache: ping failed: %w", err)
	}
	return NewRedisFeedCacheFromClient(client, ttl), nil
}

func NewRedisFeedCacheFromClient(client *goredis.Client, ttl time.Duration) *RedisFeedCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisFeedCache{client: client, ttl: ttl}
}

func (c *RedisFeedCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisFeedCache) pageKey(ctx context.Context, key string) (string, error) {
	v, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("feed:v%d:%s", v, key), nil
}

func (c *RedisFeedCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	k, err := c.pageKey(ctx, key)
	if err != nil {
		return false, err
	}
	data, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisFeedCache) Set(ctx context.Context, key string, value any) error {
	k, err := c.pageKey(ctx, key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, k, data, c.ttl).Err()
}

func (c *RedisFeedCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

func (c *RedisFeedCache) Close() error {
	return c.client.Close()
}

var _ FeedCache = (*RedisFeedCache)(nil)
