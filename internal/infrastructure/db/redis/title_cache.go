package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const titleTTL = time.Hour

// TitleCache caches service titles keyed by external service code, backed by
// Redis with a TTL. Used to avoid one extra store round-trip per listed order.
// Key format: service_title:<code>
type TitleCache struct {
	client *redis.Client
}

// NewTitleCache creates a TitleCache wrapping the given Redis client.
func NewTitleCache(client *redis.Client) *TitleCache {
	return &TitleCache{client: client}
}

// Get returns the cached title for a service code, if present.
func (c *TitleCache) Get(ctx context.Context, code string) (string, bool, error) {
	title, err := c.client.Get(ctx, c.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("title cache get: %w", err)
	}
	return title, true, nil
}

// Set records the title for a service code (expires after titleTTL).
func (c *TitleCache) Set(ctx context.Context, code, title string) error {
	return c.client.Set(ctx, c.key(code), title, titleTTL).Err()
}

func (c *TitleCache) key(code string) string {
	return "service_title:" + code
}
