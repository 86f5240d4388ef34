package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "content:block:"

// Cache is a Redis read-through cache for content blocks. A nil cache (or a
// nil client) degrades to loading straight from the repository.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Fetch loads a cached block or populates the cache using the loader. Cache
// failures fall back to the loader; a stale read is worse than a slow one.
func (c *Cache) Fetch(ctx context.Context, slug string, loader func(context.Context) (*Block, error)) (*Block, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	key := cacheKeyPrefix + slug
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var block Block
		if err := json.Unmarshal(raw, &block); err == nil {
			return &block, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return loader(ctx)
	}

	block, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(block); err == nil {
		_ = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	return block, nil
}

// Invalidate drops the cached entry for a slug after a write.
func (c *Cache) Invalidate(ctx context.Context, slug string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKeyPrefix+slug).Err()
}
