package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache stores serialised menu reads
type CatalogCache interface {
	// Get loads key into dest and reports whether it was present
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisCatalogCache keeps menu reads in Redis with a fixed TTL
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCatalogCache wraps an existing client
func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl, prefix: "pizzeria:"}
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}

func (c *RedisCatalogCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

// NoopCatalogCache is used when Redis is not configured
type NoopCatalogCache struct{}

func (NoopCatalogCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NoopCatalogCache) Set(context.Context, string, interface{}) error         { return nil }
func (NoopCatalogCache) Delete(context.Context, ...string) error                { return nil }

// cache keys
const (
	cacheKeyCategories = "categories"
)

func dishListCacheKey(filter int) string {
	return fmt.Sprintf("dishes:filter:%d", filter)
}

func dishCacheKey(id uint) string {
	return fmt.Sprintf("dish:%d", id)
}

// menuCacheKeys lists every key a catalog write can make stale
func menuCacheKeys(dishIDs ...uint) []string {
	keys := []string{
		cacheKeyCategories,
		dishListCacheKey(DishFilterLowPrice),
		dishListCacheKey(DishFilterHighPrice),
		dishListCacheKey(DishFilterNone),
	}
	for _, id := range dishIDs {
		keys = append(keys, dishCacheKey(id))
	}
	return keys
}
