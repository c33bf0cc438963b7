package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values under a key prefix. Redis is used when
// enabled; otherwise values live in an in-process go-cache.
// ⭐ SSOT: upstream response caching goes through here
type Cache struct {
	client *Client
	local  *gocache.Cache
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		local:  gocache.New(TTLMedium, 2*TTLMedium),
		prefix: prefix,
	}
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get loads a cached value into dest. The bool is false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data []byte

	if c.client != nil && c.client.Enabled() {
		b, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("cache get failed: %w", err)
		}
		data = b
	} else {
		v, found := c.local.Get(c.key(key))
		if !found {
			return false, nil
		}
		data = v.([]byte)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if c.client != nil && c.client.Enabled() {
		return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
	}

	c.local.Set(c.key(key), data, ttl)
	return nil
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.client != nil && c.client.Enabled() {
		return c.client.Redis().Del(ctx, c.key(key)).Err()
	}

	c.local.Delete(c.key(key))
	return nil
}

// GetOrSet loads from cache or calls fn to populate it.
// A failing Set does not fail the call; fn's value is still returned in dest.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	found, err := c.Get(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}

	_ = c.Set(ctx, key, value, ttl)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute
	TTLMedium = 10 * time.Minute
	TTLLong   = 1 * time.Hour
)

// ScanKey is the cache key for a scanner query fingerprint
func ScanKey(market, fingerprint string) string {
	return fmt.Sprintf("tv:scan:%s:%s", market, fingerprint)
}

// MarketNewsKey is the cache key for general market news
func MarketNewsKey(category string, count int) string {
	return fmt.Sprintf("news:market:%s:%d", category, count)
}

// CompanyNewsKey is the cache key for company news in a date window
func CompanyNewsKey(symbol, from, to string) string {
	return fmt.Sprintf("news:company:%s:%s:%s", symbol, from, to)
}

// TranslationKey is the cache key for one translated text, identified by its digest
func TranslationKey(from, to, digest string) string {
	return fmt.Sprintf("translate:%s:%s:%s", from, to, digest)
}
