package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investimentigrugno/screener/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), &config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNew_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	cfg := TradingViewRateLimit(10)
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, cfg.Limit, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), cfg))
}

type payload struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

func TestCache_LocalFallback(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	var got payload
	found, err := cache.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "aapl", payload{"AAPL", 81.5}, time.Minute))

	found, err = cache.Get(ctx, "aapl", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{"AAPL", 81.5}, got)

	require.NoError(t, cache.Delete(ctx, "aapl"))
	found, _ = cache.Get(ctx, "aapl", &got)
	assert.False(t, found)
}

func TestCache_GetOrSet(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return payload{"MSFT", 72.0}, nil
	}

	var first, second payload
	require.NoError(t, cache.GetOrSet(ctx, "msft", &first, time.Minute, fn))
	require.NoError(t, cache.GetOrSet(ctx, "msft", &second, time.Minute, fn))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "MSFT", second.Symbol)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "tv:scan:america:abc", ScanKey("america", "abc"))
	assert.Equal(t, "news:market:general:8", MarketNewsKey("general", 8))
	assert.Equal(t, "news:company:AAPL:2026-01-01:2026-01-08", CompanyNewsKey("AAPL", "2026-01-01", "2026-01-08"))
	assert.Equal(t, "translate:auto:it:d41d", TranslationKey("auto", "it", "d41d"))
}

func TestNew_Enabled(t *testing.T) {
	if os.Getenv("REDIS_URL") == "" || testing.Short() {
		t.Skip("REDIS_URL not set, skipping integration test")
	}

	cfg := &config.Config{Redis: config.RedisConfig{Enabled: true, Host: "localhost", Port: "6379"}}
	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()
	assert.True(t, client.Enabled())
}
