package tradingview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/config"
	"github.com/investimentigrugno/screener/pkg/httputil"
	"github.com/investimentigrugno/screener/pkg/logger"
	"github.com/investimentigrugno/screener/pkg/redis"
)

// Client queries the TradingView scanner
// ⭐ SSOT: market-data scanner calls go through this client only
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	cacheTTL   time.Duration
	baseURL    string
	market     string
	limit      int
	logger     *logger.Logger
}

// NewClient creates a new scanner client. cache may be nil.
func NewClient(httpClient *httputil.Client, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   cfg.Refresh.CacheTTL,
		baseURL:    strings.TrimRight(cfg.TradingView.BaseURL, "/"),
		market:     cfg.TradingView.Market,
		limit:      cfg.TradingView.Limit,
		logger:     log,
	}
}

// Fetch runs the default screen for the configured market
func (c *Client) Fetch(ctx context.Context) ([]contracts.EquityRecord, error) {
	return c.Scan(ctx, DefaultQuery(c.market, c.limit))
}

// Market returns the configured market
func (c *Client) Market() string {
	return c.market
}

// Scan runs a query and returns its rows in scanner order
func (c *Client) Scan(ctx context.Context, q *Query) ([]contracts.EquityRecord, error) {
	cacheKey := redis.ScanKey(q.Market, q.Fingerprint())

	if c.cache != nil {
		var cached []contracts.EquityRecord
		hit, err := c.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			c.logger.WithError(err).Warn("Scanner cache read failed")
		} else if hit {
			c.logger.WithFields(map[string]interface{}{
				"market":  q.Market,
				"records": len(cached),
			}).Debug("Scanner cache hit")
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/%s/scan", c.baseURL, q.Market)

	resp, err := c.httpClient.PostJSON(ctx, url, q.request())
	if err != nil {
		return nil, fmt.Errorf("scanner request failed: %w", err)
	}
	defer resp.Body.Close()

	var body scanResponse
	if err := httputil.DecodeJSON(resp, &body); err != nil {
		return nil, fmt.Errorf("scanner response: %w", err)
	}

	records, err := toRecords(q.Columns, body.Data)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"market":      q.Market,
		"total_count": body.TotalCount,
		"records":     len(records),
	}).Info("Scanner query completed")

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey, records, c.cacheTTL); err != nil {
			c.logger.WithError(err).Warn("Scanner cache write failed")
		}
	}

	return records, nil
}

// QuerySource runs a fixed query on every Fetch
type QuerySource struct {
	client *Client
	query  *Query
}

// Source binds a query to the client as a market-data source
func (c *Client) Source(q *Query) *QuerySource {
	return &QuerySource{client: c, query: q}
}

// Fetch runs the bound query
func (s *QuerySource) Fetch(ctx context.Context) ([]contracts.EquityRecord, error) {
	return s.client.Scan(ctx, s.query)
}

// Market returns the query market
func (s *QuerySource) Market() string {
	return s.query.Market
}
