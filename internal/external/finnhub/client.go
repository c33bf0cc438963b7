package finnhub

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/config"
	"github.com/investimentigrugno/screener/pkg/httputil"
	"github.com/investimentigrugno/screener/pkg/logger"
	"github.com/investimentigrugno/screener/pkg/redis"
)

// ErrMissingAPIKey is returned when FINNHUB_API_KEY is not set
var ErrMissingAPIKey = errors.New("finnhub api key not configured")

// Fallback texts for incomplete articles
const (
	TitleNotAvailable       = "Title not available"
	DescriptionNotAvailable = "Description not available"
	DefaultSource           = "Finnhub"
	MarketImpact            = "Market impact"
)

const dateLayout = "2006-01-02"

// Client handles communication with the Finnhub news API
// ⭐ SSOT: Finnhub calls go through this client only
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	cacheTTL   time.Duration
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

// NewClient creates a new Finnhub client. cache may be nil.
func NewClient(httpClient *httputil.Client, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Client {
	perMin := cfg.Finnhub.RatePerMin
	if perMin <= 0 {
		perMin = 60
	}

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   cfg.Refresh.CacheTTL,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), 5),
		baseURL:    strings.TrimRight(cfg.Finnhub.BaseURL, "/"),
		apiKey:     cfg.Finnhub.APIKey,
		logger:     log,
	}
}

// article is one Finnhub news entry
type article struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// MarketNews returns up to count general market articles
func (c *Client) MarketNews(ctx context.Context, category string, count int) ([]contracts.NewsItem, error) {
	if category == "" {
		category = contracts.NewsCategoryGeneral
	}

	params := url.Values{}
	params.Set("category", category)

	if count <= 0 {
		return []contracts.NewsItem{}, nil
	}

	var articles []article
	if err := c.fetch(ctx, "/news", params, redis.MarketNewsKey(category, count), &articles); err != nil {
		return nil, err
	}

	items := make([]contracts.NewsItem, 0, min(count, len(articles)))
	for _, a := range articles {
		if len(items) == count {
			break
		}
		items = append(items, toNewsItem(a, contracts.NewsCategoryGeneral, "", MarketImpact))
	}

	return items, nil
}

// CompanyNews returns up to limit articles about symbol published between from and to
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time, limit int) ([]contracts.NewsItem, error) {
	if symbol == "" {
		return nil, fmt.Errorf("company news: empty symbol")
	}

	if limit <= 0 {
		return []contracts.NewsItem{}, nil
	}

	fromStr, toStr := from.Format(dateLayout), to.Format(dateLayout)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", fromStr)
	params.Set("to", toStr)

	var articles []article
	if err := c.fetch(ctx, "/company-news", params, redis.CompanyNewsKey(symbol, fromStr, toStr), &articles); err != nil {
		return nil, err
	}

	impact := fmt.Sprintf("Impact on %s", symbol)
	items := make([]contracts.NewsItem, 0, min(limit, len(articles)))
	for _, a := range articles {
		if len(items) == limit {
			break
		}
		items = append(items, toNewsItem(a, contracts.NewsCategoryCompany, symbol, impact))
	}

	return items, nil
}

// fetch performs a rate-limited, cached GET and decodes the JSON array into dest
func (c *Client) fetch(ctx context.Context, path string, params url.Values, cacheKey string, dest *[]article) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	if c.cache != nil {
		hit, err := c.cache.Get(ctx, cacheKey, dest)
		if err == nil && hit {
			return nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("token", c.apiKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	if err := c.httpClient.GetJSON(ctx, fullURL, dest); err != nil {
		return fmt.Errorf("finnhub %s: %w", path, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"path":     path,
		"articles": len(*dest),
	}).Debug("Finnhub fetch completed")

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey, *dest, c.cacheTTL); err != nil {
			c.logger.WithError(err).Warn("News cache write failed")
		}
	}

	return nil
}

func toNewsItem(a article, category, symbol, impact string) contracts.NewsItem {
	item := contracts.NewsItem{
		Title:       a.Headline,
		Description: a.Summary,
		Impact:      impact,
		Category:    category,
		Symbol:      symbol,
		Source:      a.Source,
		URL:         a.URL,
		PublishedAt: time.Unix(a.Datetime, 0).UTC(),
	}

	if strings.TrimSpace(item.Title) == "" {
		item.Title = TitleNotAvailable
	}
	if strings.TrimSpace(item.Description) == "" {
		item.Description = DescriptionNotAvailable
	}
	if item.Source == "" {
		item.Source = DefaultSource
	}

	return item
}
