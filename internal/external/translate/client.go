package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/investimentigrugno/screener/pkg/config"
	"github.com/investimentigrugno/screener/pkg/httputil"
	"github.com/investimentigrugno/screener/pkg/logger"
	"github.com/investimentigrugno/screener/pkg/redis"
)

// AutoDetect asks the endpoint to detect the source language
const AutoDetect = "auto"

// ErrMalformedResponse is returned when the endpoint answers with an unexpected shape
var ErrMalformedResponse = errors.New("malformed translation response")

// Client translates short texts through the public Google translate endpoint
// ⭐ SSOT: translation calls go through this client only
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	cacheTTL   time.Duration
	limiter    *rate.Limiter
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new translation client. cache may be nil.
func NewClient(httpClient *httputil.Client, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   24 * time.Hour,
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		baseURL:    strings.TrimRight(cfg.Translate.BaseURL, "/"),
		logger:     log,
	}
}

// Translate returns text in language to. from may be empty or AutoDetect.
// Text already in the target language comes back unchanged.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" || to == "" {
		return text, nil
	}
	if from == "" {
		from = AutoDetect
	}
	if from == to {
		return text, nil
	}

	sum := sha256.Sum256([]byte(text))
	cacheKey := redis.TranslationKey(from, to, hex.EncodeToString(sum[:8]))

	if c.cache != nil {
		var cached string
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", from)
	params.Set("tl", to)
	params.Set("dt", "t")
	params.Set("q", text)
	fullURL := fmt.Sprintf("%s/translate_a/single?%s", c.baseURL, params.Encode())

	var body []interface{}
	if err := c.httpClient.GetJSON(ctx, fullURL, &body); err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	out, detected, err := parseResponse(body)
	if err != nil {
		return "", err
	}
	if detected == to {
		out = text
	}

	c.logger.WithFields(map[string]interface{}{
		"from":  detected,
		"to":    to,
		"chars": len(text),
	}).Debug("Translation completed")

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, out, c.cacheTTL); err != nil {
			c.logger.WithError(err).Warn("Translation cache write failed")
		}
	}

	return out, nil
}

// parseResponse joins the translated segments and reads the detected language.
// The body looks like [[["Ciao","Hello",null,null,10],...],null,"en",...].
func parseResponse(body []interface{}) (string, string, error) {
	if len(body) == 0 {
		return "", "", ErrMalformedResponse
	}
	segments, ok := body[0].([]interface{})
	if !ok || len(segments) == 0 {
		return "", "", ErrMalformedResponse
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]interface{})
		if !ok || len(parts) == 0 {
			return "", "", ErrMalformedResponse
		}
		s, ok := parts[0].(string)
		if !ok {
			return "", "", ErrMalformedResponse
		}
		b.WriteString(s)
	}

	var detected string
	if len(body) > 2 {
		detected, _ = body[2].(string)
	}

	return b.String(), detected, nil
}
