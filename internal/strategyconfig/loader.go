package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/investimentigrugno/screener/internal/external/tradingview"
	"github.com/investimentigrugno/screener/internal/news"
	"github.com/investimentigrugno/screener/internal/scoring"
	"github.com/investimentigrugno/screener/internal/selection"
)

// Load reads a YAML profile and returns it with its raw bytes.
// Unknown fields fail the decode so typos never pass silently.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return cfg, data, nil
}

// Parse decodes and validates a YAML profile
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Hash generates a SHA-256 of the profile's canonical JSON
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// Weights converts percentages to scoring weights
func (c *Config) Weights() scoring.Weights {
	w := c.Scoring.WeightsPct
	return scoring.Weights{
		RSI:        float64(w.RSI) / 100,
		MACD:       float64(w.MACD) / 100,
		Trend:      float64(w.Trend) / 100,
		TechRating: float64(w.TechRating) / 100,
		Volatility: float64(w.Volatility) / 100,
		MarketCap:  float64(w.MarketCap) / 100,
	}
}

// ScreenerConfig returns the post-scoring hard cuts
func (c *Config) ScreenerConfig() selection.ScreenerConfig {
	s := c.Selection
	return selection.ScreenerConfig{
		MinInvestmentScore: s.MinScore,
		MinMarketCap:       s.MinMarketCap,
		MinVolume:          s.MinVolume,
		MinPrice:           s.MinPrice,
		ExcludeSectors:     s.ExcludeSectors,
	}
}

// NewsConfig returns the news collection settings
func (c *Config) NewsConfig() news.Config {
	return news.Config{
		MarketCount:     c.News.MarketCount,
		PerPick:         c.News.CompanyLimit,
		CompanyNewsDays: c.News.CompanyDays,
		Language:        c.News.Language,
	}
}

// ScanQuery builds the scanner query described by the profile
func (c *Config) ScanQuery() *tradingview.Query {
	q := tradingview.NewQuery(c.Query.Market).Limit(c.Query.Limit)

	for _, f := range c.Query.Filters {
		filter := tradingview.Filter{Left: f.Column, Operation: f.Operation, Right: f.Value}
		if f.Operation == tradingview.OpInRange {
			filter.Right = f.Values
		}
		q.Where(filter)
	}

	if c.Query.SortBy != "" {
		q.OrderBy(c.Query.SortBy, !c.Query.SortAsc)
	}

	return q
}
