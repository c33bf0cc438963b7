package selection

import (
	"strings"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/logger"
)

// Filter names reported in the filtered-out counts
const (
	FilterScore     = "score"
	FilterMarketCap = "market_cap"
	FilterVolume    = "volume"
	FilterPrice     = "price"
	FilterSector    = "sector"
)

// Screener applies hard cuts to scored equities before ranking
// ⭐ SSOT: post-scoring filters live here only
type Screener struct {
	config ScreenerConfig
	logger *logger.Logger
}

// ScreenerConfig defines hard cut conditions. Zero values disable a filter.
type ScreenerConfig struct {
	MinInvestmentScore float64  `yaml:"min_score" validate:"gte=0,lte=100"`
	MinMarketCap       float64  `yaml:"min_market_cap" validate:"gte=0"`
	MinVolume          float64  `yaml:"min_volume" validate:"gte=0"`
	MinPrice           float64  `yaml:"min_price" validate:"gte=0"`
	ExcludeSectors     []string `yaml:"exclude_sectors"`
}

// NewScreener creates a new screener
func NewScreener(config ScreenerConfig, logger *logger.Logger) *Screener {
	return &Screener{
		config: config,
		logger: logger,
	}
}

// Screen keeps the equities that pass every enabled filter, in input order,
// and counts the rejects per filter name
func (s *Screener) Screen(scored []contracts.ScoredEquity) ([]contracts.ScoredEquity, map[string]int) {
	passed := make([]contracts.ScoredEquity, 0, len(scored))
	filtered := make(map[string]int)

	excluded := make(map[string]bool, len(s.config.ExcludeSectors))
	for _, sector := range s.config.ExcludeSectors {
		excluded[strings.ToLower(strings.TrimSpace(sector))] = true
	}

	for _, se := range scored {
		reason := s.checkConditions(se, excluded)
		if reason == "" {
			passed = append(passed, se)
		} else {
			filtered[reason]++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(scored),
		"passed":       len(passed),
		"filtered_out": len(scored) - len(passed),
		"filters":      filtered,
	}).Info("Screening completed")

	return passed, filtered
}

// checkConditions returns the first failing filter name, or "" when passed.
// A missing field fails an enabled filter.
func (s *Screener) checkConditions(se contracts.ScoredEquity, excluded map[string]bool) string {
	if se.InvestmentScore < s.config.MinInvestmentScore {
		return FilterScore
	}

	rec := se.Record

	if s.config.MinMarketCap > 0 && !atLeast(rec.MarketCap, s.config.MinMarketCap) {
		return FilterMarketCap
	}

	if s.config.MinVolume > 0 && !atLeast(rec.Volume, s.config.MinVolume) {
		return FilterVolume
	}

	if s.config.MinPrice > 0 && !atLeast(rec.Price, s.config.MinPrice) {
		return FilterPrice
	}

	if len(excluded) > 0 && excluded[strings.ToLower(strings.TrimSpace(rec.Sector))] {
		return FilterSector
	}

	return ""
}

func atLeast(v contracts.OptFloat, min float64) bool {
	f, ok := v.Get()
	return ok && f >= min
}

// DefaultScreenerConfig returns a permissive configuration
func DefaultScreenerConfig() ScreenerConfig {
	return ScreenerConfig{
		MinInvestmentScore: 0,
		MinMarketCap:       0,
		MinVolume:          0,
		MinPrice:           0,
	}
}
