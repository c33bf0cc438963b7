package scoring

import (
	"fmt"
	"math"

	"github.com/investimentigrugno/screener/internal/contracts"
)

// Weights defines the contribution of each sub-score to the investment score
type Weights struct {
	RSI        float64 `json:"rsi" yaml:"rsi"`
	MACD       float64 `json:"macd" yaml:"macd"`
	Trend      float64 `json:"trend" yaml:"trend"`
	TechRating float64 `json:"tech_rating" yaml:"tech_rating"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
	MarketCap  float64 `json:"market_cap" yaml:"market_cap"`
}

// DefaultWeights returns the production weights (sum = 1.00)
func DefaultWeights() Weights {
	return Weights{
		RSI:        0.20,
		MACD:       0.15,
		Trend:      0.25,
		TechRating: 0.20,
		Volatility: 0.10,
		MarketCap:  0.10,
	}
}

// Sum returns the total weight
func (w Weights) Sum() float64 {
	return w.RSI + w.MACD + w.Trend + w.TechRating + w.Volatility + w.MarketCap
}

// Validate checks that no weight is negative and that weights sum to 1.0
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"rsi": w.RSI, "macd": w.MACD, "trend": w.Trend,
		"tech_rating": w.TechRating, "volatility": w.Volatility, "market_cap": w.MarketCap,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be >= 0, got %v", name, v)
		}
	}

	// Allow small floating point error
	sum := w.Sum()
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// Composite combines sub-scores into an investment score in [0, 100],
// rounded to one decimal
func Composite(sub contracts.SubScores, w Weights) float64 {
	weighted := float64(sub.RSI)*w.RSI +
		float64(sub.MACD)*w.MACD +
		float64(sub.Trend)*w.Trend +
		float64(sub.TechRating)*w.TechRating +
		float64(sub.Volatility)*w.Volatility +
		float64(sub.MarketCap)*w.MarketCap

	maxPossible := MaxSubScore * w.Sum()
	if maxPossible <= 0 {
		return 0
	}

	score := round1(weighted / maxPossible * 100)

	// Clamp to 0 ~ 100
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return score
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
