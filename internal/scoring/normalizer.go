package scoring

import "github.com/investimentigrugno/screener/internal/contracts"

// Sub-score range. A factor with a missing required input scores MissingScore,
// which pulls the composite down instead of being excluded from it.
const (
	MinSubScore  = 0
	MaxSubScore  = 10
	MissingScore = 0
)

// RSIScore rates momentum: the 50-70 band is best, deep overbought is penalised
func RSIScore(rsi contracts.OptFloat) int {
	v, ok := rsi.Get()
	if !ok {
		return MissingScore
	}

	switch {
	case v >= 50 && v <= 70:
		return 10
	case v >= 40 && v < 50:
		return 7
	case v >= 30 && v < 40:
		return 5
	case v > 80:
		return 2
	default:
		return 1
	}
}

// MACDScore rates the MACD line against its signal line
func MACDScore(macd, signal contracts.OptFloat) int {
	m, ok1 := macd.Get()
	s, ok2 := signal.Get()
	if !ok1 || !ok2 {
		return MissingScore
	}

	diff := m - s
	switch {
	case diff > 0.05:
		return 10
	case diff > 0:
		return 7
	case diff > -0.05:
		return 4
	default:
		return 1
	}
}

// TrendScore adds up price/SMA alignment: +5 above SMA50, +3 above SMA200,
// +2 when SMA50 is above SMA200
func TrendScore(price, sma50, sma200 contracts.OptFloat) int {
	p, ok1 := price.Get()
	s50, ok2 := sma50.Get()
	s200, ok3 := sma200.Get()
	if !ok1 || !ok2 || !ok3 {
		return MissingScore
	}

	score := 0
	if p > s50 {
		score += 5
	}
	if p > s200 {
		score += 3
	}
	if s50 > s200 {
		score += 2
	}
	return score
}

// TechRatingScore rates the aggregate technical recommendation (-1 ~ +1)
func TechRatingScore(rating contracts.OptFloat) int {
	v, ok := rating.Get()
	if !ok {
		return MissingScore
	}

	switch {
	case v >= 0.5:
		return 10
	case v >= 0.3:
		return 8
	case v >= 0.1:
		return 6
	case v >= -0.1:
		return 4
	default:
		return 2
	}
}

// VolatilityScore prefers controlled daily volatility (percent)
func VolatilityScore(dailyVolPct contracts.OptFloat) int {
	v, ok := dailyVolPct.Get()
	if !ok {
		return MissingScore
	}

	switch {
	case v >= 0.5 && v <= 2.0:
		return 10
	case v >= 0.3 && v < 0.5:
		return 7
	case v > 2.0 && v <= 3.0:
		return 6
	case v > 3.0:
		return 3
	default:
		return 2
	}
}

// MarketCapScore prefers mid and large caps
func MarketCapScore(marketCap contracts.OptFloat) int {
	v, ok := marketCap.Get()
	if !ok {
		return MissingScore
	}

	switch {
	case v >= 1e9 && v <= 50e9:
		return 10
	case v > 50e9 && v <= 200e9:
		return 8
	case v >= 500e6 && v < 1e9:
		return 6
	default:
		return 4
	}
}

// Normalize computes all six sub-scores for a record
func Normalize(rec contracts.EquityRecord) contracts.SubScores {
	return contracts.SubScores{
		RSI:        RSIScore(rec.RSI),
		MACD:       MACDScore(rec.MACD, rec.MACDSignal),
		Trend:      TrendScore(rec.Price, rec.SMA50, rec.SMA200),
		TechRating: TechRatingScore(rec.TechnicalRatingAggregate),
		Volatility: VolatilityScore(rec.DailyVolatilityPercent),
		MarketCap:  MarketCapScore(rec.MarketCap),
	}
}
