package contracts

// SubScores holds the six per-factor ratings, each in 0..10
type SubScores struct {
	RSI        int `json:"rsiScore"`
	MACD       int `json:"macdScore"`
	Trend      int `json:"trendScore"`
	TechRating int `json:"techRatingScore"`
	Volatility int `json:"volatilityScore"`
	MarketCap  int `json:"marketCapScore"`
}

// ScoredEquity is an EquityRecord with its sub-scores and composite score.
// It is derived from the record and never written back to it.
type ScoredEquity struct {
	Record          EquityRecord `json:"record"`
	Scores          SubScores    `json:"scores"`
	InvestmentScore float64      `json:"investmentScore"` // 0.0 ~ 100.0, one decimal
}

// RankedEquity is a ScoredEquity with its 1-based position
type RankedEquity struct {
	Rank int `json:"rank"`
	ScoredEquity
}

// Pick is one entry of a Top-N selection
type Pick struct {
	Rank      int          `json:"rank"`
	Equity    ScoredEquity `json:"equity"`
	Reasons   []string     `json:"reasons"`
	Rationale string       `json:"rationale"`
}
