package strategyconfig

// Config is the full screen profile
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Query     Query     `yaml:"query" json:"query"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
	Selection Selection `yaml:"selection" json:"selection"`
	News      News      `yaml:"news" json:"news"`
}

// Meta identifies the profile
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id" validate:"required"`
	Version   string `yaml:"version" json:"version" validate:"required"`
}

// Query is the upstream scanner request
type Query struct {
	Market  string        `yaml:"market" json:"market" validate:"required"`
	Limit   int           `yaml:"limit" json:"limit" validate:"gte=1,lte=5000"`
	SortBy  string        `yaml:"sort_by" json:"sort_by"`
	SortAsc bool          `yaml:"sort_asc" json:"sort_asc"`
	Filters []QueryFilter `yaml:"filters" json:"filters" validate:"dive"`
}

// QueryFilter is one scanner condition. in_range uses Values (low, high).
type QueryFilter struct {
	Column    string    `yaml:"column" json:"column" validate:"required"`
	Operation string    `yaml:"operation" json:"operation" validate:"required,oneof=greater egreater less eless equal nequal in_range"`
	Value     float64   `yaml:"value" json:"value"`
	Values    []float64 `yaml:"values" json:"values"`
}

// Scoring holds factor weights in percent
type Scoring struct {
	WeightsPct WeightsPct `yaml:"weights_pct" json:"weights_pct"`
}

// WeightsPct are integer percentages that must sum to 100
type WeightsPct struct {
	RSI        int `yaml:"rsi" json:"rsi" validate:"gte=0,lte=100"`
	MACD       int `yaml:"macd" json:"macd" validate:"gte=0,lte=100"`
	Trend      int `yaml:"trend" json:"trend" validate:"gte=0,lte=100"`
	TechRating int `yaml:"tech_rating" json:"tech_rating" validate:"gte=0,lte=100"`
	Volatility int `yaml:"volatility" json:"volatility" validate:"gte=0,lte=100"`
	MarketCap  int `yaml:"market_cap" json:"market_cap" validate:"gte=0,lte=100"`
}

// Sum returns the total percentage
func (w WeightsPct) Sum() int {
	return w.RSI + w.MACD + w.Trend + w.TechRating + w.Volatility + w.MarketCap
}

// Selection holds post-scoring filters and pick count
type Selection struct {
	TopN           int      `yaml:"top_n" json:"top_n" validate:"gte=1,lte=100"`
	MinScore       float64  `yaml:"min_score" json:"min_score" validate:"gte=0,lte=100"`
	MinMarketCap   float64  `yaml:"min_market_cap" json:"min_market_cap" validate:"gte=0"`
	MinVolume      float64  `yaml:"min_volume" json:"min_volume" validate:"gte=0"`
	MinPrice       float64  `yaml:"min_price" json:"min_price" validate:"gte=0"`
	ExcludeSectors []string `yaml:"exclude_sectors" json:"exclude_sectors"`
}

// News controls news collection
type News struct {
	MarketCount  int    `yaml:"market_count" json:"market_count" validate:"gte=0,lte=50"`
	CompanyDays  int    `yaml:"company_days" json:"company_days" validate:"gte=1,lte=30"`
	CompanyLimit int    `yaml:"company_limit" json:"company_limit" validate:"gte=0,lte=20"`
	Language     string `yaml:"language" json:"language" validate:"omitempty,min=2,max=7"` // empty uses NEWS_LANGUAGE
}
