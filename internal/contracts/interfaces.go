package contracts

import (
	"context"
	"time"
)

// MarketDataSource returns the candidate universe for one refresh
type MarketDataSource interface {
	Fetch(ctx context.Context) ([]EquityRecord, error)
}

// NewsSource returns market-wide and per-company news
type NewsSource interface {
	MarketNews(ctx context.Context, category string, count int) ([]NewsItem, error)
	CompanyNews(ctx context.Context, symbol string, from, to time.Time, limit int) ([]NewsItem, error)
}
