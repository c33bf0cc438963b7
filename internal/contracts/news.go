package contracts

import "time"

// News categories
const (
	NewsCategoryGeneral = "general"
	NewsCategoryCompany = "company_specific"
)

// NewsItem is one market-news record shown next to the screener
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"`
	Category    string    `json:"category"`
	Symbol      string    `json:"symbol,omitempty"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Translated  bool      `json:"translated"`
}
