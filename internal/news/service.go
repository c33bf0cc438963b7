package news

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/logger"
)

// Translator turns text into another language. from may be "auto".
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Config controls how much news is collected per refresh
type Config struct {
	MarketCount     int    // general articles
	PerPick         int    // company articles per pick
	CompanyNewsDays int    // look-back window
	Language        string // translation target, empty disables translation
}

// DefaultConfig returns the standard news settings
func DefaultConfig() Config {
	return Config{
		MarketCount:     8,
		PerPick:         3,
		CompanyNewsDays: 7,
		Language:        "it",
	}
}

// Service gathers market and company news for the current picks
type Service struct {
	source     contracts.NewsSource
	translator Translator // optional
	config     Config
	logger     *logger.Logger
	now        func() time.Time
}

// NewService creates a news service
func NewService(source contracts.NewsSource, config Config, log *logger.Logger) *Service {
	return &Service{
		source: source,
		config: config,
		logger: log,
		now:    time.Now,
	}
}

// WithTranslator enables translation of collected items into config.Language
func (s *Service) WithTranslator(t Translator) *Service {
	s.translator = t
	return s
}

// Collect fetches general news plus company news for each pick.
// A market-news failure is returned; a failure for a single symbol is logged
// and skipped. Results are cleaned, de-duplicated, translated and sorted
// newest first.
func (s *Service) Collect(ctx context.Context, picks []contracts.Pick) ([]contracts.NewsItem, error) {
	items, err := s.source.MarketNews(ctx, contracts.NewsCategoryGeneral, s.config.MarketCount)
	if err != nil {
		return nil, err
	}

	to := s.now()
	from := to.AddDate(0, 0, -s.config.CompanyNewsDays)

	for _, p := range picks {
		symbol := p.Equity.Record.Symbol
		if symbol == "" {
			continue
		}

		company, err := s.source.CompanyNews(ctx, symbol, from, to, s.config.PerPick)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Warn("Company news unavailable")
			continue
		}
		items = append(items, company...)
	}

	for i := range items {
		items[i].Title = StripHTML(items[i].Title)
		items[i].Description = StripHTML(items[i].Description)
	}

	items = Dedupe(items)
	if err := s.Translate(ctx, items); err != nil {
		return nil, err
	}
	SortNewestFirst(items)

	s.logger.WithFields(map[string]interface{}{
		"items": len(items),
		"picks": len(picks),
	}).Info("News collected")

	return items, nil
}

// Translate rewrites titles and descriptions into the configured language in place.
// A failed text keeps its original wording; only context cancellation is returned.
func (s *Service) Translate(ctx context.Context, items []contracts.NewsItem) error {
	if s.translator == nil || s.config.Language == "" {
		return nil
	}

	failed := 0
	for i := range items {
		title, okTitle := s.translateText(ctx, items[i].Title)
		desc, okDesc := s.translateText(ctx, items[i].Description)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !okTitle || !okDesc {
			failed++
		}

		if title != items[i].Title || desc != items[i].Description {
			items[i].Translated = true
		}
		items[i].Title = title
		items[i].Description = desc
	}

	if failed > 0 {
		s.logger.WithFields(map[string]interface{}{
			"failed":   failed,
			"items":    len(items),
			"language": s.config.Language,
		}).Warn("Some news could not be translated")
	}

	return nil
}

// translateText returns the translated text, or the original and false on failure
func (s *Service) translateText(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return text, true
	}

	out, err := s.translator.Translate(ctx, text, "auto", s.config.Language)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Debug("Translation failed, keeping original text")
		}
		return text, false
	}
	if strings.TrimSpace(out) == "" {
		return text, false
	}
	return out, true
}

// StripHTML returns the text content of an HTML fragment with whitespace collapsed
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Dedupe drops repeated articles, keyed by URL or by title when URL is empty.
// The first occurrence wins.
func Dedupe(items []contracts.NewsItem) []contracts.NewsItem {
	seen := make(map[string]bool, len(items))
	out := make([]contracts.NewsItem, 0, len(items))

	for _, item := range items {
		key := "url:" + strings.TrimSpace(item.URL)
		if strings.TrimSpace(item.URL) == "" {
			key = "title:" + strings.ToLower(strings.TrimSpace(item.Title))
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}

	return out
}

// SortNewestFirst orders items by publication time, newest first.
// Equal times keep their order.
func SortNewestFirst(items []contracts.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
