package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/internal/news"
)

// newsCmd represents the news command
var newsCmd = &cobra.Command{
	Use:   "news [symbol]",
	Short: "Print market or company news",
	Long: `Prints the latest general market news from Finnhub, or company
news for one symbol. Requires FINNHUB_API_KEY. Articles are translated
into NEWS_LANGUAGE unless TRANSLATE_ENABLED=false or --no-translate is set.

Example:
  go run ./cmd/screener news
  go run ./cmd/screener news --count 5
  go run ./cmd/screener news AAPL --days 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNews,
}

var (
	newsCount    int
	newsDays     int
	newsCategory string
	newsRaw      bool
)

func init() {
	rootCmd.AddCommand(newsCmd)

	newsCmd.Flags().IntVar(&newsCount, "count", 8, "number of articles")
	newsCmd.Flags().IntVar(&newsDays, "days", 7, "company news look-back in days")
	newsCmd.Flags().StringVar(&newsCategory, "category", contracts.NewsCategoryGeneral, "market news category")
	newsCmd.Flags().BoolVar(&newsRaw, "no-translate", false, "print articles in their original language")
}

func runNews(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.newsSource == nil {
		PrintWarning("FINNHUB_API_KEY is not set")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	var items []contracts.NewsItem
	if len(args) == 1 {
		to := time.Now()
		from := to.AddDate(0, 0, -newsDays)
		items, err = a.newsSource.CompanyNews(ctx, args[0], from, to, newsCount)
	} else {
		items, err = a.newsSource.MarketNews(ctx, newsCategory, newsCount)
	}
	if err != nil {
		return fmt.Errorf("fetch news: %w", err)
	}

	for i := range items {
		items[i].Title = news.StripHTML(items[i].Title)
		items[i].Description = news.StripHTML(items[i].Description)
	}
	items = news.Dedupe(items)
	if !newsRaw {
		if err := a.newsService.Translate(ctx, items); err != nil {
			return fmt.Errorf("translate news: %w", err)
		}
	}
	news.SortNewestFirst(items)
	PrintNews(items)
	return nil
}
