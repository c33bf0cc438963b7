package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/internal/external/translate"
	"github.com/investimentigrugno/screener/pkg/config"
	"github.com/investimentigrugno/screener/pkg/httputil"
	"github.com/investimentigrugno/screener/pkg/logger"
)

type fakeSource struct {
	market      []contracts.NewsItem
	marketErr   error
	company     map[string][]contracts.NewsItem
	companyErr  map[string]error
	lastFrom    time.Time
	lastTo      time.Time
	companyArgs []string
}

func (f *fakeSource) MarketNews(ctx context.Context, category string, count int) ([]contracts.NewsItem, error) {
	if f.marketErr != nil {
		return nil, f.marketErr
	}
	return append([]contracts.NewsItem(nil), f.market...), nil
}

func (f *fakeSource) CompanyNews(ctx context.Context, symbol string, from, to time.Time, limit int) ([]contracts.NewsItem, error) {
	f.companyArgs = append(f.companyArgs, symbol)
	f.lastFrom, f.lastTo = from, to
	if err := f.companyErr[symbol]; err != nil {
		return nil, err
	}
	return f.company[symbol], nil
}

func at(hour int) time.Time {
	return time.Date(2026, 10, 18, hour, 0, 0, 0, time.UTC)
}

func pick(symbol string) contracts.Pick {
	return contracts.Pick{Equity: contracts.ScoredEquity{Record: contracts.EquityRecord{Symbol: symbol}}}
}

func TestCollect(t *testing.T) {
	src := &fakeSource{
		market: []contracts.NewsItem{
			{Title: "Market <b>open</b>", Description: "<p>Stocks &amp; bonds</p>", URL: "https://x/1", PublishedAt: at(9)},
			{Title: "Fed", URL: "https://x/2", PublishedAt: at(11)},
		},
		company: map[string][]contracts.NewsItem{
			"AAPL": {
				{Title: "Apple earnings", URL: "https://x/3", Symbol: "AAPL", PublishedAt: at(10)},
				{Title: "Fed", URL: "https://x/2", Symbol: "AAPL", PublishedAt: at(11)},
			},
		},
		companyErr: map[string]error{"MSFT": errors.New("429")},
	}

	svc := NewService(src, DefaultConfig(), logger.Nop())
	svc.now = func() time.Time { return at(12) }

	items, err := svc.Collect(context.Background(), []contracts.Pick{pick("AAPL"), pick("MSFT"), pick("")})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "Fed", items[0].Title)
	assert.Empty(t, items[0].Symbol)
	assert.Equal(t, "Apple earnings", items[1].Title)
	assert.Equal(t, "Market open", items[2].Title)
	assert.Equal(t, "Stocks & bonds", items[2].Description)

	assert.Equal(t, []string{"AAPL", "MSFT"}, src.companyArgs)
	assert.Equal(t, at(12).AddDate(0, 0, -7), src.lastFrom)
}

func TestCollect_MarketFailure(t *testing.T) {
	src := &fakeSource{marketErr: errors.New("down")}
	svc := NewService(src, DefaultConfig(), logger.Nop())

	_, err := svc.Collect(context.Background(), nil)
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  extra   spaces\n", "extra spaces"},
		{"<p>Hello <a href='#'>world</a></p>", "Hello world"},
		{"AT&amp;T", "AT&T"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripHTML(tt.in))
	}
}

func TestDedupe(t *testing.T) {
	items := []contracts.NewsItem{
		{Title: "A", URL: "https://x/1"},
		{Title: "A again", URL: "https://x/1"},
		{Title: "No URL"},
		{Title: "no url "},
		{Title: "Other"},
	}

	out := Dedupe(items)
	titles := make([]string, len(out))
	for i, it := range out {
		titles[i] = it.Title
	}
	assert.Equal(t, []string{"A", "No URL", "Other"}, titles)
}

func TestSortNewestFirst_Stable(t *testing.T) {
	items := []contracts.NewsItem{
		{Title: "old", PublishedAt: at(1)},
		{Title: "tie1", PublishedAt: at(5)},
		{Title: "tie2", PublishedAt: at(5)},
		{Title: "new", PublishedAt: at(9)},
	}

	SortNewestFirst(items)
	assert.Equal(t, "new", items[0].Title)
	assert.Equal(t, "tie1", items[1].Title)
	assert.Equal(t, "tie2", items[2].Title)
	assert.Equal(t, "old", items[3].Title)
}

// translateServer answers like the gtx endpoint: Italian text is detected as
// such, everything else comes back prefixed with "IT ".
func translateServer(t *testing.T, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		q := r.URL.Query().Get("q")
		body := []interface{}{[]interface{}{[]interface{}{"IT " + q, q}}, nil, "en"}
		if strings.HasPrefix(q, "Borsa") {
			body = []interface{}{[]interface{}{[]interface{}{q, q}}, nil, "it"}
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newTranslator(serverURL string) *translate.Client {
	cfg := &config.Config{Translate: config.TranslateConfig{Enabled: true, BaseURL: serverURL, Language: "it"}}
	httpClient := httputil.New(logger.Nop(), 5*time.Second).DisableRetry()
	return translate.NewClient(httpClient, nil, cfg, logger.Nop())
}

func translationSource() *fakeSource {
	return &fakeSource{
		market: []contracts.NewsItem{
			{Title: "Market <b>open</b>", Description: "<p>Stocks &amp; bonds</p>", URL: "https://x/1", PublishedAt: at(9)},
			{Title: "Borsa di Milano", URL: "https://x/2", PublishedAt: at(11)},
		},
	}
}

func TestCollect_Translates(t *testing.T) {
	server, calls := translateServer(t, http.StatusOK)

	svc := NewService(translationSource(), DefaultConfig(), logger.Nop()).WithTranslator(newTranslator(server.URL))
	svc.now = func() time.Time { return at(12) }

	items, err := svc.Collect(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	tests := []struct {
		title       string
		description string
		translated  bool
	}{
		{"Borsa di Milano", "", false},
		{"IT Market open", "IT Stocks & bonds", true},
	}

	for i, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.title, items[i].Title)
			assert.Equal(t, tt.description, items[i].Description)
			assert.Equal(t, tt.translated, items[i].Translated)
		})
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestCollect_TranslationFailureKeepsOriginal(t *testing.T) {
	server, calls := translateServer(t, http.StatusInternalServerError)

	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{Env: "development", LogLevel: "warn"}, &buf)

	svc := NewService(translationSource(), DefaultConfig(), log).WithTranslator(newTranslator(server.URL))
	svc.now = func() time.Time { return at(12) }

	items, err := svc.Collect(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Borsa di Milano", items[0].Title)
	assert.Equal(t, "Market open", items[1].Title)
	assert.Equal(t, "Stocks & bonds", items[1].Description)
	for _, item := range items {
		assert.False(t, item.Translated, item.Title)
	}

	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Contains(t, buf.String(), "Some news could not be translated")
}

func TestTranslate_Disabled(t *testing.T) {
	server, calls := translateServer(t, http.StatusOK)

	cfg := DefaultConfig()
	cfg.Language = ""
	svc := NewService(&fakeSource{}, cfg, logger.Nop()).WithTranslator(newTranslator(server.URL))

	items := []contracts.NewsItem{{Title: "Fed"}}
	require.NoError(t, svc.Translate(context.Background(), items))
	assert.Equal(t, "Fed", items[0].Title)
	assert.False(t, items[0].Translated)
	assert.Zero(t, atomic.LoadInt32(calls))

	plain := NewService(&fakeSource{}, DefaultConfig(), logger.Nop())
	require.NoError(t, plain.Translate(context.Background(), items))
	assert.Equal(t, "Fed", items[0].Title)
}
