package strategyconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investimentigrugno/screener/internal/external/tradingview"
	"github.com/investimentigrugno/screener/internal/scoring"
)

const validProfile = `
meta:
  profile_id: test
  version: "1"
query:
  market: italy
  limit: 50
  sort_by: volume
  filters:
    - column: RSI
      operation: in_range
      values: [30, 70]
    - column: close
      operation: greater
      value: 2
scoring:
  weights_pct: {rsi: 20, macd: 15, trend: 25, tech_rating: 20, volatility: 10, market_cap: 10}
selection:
  top_n: 3
  min_score: 40
  exclude_sectors: [Utilities]
news:
  market_count: 5
  company_days: 3
  company_limit: 2
  language: de
`

func TestLoad_ShippedProfile(t *testing.T) {
	path := "../../configs/screen_profile.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("profile not found")
	}

	cfg, data, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	assert.Equal(t, "america", cfg.Query.Market)
	assert.Equal(t, 5, cfg.Selection.TopN)
	assert.Equal(t, "it", cfg.NewsConfig().Language)
	assert.InDelta(t, scoring.DefaultWeights().Trend, cfg.Weights().Trend, 1e-9)
	assert.NoError(t, cfg.Weights().Validate())

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	hash2, err := Hash(cfg)
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)
}

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validProfile))
	require.NoError(t, err)

	sc := cfg.ScreenerConfig()
	assert.Equal(t, 40.0, sc.MinInvestmentScore)
	assert.Equal(t, []string{"Utilities"}, sc.ExcludeSectors)

	nc := cfg.NewsConfig()
	assert.Equal(t, 5, nc.MarketCount)
	assert.Equal(t, 2, nc.PerPick)
	assert.Equal(t, 3, nc.CompanyNewsDays)
	assert.Equal(t, "de", nc.Language)

	q := cfg.ScanQuery()
	assert.Equal(t, "italy", q.Market)
	assert.Equal(t, 50, q.Size)
	require.Len(t, q.Filters, 2)
	assert.Equal(t, []float64{30, 70}, q.Filters[0].Right)
	assert.Equal(t, 2.0, q.Filters[1].Right)
	require.NotNil(t, q.Sort)
	assert.Equal(t, tradingview.SortDesc, q.Sort.SortOrder)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "unknown field",
			mutate:  func(s string) string { return strings.Replace(s, "top_n: 3", "top_n: 3\n  top_m: 1", 1) },
			wantErr: "top_m",
		},
		{
			name:    "weights do not sum to 100",
			mutate:  func(s string) string { return strings.Replace(s, "rsi: 20,", "rsi: 25,", 1) },
			wantErr: "must sum to 100",
		},
		{
			name:    "missing market",
			mutate:  func(s string) string { return strings.Replace(s, "market: italy", "market: \"\"", 1) },
			wantErr: "Market",
		},
		{
			name:    "bad operation",
			mutate:  func(s string) string { return strings.Replace(s, "operation: greater", "operation: above", 1) },
			wantErr: "Operation",
		},
		{
			name:    "in_range with one value",
			mutate:  func(s string) string { return strings.Replace(s, "values: [30, 70]", "values: [30]", 1) },
			wantErr: "in_range",
		},
		{
			name:    "language too long",
			mutate:  func(s string) string { return strings.Replace(s, "language: de", "language: deutschland", 1) },
			wantErr: "Language",
		},
		{
			name:    "top_n zero",
			mutate:  func(s string) string { return strings.Replace(s, "top_n: 3", "top_n: 0", 1) },
			wantErr: "TopN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(validProfile)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestHash_ChangesWithContent(t *testing.T) {
	a, err := Parse([]byte(validProfile))
	require.NoError(t, err)
	b, err := Parse([]byte(strings.Replace(validProfile, "top_n: 3", "top_n: 4", 1)))
	require.NoError(t, err)

	ha, _ := Hash(a)
	hb, _ := Hash(b)
	assert.NotEqual(t, ha, hb)
}

func TestWarn(t *testing.T) {
	cfg, err := Parse([]byte(validProfile))
	require.NoError(t, err)
	assert.Empty(t, Warn(cfg))

	cfg.Scoring.WeightsPct.Volatility = 0
	cfg.Selection.TopN = 100
	codes := make([]string, 0)
	for _, w := range Warn(cfg) {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []string{"ZERO_WEIGHT", "TOP_N_EXCEEDS_LIMIT"}, codes)
}
