package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/logger"
)

func equity(symbol, sector string, score, mcap, volume, price float64) contracts.ScoredEquity {
	return contracts.ScoredEquity{
		Record: contracts.EquityRecord{
			Symbol:    symbol,
			Sector:    sector,
			MarketCap: contracts.Some(mcap),
			Volume:    contracts.Some(volume),
			Price:     contracts.Some(price),
		},
		InvestmentScore: score,
	}
}

func TestScreen_DefaultPassesEverything(t *testing.T) {
	s := NewScreener(DefaultScreenerConfig(), logger.Nop())

	in := []contracts.ScoredEquity{
		equity("A", "Technology", 0, 1, 1, 1),
		{Record: contracts.EquityRecord{Symbol: "EMPTY"}},
	}
	passed, filtered := s.Screen(in)

	assert.Len(t, passed, 2)
	assert.Empty(t, filtered)
}

func TestScreen_Filters(t *testing.T) {
	s := NewScreener(ScreenerConfig{
		MinInvestmentScore: 50,
		MinMarketCap:       1e9,
		MinVolume:          1e5,
		MinPrice:           5,
		ExcludeSectors:     []string{" Utilities "},
	}, logger.Nop())

	in := []contracts.ScoredEquity{
		equity("KEEP1", "Technology", 80, 5e9, 1e6, 100),
		equity("LOWSCORE", "Technology", 40, 5e9, 1e6, 100),
		equity("SMALL", "Technology", 80, 5e8, 1e6, 100),
		equity("ILLIQUID", "Technology", 80, 5e9, 1e3, 100),
		equity("PENNY", "Technology", 80, 5e9, 1e6, 1),
		equity("UTIL", "utilities", 80, 5e9, 1e6, 100),
		{Record: contracts.EquityRecord{Symbol: "NOMCAP"}, InvestmentScore: 90},
		equity("KEEP2", "Health Care", 50, 1e9, 1e5, 5),
	}

	passed, filtered := s.Screen(in)

	var got []string
	for _, se := range passed {
		got = append(got, se.Record.Symbol)
	}
	assert.Equal(t, []string{"KEEP1", "KEEP2"}, got)
	assert.Equal(t, map[string]int{
		FilterScore:     1,
		FilterMarketCap: 2,
		FilterVolume:    1,
		FilterPrice:     1,
		FilterSector:    1,
	}, filtered)
}
