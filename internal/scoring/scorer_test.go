package scoring

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/logger"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultWeights(), logger.Nop())
	require.NoError(t, err)
	return s
}

func fullRecord() contracts.EquityRecord {
	return contracts.EquityRecord{
		Symbol:                   "NASDAQ:AAPL",
		RSI:                      some(60),
		MACD:                     some(1.2),
		MACDSignal:               some(1.0),
		Price:                    some(105),
		SMA50:                    some(100),
		SMA200:                   some(90),
		TechnicalRatingAggregate: some(0.6),
		DailyVolatilityPercent:   some(1.0),
		MarketCap:                some(10e9),
	}
}

func TestScore_AllFactorsMaxed(t *testing.T) {
	s := newTestScorer(t)

	got, err := s.Score(fullRecord())
	require.NoError(t, err)

	assert.Equal(t, contracts.SubScores{RSI: 10, MACD: 10, Trend: 10, TechRating: 10, Volatility: 10, MarketCap: 10}, got.Scores)
	assert.Equal(t, 100.0, got.InvestmentScore)
	assert.Equal(t, "NASDAQ:AAPL", got.Record.Symbol)
}

func TestScore_AllMissing(t *testing.T) {
	s := newTestScorer(t)

	got, err := s.Score(contracts.EquityRecord{Symbol: "X"})
	require.NoError(t, err)

	assert.Equal(t, contracts.SubScores{}, got.Scores)
	assert.Equal(t, 0.0, got.InvestmentScore)
}

func TestScore_OnlyRSIPresent(t *testing.T) {
	s := newTestScorer(t)

	got, err := s.Score(contracts.EquityRecord{RSI: some(35)})
	require.NoError(t, err)

	assert.Equal(t, 5, got.Scores.RSI)
	assert.Equal(t, 0, got.Scores.MACD)
	assert.Equal(t, 10.0, got.InvestmentScore)
}

func TestScore_NonFiniteRejected(t *testing.T) {
	s := newTestScorer(t)

	rec := fullRecord()
	rec.RSI = some(math.NaN())

	_, err := s.Score(rec)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestScore_Deterministic(t *testing.T) {
	s := newTestScorer(t)
	rec := fullRecord()
	rec.RSI = some(44)
	rec.DailyVolatilityPercent = some(2.7)

	first, err := s.Score(rec)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.Score(rec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScore_MonotonicInSubScores(t *testing.T) {
	w := DefaultWeights()
	base := contracts.SubScores{RSI: 5, MACD: 4, Trend: 5, TechRating: 4, Volatility: 6, MarketCap: 4}
	baseScore := Composite(base, w)

	bumps := []func(*contracts.SubScores){
		func(s *contracts.SubScores) { s.RSI = 10 },
		func(s *contracts.SubScores) { s.MACD = 7 },
		func(s *contracts.SubScores) { s.Trend = 8 },
		func(s *contracts.SubScores) { s.TechRating = 6 },
		func(s *contracts.SubScores) { s.Volatility = 10 },
		func(s *contracts.SubScores) { s.MarketCap = 8 },
	}

	for i, bump := range bumps {
		sub := base
		bump(&sub)
		assert.GreaterOrEqual(t, Composite(sub, w), baseScore, "bump %d", i)
	}
}

func TestComposite_RangeAndRounding(t *testing.T) {
	w := DefaultWeights()

	assert.Equal(t, 0.0, Composite(contracts.SubScores{}, w))
	assert.Equal(t, 100.0, Composite(contracts.SubScores{RSI: 10, MACD: 10, Trend: 10, TechRating: 10, Volatility: 10, MarketCap: 10}, w))

	// 7*0.15 = 1.05 -> 10.5
	assert.Equal(t, 10.5, Composite(contracts.SubScores{MACD: 7}, w))

	assert.Equal(t, 0.0, Composite(contracts.SubScores{RSI: 10}, Weights{}))
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.RSI = 0.5
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.MACD = -0.15
	w.RSI = 0.50
	assert.Error(t, w.Validate())

	_, err := NewScorer(Weights{}, logger.Nop())
	assert.Error(t, err)
}

func TestScoreAll(t *testing.T) {
	s := newTestScorer(t)

	recs := []contracts.EquityRecord{fullRecord(), {Symbol: "EMPTY"}, {Symbol: "RSI", RSI: some(35)}}
	got, err := s.ScoreAll(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []float64{100, 0, 10}, []float64{got[0].InvestmentScore, got[1].InvestmentScore, got[2].InvestmentScore})
	assert.Equal(t, "EMPTY", got[1].Record.Symbol)
}

func TestScoreAll_Empty(t *testing.T) {
	s := newTestScorer(t)

	got, err := s.ScoreAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScoreAll_InvalidRowNamed(t *testing.T) {
	s := newTestScorer(t)

	bad := contracts.EquityRecord{Symbol: "BAD", MarketCap: some(math.Inf(1))}
	_, err := s.ScoreAll(context.Background(), []contracts.EquityRecord{fullRecord(), bad})

	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
	assert.Contains(t, err.Error(), "row 1 (BAD)")
}

func TestScoreAll_Cancelled(t *testing.T) {
	s := newTestScorer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScoreAll(ctx, []contracts.EquityRecord{fullRecord()})
	assert.ErrorIs(t, err, context.Canceled)
}
