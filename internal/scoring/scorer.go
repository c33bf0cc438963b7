package scoring

import (
	"context"
	"fmt"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/logger"
)

// Scorer turns equity records into scored equities.
// It holds no state between calls and is safe for concurrent use.
// ⭐ SSOT: investment score calculation lives here only
type Scorer struct {
	weights Weights
	logger  *logger.Logger
}

// NewScorer creates a scorer. Weights must pass Validate.
func NewScorer(weights Weights, log *logger.Logger) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return &Scorer{weights: weights, logger: log}, nil
}

// Weights returns the weights in use
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes sub-scores and the investment score for one record.
// A present but non-finite indicator fails with contracts.ErrInvalidInput.
func (s *Scorer) Score(rec contracts.EquityRecord) (contracts.ScoredEquity, error) {
	if err := rec.Validate(); err != nil {
		return contracts.ScoredEquity{}, err
	}

	sub := Normalize(rec)
	return contracts.ScoredEquity{
		Record:          rec,
		Scores:          sub,
		InvestmentScore: Composite(sub, s.weights),
	}, nil
}

// ScoreAll scores a table in input order. The first invalid record aborts
// the call with an error naming its row index and symbol.
func (s *Scorer) ScoreAll(ctx context.Context, recs []contracts.EquityRecord) ([]contracts.ScoredEquity, error) {
	scored := make([]contracts.ScoredEquity, 0, len(recs))

	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		se, err := s.Score(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i, rec.Symbol, err)
		}
		scored = append(scored, se)
	}

	s.logger.WithFields(map[string]interface{}{
		"total": len(scored),
	}).Debug("Scoring completed")

	return scored, nil
}
