package selection

import (
	"sort"
	"strings"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/pkg/logger"
)

const (
	// DefaultTopN is the pick count used when k <= 0
	DefaultTopN = 5

	// RationaleSeparator joins reasons into a rationale
	RationaleSeparator = ", "

	// MaxReasons caps the reasons kept per pick
	MaxReasons = 3
)

// Reason texts in evaluation order
const (
	ReasonRSI        = "RSI optimal"
	ReasonMACD       = "MACD positive"
	ReasonTrend      = "Strong uptrend"
	ReasonTechRating = "Positive technical analysis"
	ReasonVolatility = "Controlled volatility"
)

// Ranker orders scored equities and picks the top N
// ⭐ SSOT: ranking and rationale logic lives here only
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(logger *logger.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// Rank sorts a copy of scored by investment score (descending) and assigns
// 1-based ranks. Equal scores keep their input order.
func (r *Ranker) Rank(scored []contracts.ScoredEquity) []contracts.RankedEquity {
	ranked := make([]contracts.RankedEquity, len(scored))
	for i, se := range scored {
		ranked[i] = contracts.RankedEquity{ScoredEquity: se}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].InvestmentScore > ranked[j].InvestmentScore
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"total_stocks": len(ranked),
			"top_score":    ranked[0].InvestmentScore,
			"top_symbol":   ranked[0].Record.Symbol,
		}).Debug("Ranking completed")
	}

	return ranked
}

// TopN returns the best min(k, len(scored)) equities with their rationale
func (r *Ranker) TopN(scored []contracts.ScoredEquity, k int) []contracts.Pick {
	if k <= 0 {
		k = DefaultTopN
	}

	ranked := r.Rank(scored)
	if k > len(ranked) {
		k = len(ranked)
	}

	picks := make([]contracts.Pick, 0, k)
	for _, re := range ranked[:k] {
		reasons := Reasons(re.Scores)
		picks = append(picks, contracts.Pick{
			Rank:      re.Rank,
			Equity:    re.ScoredEquity,
			Reasons:   reasons,
			Rationale: strings.Join(reasons, RationaleSeparator),
		})
	}

	return picks
}

// Reasons lists the qualifying reasons for sub-scores, first MaxReasons only.
// The result is never nil.
func Reasons(sub contracts.SubScores) []string {
	checks := []struct {
		ok     bool
		reason string
	}{
		{sub.RSI >= 8, ReasonRSI},
		{sub.MACD >= 7, ReasonMACD},
		{sub.Trend >= 8, ReasonTrend},
		{sub.TechRating >= 8, ReasonTechRating},
		{sub.Volatility >= 7, ReasonVolatility},
	}

	reasons := make([]string, 0, MaxReasons)
	for _, c := range checks {
		if !c.ok {
			continue
		}
		reasons = append(reasons, c.reason)
		if len(reasons) == MaxReasons {
			break
		}
	}
	return reasons
}
