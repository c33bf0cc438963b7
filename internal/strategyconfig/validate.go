package strategyconfig

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is a profile constraint violation
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a recommendation violation (logged only)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ValidationError{fe.Namespace(), fmt.Sprintf("failed '%s' (%s)", fe.Tag(), fe.Param())}
		}
		return err
	}

	if sum := cfg.Scoring.WeightsPct.Sum(); sum != 100 {
		return ValidationError{"scoring.weights_pct", fmt.Sprintf("must sum to 100, got %d", sum)}
	}

	for i, f := range cfg.Query.Filters {
		if f.Operation == "in_range" {
			if len(f.Values) != 2 {
				return ValidationError{fmt.Sprintf("query.filters[%d].values", i), "in_range needs exactly 2 values"}
			}
			if f.Values[0] > f.Values[1] {
				return ValidationError{fmt.Sprintf("query.filters[%d].values", i), "low must be <= high"}
			}
		}
	}

	return nil
}

// Warn reports settings that are allowed but probably unintended
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	w := cfg.Scoring.WeightsPct
	for name, v := range map[string]int{
		"rsi": w.RSI, "macd": w.MACD, "trend": w.Trend,
		"tech_rating": w.TechRating, "volatility": w.Volatility, "market_cap": w.MarketCap,
	} {
		if v == 0 {
			warnings = append(warnings, Warning{
				Code:    "ZERO_WEIGHT",
				Message: fmt.Sprintf("factor %s has weight 0 and never affects the score", name),
			})
		}
	}

	if cfg.Selection.TopN > cfg.Query.Limit {
		warnings = append(warnings, Warning{
			Code:    "TOP_N_EXCEEDS_LIMIT",
			Message: fmt.Sprintf("top_n %d exceeds query limit %d", cfg.Selection.TopN, cfg.Query.Limit),
		})
	}

	if cfg.Selection.MinScore >= 80 {
		warnings = append(warnings, Warning{
			Code:    "HIGH_MIN_SCORE",
			Message: fmt.Sprintf("min_score %.1f may leave no picks", cfg.Selection.MinScore),
		})
	}

	return warnings
}
