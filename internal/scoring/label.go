package scoring

import "github.com/investimentigrugno/screener/internal/contracts"

// Technical rating labels
const (
	LabelStrongBuy  = "Strong Buy"
	LabelBuy        = "Buy"
	LabelNeutral    = "Neutral"
	LabelSell       = "Sell"
	LabelStrongSell = "Strong Sell"
	LabelNA         = "N/A"
)

// TechnicalRatingLabel maps the aggregate rating to a label.
// Lower bounds are inclusive: exactly 0.5 is "Strong Buy".
func TechnicalRatingLabel(rating contracts.OptFloat) string {
	v, ok := rating.Get()
	if !ok {
		return LabelNA
	}

	switch {
	case v >= 0.5:
		return LabelStrongBuy
	case v >= 0.1:
		return LabelBuy
	case v >= -0.1:
		return LabelNeutral
	case v >= -0.5:
		return LabelSell
	default:
		return LabelStrongSell
	}
}
