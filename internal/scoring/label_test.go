package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/investimentigrugno/screener/internal/contracts"
)

func TestTechnicalRatingLabel(t *testing.T) {
	tests := []struct {
		name   string
		rating contracts.OptFloat
		want   string
	}{
		{"missing", contracts.None(), LabelNA},
		{"max", contracts.Some(1), LabelStrongBuy},
		{"strong buy boundary", contracts.Some(0.5), LabelStrongBuy},
		{"just below strong buy", contracts.Some(0.49), LabelBuy},
		{"buy boundary", contracts.Some(0.1), LabelBuy},
		{"zero", contracts.Some(0), LabelNeutral},
		{"neutral boundary", contracts.Some(-0.1), LabelNeutral},
		{"sell boundary", contracts.Some(-0.5), LabelSell},
		{"just below sell", contracts.Some(-0.51), LabelStrongSell},
		{"min", contracts.Some(-1), LabelStrongSell},
		{"out of range", contracts.Some(-42), LabelStrongSell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TechnicalRatingLabel(tt.rating))
		})
	}
}
