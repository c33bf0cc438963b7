package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned when a row field is present but not numeric-or-missing
var ErrInvalidInput = errors.New("invalid input")

// EquityRecord is one row from the market-data source at a point in time.
// Every indicator may be missing.
type EquityRecord struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
	Sector      string `json:"sector"`
	Currency    string `json:"currency"`
	Exchange    string `json:"exchange,omitempty"`

	// Market
	Price         OptFloat `json:"price"`
	ChangePercent OptFloat `json:"changePercent"`
	Volume        OptFloat `json:"volume"`
	MarketCap     OptFloat `json:"marketCap"`

	// Technical
	RSI                      OptFloat `json:"rsi"`
	MACD                     OptFloat `json:"macd"`
	MACDSignal               OptFloat `json:"macdSignal"`
	SMA50                    OptFloat `json:"sma50"`
	SMA200                   OptFloat `json:"sma200"`
	DailyVolatilityPercent   OptFloat `json:"dailyVolatilityPercent"`
	TechnicalRatingAggregate OptFloat `json:"technicalRatingAggregate"`

	// Display only
	PERatio       OptFloat `json:"peRatio"`
	DividendYield OptFloat `json:"dividendYield"`
}

// Row keys understood by RecordFromRow
const (
	FieldSymbol                   = "symbol"
	FieldCompanyName              = "companyName"
	FieldCountry                  = "country"
	FieldSector                   = "sector"
	FieldCurrency                 = "currency"
	FieldExchange                 = "exchange"
	FieldPrice                    = "price"
	FieldChangePercent            = "changePercent"
	FieldVolume                   = "volume"
	FieldMarketCap                = "marketCap"
	FieldRSI                      = "rsi"
	FieldMACD                     = "macd"
	FieldMACDSignal               = "macdSignal"
	FieldSMA50                    = "sma50"
	FieldSMA200                   = "sma200"
	FieldDailyVolatilityPercent   = "dailyVolatilityPercent"
	FieldTechnicalRatingAggregate = "technicalRatingAggregate"
	FieldPERatio                  = "peRatio"
	FieldDividendYield            = "dividendYield"
)

// numericFields maps row keys to record fields
func (r *EquityRecord) numericFields() map[string]*OptFloat {
	return map[string]*OptFloat{
		FieldPrice:                    &r.Price,
		FieldChangePercent:            &r.ChangePercent,
		FieldVolume:                   &r.Volume,
		FieldMarketCap:                &r.MarketCap,
		FieldRSI:                      &r.RSI,
		FieldMACD:                     &r.MACD,
		FieldMACDSignal:               &r.MACDSignal,
		FieldSMA50:                    &r.SMA50,
		FieldSMA200:                   &r.SMA200,
		FieldDailyVolatilityPercent:   &r.DailyVolatilityPercent,
		FieldTechnicalRatingAggregate: &r.TechnicalRatingAggregate,
		FieldPERatio:                  &r.PERatio,
		FieldDividendYield:            &r.DividendYield,
	}
}

// RecordFromRow coerces a keyed row into a typed record.
// Absent keys and nil values become missing. A present value that is not
// numeric fails with ErrInvalidInput naming the field.
func RecordFromRow(row map[string]interface{}) (EquityRecord, error) {
	var rec EquityRecord

	strs := map[string]*string{
		FieldSymbol:      &rec.Symbol,
		FieldCompanyName: &rec.CompanyName,
		FieldCountry:     &rec.Country,
		FieldSector:      &rec.Sector,
		FieldCurrency:    &rec.Currency,
		FieldExchange:    &rec.Exchange,
	}
	for key, dst := range strs {
		raw, ok := row[key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return EquityRecord{}, fmt.Errorf("%w: field %q: expected string, got %T", ErrInvalidInput, key, raw)
		}
		*dst = s
	}

	for key, dst := range rec.numericFields() {
		raw, ok := row[key]
		if !ok {
			continue
		}
		v, err := toOptFloat(raw)
		if err != nil {
			return EquityRecord{}, fmt.Errorf("%w: field %q: %v", ErrInvalidInput, key, err)
		}
		*dst = v
	}

	return rec, nil
}

// Validate checks that every present indicator is a finite number
func (r EquityRecord) Validate() error {
	for key, f := range r.numericFields() {
		if !f.Finite() {
			return fmt.Errorf("%w: field %q is not finite", ErrInvalidInput, key)
		}
	}
	return nil
}

func toOptFloat(raw interface{}) (OptFloat, error) {
	var v float64

	switch x := raw.(type) {
	case nil:
		return None(), nil
	case OptFloat:
		return x, nil
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint:
		v = float64(x)
	case uint32:
		v = float64(x)
	case uint64:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return None(), fmt.Errorf("not a number: %q", x.String())
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return None(), fmt.Errorf("not a number: %q", x)
		}
		v = f
	default:
		return None(), fmt.Errorf("unsupported type %T", raw)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None(), fmt.Errorf("not finite: %v", v)
	}
	return Some(v), nil
}
