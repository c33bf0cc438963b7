package tradingview

import "github.com/investimentigrugno/screener/internal/contracts"

// Scanner column names
const (
	ColName          = "name"
	ColDescription   = "description"
	ColCountry       = "country"
	ColSector        = "sector"
	ColCurrency      = "currency"
	ColClose         = "close"
	ColChange        = "change"
	ColVolume        = "volume"
	ColMarketCap     = "market_cap_basic"
	ColRSI           = "RSI"
	ColMACD          = "MACD.macd"
	ColMACDSignal    = "MACD.signal"
	ColSMA50         = "SMA50"
	ColSMA200        = "SMA200"
	ColVolatilityD   = "Volatility.D"
	ColRecommendAll  = "Recommend.All"
	ColPriceEarnings = "price_earnings_ttm"
	ColDividendYield = "dividend_yield_recent"
)

// Columns is the fixed request column order. Response cells follow it.
var Columns = []string{
	ColName,
	ColDescription,
	ColCountry,
	ColSector,
	ColCurrency,
	ColClose,
	ColChange,
	ColVolume,
	ColMarketCap,
	ColRSI,
	ColMACD,
	ColMACDSignal,
	ColSMA50,
	ColSMA200,
	ColVolatilityD,
	ColRecommendAll,
	ColPriceEarnings,
	ColDividendYield,
}

// columnFields maps scanner columns to record row keys
var columnFields = map[string]string{
	ColName:          contracts.FieldSymbol,
	ColDescription:   contracts.FieldCompanyName,
	ColCountry:       contracts.FieldCountry,
	ColSector:        contracts.FieldSector,
	ColCurrency:      contracts.FieldCurrency,
	ColClose:         contracts.FieldPrice,
	ColChange:        contracts.FieldChangePercent,
	ColVolume:        contracts.FieldVolume,
	ColMarketCap:     contracts.FieldMarketCap,
	ColRSI:           contracts.FieldRSI,
	ColMACD:          contracts.FieldMACD,
	ColMACDSignal:    contracts.FieldMACDSignal,
	ColSMA50:         contracts.FieldSMA50,
	ColSMA200:        contracts.FieldSMA200,
	ColVolatilityD:   contracts.FieldDailyVolatilityPercent,
	ColRecommendAll:  contracts.FieldTechnicalRatingAggregate,
	ColPriceEarnings: contracts.FieldPERatio,
	ColDividendYield: contracts.FieldDividendYield,
}
