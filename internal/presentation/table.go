package presentation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/internal/scoring"
)

// DisplayRow is one formatted screener line
type DisplayRow struct {
	Rank            int    `json:"rank"`
	Symbol          string `json:"symbol"`
	Exchange        string `json:"exchange"`
	Company         string `json:"company"`
	Country         string `json:"country"`
	Sector          string `json:"sector"`
	Price           string `json:"price"`
	Change          string `json:"change"`
	Volume          string `json:"volume"`
	MarketCap       string `json:"marketCap"`
	RSI             string `json:"rsi"`
	TechnicalRating string `json:"technicalRating"`
	Score           string `json:"score"`
}

// Header is the CSV column order
var Header = []string{
	"Rank", "Symbol", "Exchange", "Company", "Country", "Sector", "Price",
	"Change %", "Volume", "Market Cap", "RSI", "Rating", "Score",
}

// Row formats a ranked equity for display
func Row(re contracts.RankedEquity) DisplayRow {
	rec := re.Record
	return DisplayRow{
		Rank:            re.Rank,
		Symbol:          rec.Symbol,
		Exchange:        rec.Exchange,
		Company:         rec.CompanyName,
		Country:         rec.Country,
		Sector:          rec.Sector,
		Price:           Currency(rec.Price, rec.Currency),
		Change:          Percent(rec.ChangePercent),
		Volume:          Compact(rec.Volume),
		MarketCap:       Compact(rec.MarketCap),
		RSI:             Number(rec.RSI),
		TechnicalRating: scoring.TechnicalRatingLabel(rec.TechnicalRatingAggregate),
		Score:           Score(re.InvestmentScore),
	}
}

// Rows formats a ranked list
func Rows(ranked []contracts.RankedEquity) []DisplayRow {
	rows := make([]DisplayRow, len(ranked))
	for i, re := range ranked {
		rows[i] = Row(re)
	}
	return rows
}

func (r DisplayRow) values() []string {
	return []string{
		strconv.Itoa(r.Rank), r.Symbol, r.Exchange, r.Company, r.Country, r.Sector, r.Price,
		r.Change, r.Volume, r.MarketCap, r.RSI, r.TechnicalRating, r.Score,
	}
}

// WriteCSV writes rows with a header line
func WriteCSV(w io.Writer, rows []DisplayRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.values()); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.Symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
