package tradingview

import (
	"fmt"
	"strings"

	"github.com/investimentigrugno/screener/internal/contracts"
)

// scanResponse is the scanner reply
type scanResponse struct {
	TotalCount int       `json:"totalCount"`
	Data       []scanRow `json:"data"`
}

type scanRow struct {
	Symbol string        `json:"s"` // EXCHANGE:TICKER
	Values []interface{} `json:"d"`
}

// toRecords converts scanner rows to records, cells matched to columns by position
func toRecords(columns []string, rows []scanRow) ([]contracts.EquityRecord, error) {
	records := make([]contracts.EquityRecord, 0, len(rows))

	for i, row := range rows {
		if len(row.Values) != len(columns) {
			return nil, fmt.Errorf("%w: row %d (%s): %d cells for %d columns",
				contracts.ErrInvalidInput, i, row.Symbol, len(row.Values), len(columns))
		}

		fields := make(map[string]interface{}, len(columns)+1)
		for j, col := range columns {
			key, ok := columnFields[col]
			if !ok {
				continue
			}
			fields[key] = row.Values[j]
		}

		exchange, ticker := splitSymbol(row.Symbol)
		fields[contracts.FieldExchange] = exchange
		if name, _ := fields[contracts.FieldSymbol].(string); name == "" {
			fields[contracts.FieldSymbol] = ticker
		}

		rec, err := contracts.RecordFromRow(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i, row.Symbol, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// splitSymbol splits "NASDAQ:AAPL" into exchange and ticker
func splitSymbol(s string) (string, string) {
	exchange, ticker, found := strings.Cut(s, ":")
	if !found {
		return "", s
	}
	return exchange, ticker
}
