package tradingview

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Filter operations understood by the scanner
const (
	OpGreater   = "greater"
	OpEGreater  = "egreater"
	OpLess      = "less"
	OpELess     = "eless"
	OpInRange   = "in_range"
	OpEqual     = "equal"
	OpNotEqual  = "nequal"
	SortDesc    = "desc"
	SortAsc     = "asc"
	defaultSize = 200
)

// Filter is one scanner condition: Left <Operation> Right
type Filter struct {
	Left      string      `json:"left"`
	Operation string      `json:"operation"`
	Right     interface{} `json:"right"`
}

// Greater builds a "column > value" filter
func Greater(column string, value float64) Filter {
	return Filter{Left: column, Operation: OpGreater, Right: value}
}

// AtLeast builds a "column >= value" filter
func AtLeast(column string, value float64) Filter {
	return Filter{Left: column, Operation: OpEGreater, Right: value}
}

// Less builds a "column < value" filter
func Less(column string, value float64) Filter {
	return Filter{Left: column, Operation: OpLess, Right: value}
}

// InRange builds a "low <= column <= high" filter
func InRange(column string, low, high float64) Filter {
	return Filter{Left: column, Operation: OpInRange, Right: []float64{low, high}}
}

// Equal builds a "column == value" filter
func Equal(column string, value interface{}) Filter {
	return Filter{Left: column, Operation: OpEqual, Right: value}
}

// Sort orders scanner results
type Sort struct {
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// Query describes one scanner request
type Query struct {
	Market  string
	Columns []string
	Filters []Filter
	Sort    *Sort
	Offset  int
	Size    int
}

// NewQuery starts a query over the standard column set
func NewQuery(market string) *Query {
	return &Query{
		Market:  market,
		Columns: append([]string(nil), Columns...),
		Size:    defaultSize,
	}
}

// DefaultQuery returns the standard liquid large-cap screen:
// market cap >= 1B, volume > 100K, close > 1, sorted by market cap
func DefaultQuery(market string, limit int) *Query {
	return NewQuery(market).
		Where(
			AtLeast(ColMarketCap, 1e9),
			Greater(ColVolume, 1e5),
			Greater(ColClose, 1),
		).
		OrderBy(ColMarketCap, true).
		Limit(limit)
}

// Where appends filters
func (q *Query) Where(filters ...Filter) *Query {
	q.Filters = append(q.Filters, filters...)
	return q
}

// OrderBy sets the sort column
func (q *Query) OrderBy(column string, desc bool) *Query {
	order := SortAsc
	if desc {
		order = SortDesc
	}
	q.Sort = &Sort{SortBy: column, SortOrder: order}
	return q
}

// Limit sets the page size. Non-positive values keep the default.
func (q *Query) Limit(n int) *Query {
	if n > 0 {
		q.Size = n
	}
	return q
}

// scanRequest is the scanner POST body
type scanRequest struct {
	Filter  []Filter `json:"filter"`
	Options struct {
		Lang string `json:"lang"`
	} `json:"options"`
	Markets []string `json:"markets"`
	Columns []string `json:"columns"`
	Sort    *Sort    `json:"sort,omitempty"`
	Range   [2]int   `json:"range"`
}

func (q *Query) request() scanRequest {
	req := scanRequest{
		Filter:  q.Filters,
		Markets: []string{q.Market},
		Columns: q.Columns,
		Sort:    q.Sort,
		Range:   [2]int{q.Offset, q.Offset + q.Size},
	}
	if req.Filter == nil {
		req.Filter = []Filter{}
	}
	req.Options.Lang = "en"
	return req
}

// Fingerprint identifies the query for caching
func (q *Query) Fingerprint() string {
	data, _ := json.Marshal(q.request())
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
