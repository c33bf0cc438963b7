package contracts

import "time"

// Snapshot is the result of one refresh run. It is built from scratch on
// every run and never mutated after publication.
type Snapshot struct {
	RunID       string         `json:"runId"`
	CreatedAt   time.Time      `json:"createdAt"`
	Market      string         `json:"market"`
	ProfileHash string         `json:"profileHash,omitempty"`
	Scored      []ScoredEquity `json:"scored"`
	Ranked      []RankedEquity `json:"ranked"`
	Picks       []Pick         `json:"picks"`
	News        []NewsItem     `json:"news"`
	Filtered    map[string]int `json:"filtered"`
	TotalInput  int            `json:"totalInput"`
	Stale       bool           `json:"stale"`
	StaleReason string         `json:"staleReason,omitempty"`
}

// RunSummary is a persisted refresh run without its rows
type RunSummary struct {
	RunID       string    `json:"runId"`
	CreatedAt   time.Time `json:"createdAt"`
	Market      string    `json:"market"`
	ProfileHash string    `json:"profileHash"`
	TotalInput  int       `json:"totalInput"`
	TotalScored int       `json:"totalScored"`
	TotalPassed int       `json:"totalPassed"`
	TopScore    float64   `json:"topScore"`
}
