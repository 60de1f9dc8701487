// backend/src/models/trade.go
package models

import "time"

// RawRow holds the direct string values of a single CSV line, keyed by the
// header as it literally appears in the file (whitespace-trimmed, case kept).
// Keys for missing trailing fields are absent rather than empty.
type RawRow map[string]string

// Direction of a trade. Anything that is not explicitly short is long.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// NormalizedTrade is the unified representation of one imported trade row.
// The normalizer is responsible for populating as many of these fields as
// possible from the source row; numeric fields stay nil when the source value
// was missing or unusable, so downstream stages can filter on them.
type NormalizedTrade struct {
	// Date is nil both when the source carried no date and when the date
	// could not be parsed. DateRaw keeps the original text so the two cases
	// stay distinguishable for diagnostics.
	Date    *time.Time `json:"date"`
	DateRaw string     `json:"date_raw,omitempty"`

	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`

	EntryPrice *float64 `json:"entry_price"`
	ExitPrice  *float64 `json:"exit_price"`
	Size       *float64 `json:"size"`

	// Fees defaults to 0 when absent or unparseable. It is the one numeric
	// field that is never nil.
	Fees float64 `json:"fees"`

	Notes string `json:"notes,omitempty"`
}

// EquityPoint is one step of the cumulative P&L curve.
type EquityPoint struct {
	Time  int64   `json:"time"` // unix seconds
	Value float64 `json:"value"`
}

// SimulationResult aggregates the statistics derived from walking the
// eligible trades in chronological order.
type SimulationResult struct {
	Total       int     `json:"total"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winRate"` // percent, 0 when no trades
	PnL         float64 `json:"pnl"`     // final cumulative P&L
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"` // keeps its negative sign
	Expectancy  float64 `json:"expectancy"`
	MaxDrawdown float64 `json:"maxDrawdown"`

	Equity []EquityPoint `json:"equity"`

	// Trades are the eligible trades in the order they were simulated.
	Trades []NormalizedTrade `json:"trades"`

	// Skipped counts input trades excluded by the eligibility filter.
	Skipped int `json:"skipped"`
}
