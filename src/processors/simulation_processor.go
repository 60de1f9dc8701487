// backend/src/processors/simulation_processor.go
package processors

import (
	"sort"

	"github.com/username/tradelab/backend/src/models"
)

// ComputePnL computes the net profit or loss of a single normalized trade.
// It returns nil when entry price, exit price or size is missing; fees never
// block the computation since the normalizer guarantees a 0 default. No
// rounding is applied here, presentation decides that.
func ComputePnL(t models.NormalizedTrade) *float64 {
	if t.EntryPrice == nil || t.ExitPrice == nil || t.Size == nil {
		return nil
	}
	sign := 1.0
	if t.Direction == models.DirectionShort {
		sign = -1.0
	}
	net := (*t.ExitPrice-*t.EntryPrice)*sign*(*t.Size) - t.Fees
	return &net
}

// SimulationProcessor derives the equity curve and aggregate statistics from
// a batch of normalized trades.
type SimulationProcessor struct{}

func NewSimulationProcessor() *SimulationProcessor { return &SimulationProcessor{} }

// eligible reports whether a trade is usable for simulation: entry, exit and
// size present, and a parsed date. Trades failing this are dropped from every
// statistic and from the equity curve, and only counted in Skipped.
func eligible(t models.NormalizedTrade) bool {
	return t.EntryPrice != nil && t.ExitPrice != nil && t.Size != nil && t.Date != nil
}

// Simulate filters the input to eligible trades, orders them by (date,
// original index) and walks them accumulating cumulative P&L. It never fails:
// empty or fully ineligible input yields a zeroed result with an empty curve.
func (p *SimulationProcessor) Simulate(trades []models.NormalizedTrade) models.SimulationResult {
	type indexedTrade struct {
		trade models.NormalizedTrade
		index int
	}

	var usable []indexedTrade
	skipped := 0
	for i, t := range trades {
		if !eligible(t) {
			skipped++
			continue
		}
		usable = append(usable, indexedTrade{trade: t, index: i})
	}

	// Composite (date, original index) key keeps runs deterministic when
	// several trades share a timestamp, which is common in exports that only
	// carry a date with no time-of-day.
	sort.SliceStable(usable, func(a, b int) bool {
		da, db := *usable[a].trade.Date, *usable[b].trade.Date
		if da.Equal(db) {
			return usable[a].index < usable[b].index
		}
		return da.Before(db)
	})

	result := models.SimulationResult{
		Total:   len(usable),
		Skipped: skipped,
		Equity:  []models.EquityPoint{},
		Trades:  make([]models.NormalizedTrade, 0, len(usable)),
	}

	var cum, winSum, lossSum float64
	for _, it := range usable {
		pnl := 0.0
		if v := ComputePnL(it.trade); v != nil {
			pnl = *v
		}
		cum += pnl
		result.Equity = append(result.Equity, models.EquityPoint{
			Time:  it.trade.Date.Unix(),
			Value: cum,
		})
		result.Trades = append(result.Trades, it.trade)

		switch {
		case pnl > 0:
			result.Wins++
			winSum += pnl
		case pnl < 0:
			result.Losses++
			lossSum += pnl
		}
		// Zero-P&L trades count toward neither wins nor losses.
	}

	if result.Total > 0 {
		result.WinRate = float64(result.Wins) / float64(result.Total) * 100
		result.PnL = result.Equity[len(result.Equity)-1].Value
	}
	if result.Wins > 0 {
		result.AvgWin = winSum / float64(result.Wins)
	}
	if result.Losses > 0 {
		result.AvgLoss = lossSum / float64(result.Losses) // stays negative
	}
	if result.Total > 0 {
		pWin := float64(result.Wins) / float64(result.Total)
		pLoss := float64(result.Losses) / float64(result.Total)
		result.Expectancy = pWin*result.AvgWin + pLoss*result.AvgLoss
	}

	var peak float64
	for _, pt := range result.Equity {
		if pt.Value > peak {
			peak = pt.Value
		}
		if dd := peak - pt.Value; dd > result.MaxDrawdown {
			result.MaxDrawdown = dd
		}
	}

	return result
}
