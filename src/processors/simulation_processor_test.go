package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradelab/backend/src/models"
)

func fptr(v float64) *float64 { return &v }

func dptr(t time.Time) *time.Time { return &t }

func day(d int) *time.Time {
	return dptr(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
}

func trade(date *time.Time, entry, exit, size, fees float64) models.NormalizedTrade {
	return models.NormalizedTrade{
		Date:       date,
		Direction:  models.DirectionLong,
		EntryPrice: fptr(entry),
		ExitPrice:  fptr(exit),
		Size:       fptr(size),
		Fees:       fees,
	}
}

func TestComputePnL(t *testing.T) {
	tests := []struct {
		name  string
		trade models.NormalizedTrade
		want  *float64
	}{
		{
			name:  "long profit",
			trade: trade(nil, 10, 12, 2, 0),
			want:  fptr(4),
		},
		{
			name: "short profits when price falls",
			trade: models.NormalizedTrade{
				Direction:  models.DirectionShort,
				EntryPrice: fptr(100),
				ExitPrice:  fptr(90),
				Size:       fptr(10),
			},
			want: fptr(100),
		},
		{
			name: "fees reduce net",
			trade: models.NormalizedTrade{
				Direction:  models.DirectionShort,
				EntryPrice: fptr(100),
				ExitPrice:  fptr(90),
				Size:       fptr(10),
				Fees:       5,
			},
			want: fptr(95),
		},
		{
			name: "long losing short move",
			trade: models.NormalizedTrade{
				Direction:  models.DirectionLong,
				EntryPrice: fptr(100),
				ExitPrice:  fptr(90),
				Size:       fptr(10),
			},
			want: fptr(-100),
		},
		{
			name:  "missing entry",
			trade: models.NormalizedTrade{ExitPrice: fptr(12), Size: fptr(1)},
			want:  nil,
		},
		{
			name:  "missing exit",
			trade: models.NormalizedTrade{EntryPrice: fptr(10), Size: fptr(1)},
			want:  nil,
		},
		{
			name:  "missing size",
			trade: models.NormalizedTrade{EntryPrice: fptr(10), ExitPrice: fptr(12)},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePnL(tt.trade)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-12)
		})
	}
}

func TestSimulateExcludesIneligibleTrades(t *testing.T) {
	sim := NewSimulationProcessor()

	missingExit := models.NormalizedTrade{
		Date:       day(1),
		EntryPrice: fptr(10),
		Size:       fptr(1),
	}
	missingDate := trade(nil, 10, 12, 1, 0)

	result := sim.Simulate([]models.NormalizedTrade{missingExit, missingDate})

	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Wins)
	assert.Equal(t, 0, result.Losses)
	assert.Empty(t, result.Equity)
	assert.Zero(t, result.MaxDrawdown)
	assert.Equal(t, 2, result.Skipped)
}

func TestSimulateChronologicalOrderWithTieBreak(t *testing.T) {
	sim := NewSimulationProcessor()

	// Same date: input order must decide, so B (-5) lands before A (+10).
	b := trade(day(5), 10, 5, 1, 0)  // -5
	a := trade(day(5), 10, 20, 1, 0) // +10

	result := sim.Simulate([]models.NormalizedTrade{b, a})

	require.Len(t, result.Equity, 2)
	assert.InDelta(t, -5, result.Equity[0].Value, 1e-12)
	assert.InDelta(t, 5, result.Equity[1].Value, 1e-12)
}

func TestSimulateSortsByDate(t *testing.T) {
	sim := NewSimulationProcessor()

	later := trade(day(10), 10, 11, 1, 0)   // +1
	earlier := trade(day(2), 10, 13, 1, 0)  // +3

	result := sim.Simulate([]models.NormalizedTrade{later, earlier})

	require.Len(t, result.Equity, 2)
	assert.Equal(t, day(2).Unix(), result.Equity[0].Time)
	assert.InDelta(t, 3, result.Equity[0].Value, 1e-12)
	assert.InDelta(t, 4, result.Equity[1].Value, 1e-12)
	assert.InDelta(t, 4, result.PnL, 1e-12)
}

func TestSimulateMaxDrawdown(t *testing.T) {
	sim := NewSimulationProcessor()

	// Equity sequence 10, 5, 15, 2, 20 -> peak 15, trough 2, drawdown 13.
	trades := []models.NormalizedTrade{
		trade(day(1), 0, 10, 1, 0),  // +10
		trade(day(2), 5, 0, 1, 0),   // -5
		trade(day(3), 0, 10, 1, 0),  // +10
		trade(day(4), 13, 0, 1, 0),  // -13
		trade(day(5), 0, 18, 1, 0),  // +18
	}

	result := sim.Simulate(trades)

	require.Len(t, result.Equity, 5)
	assert.InDelta(t, 13, result.MaxDrawdown, 1e-12)
	assert.InDelta(t, 20, result.PnL, 1e-12)
}

func TestSimulateExpectancy(t *testing.T) {
	sim := NewSimulationProcessor()

	// 3 wins averaging +20, 2 losses averaging -10 out of 5 trades:
	// expectancy = 0.6*20 + 0.4*(-10) = 8.
	trades := []models.NormalizedTrade{
		trade(day(1), 0, 20, 1, 0),
		trade(day(2), 0, 20, 1, 0),
		trade(day(3), 0, 20, 1, 0),
		trade(day(4), 10, 0, 1, 0),
		trade(day(5), 10, 0, 1, 0),
	}

	result := sim.Simulate(trades)

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.Wins)
	assert.Equal(t, 2, result.Losses)
	assert.InDelta(t, 60, result.WinRate, 1e-12)
	assert.InDelta(t, 20, result.AvgWin, 1e-12)
	assert.InDelta(t, -10, result.AvgLoss, 1e-12)
	assert.InDelta(t, 8, result.Expectancy, 1e-12)
}

func TestSimulateZeroPnLTradeCountsTowardNeither(t *testing.T) {
	sim := NewSimulationProcessor()

	result := sim.Simulate([]models.NormalizedTrade{trade(day(1), 10, 10, 5, 0)})

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Wins)
	assert.Equal(t, 0, result.Losses)
	assert.Zero(t, result.WinRate)
	require.Len(t, result.Equity, 1)
	assert.Zero(t, result.Equity[0].Value)
}

func TestSimulateEmptyInput(t *testing.T) {
	sim := NewSimulationProcessor()

	result := sim.Simulate(nil)

	assert.Equal(t, 0, result.Total)
	assert.Zero(t, result.PnL)
	assert.Zero(t, result.WinRate)
	assert.Zero(t, result.AvgWin)
	assert.Zero(t, result.AvgLoss)
	assert.Zero(t, result.Expectancy)
	assert.Zero(t, result.MaxDrawdown)
	assert.Empty(t, result.Equity)
	assert.Empty(t, result.Trades)
}

func TestSimulateIsIdempotent(t *testing.T) {
	sim := NewSimulationProcessor()

	trades := []models.NormalizedTrade{
		trade(day(3), 10, 12, 2, 0.5),
		trade(day(1), 10, 9, 1, 0),
		trade(day(3), 10, 8, 1, 1),
	}

	first := sim.Simulate(trades)
	second := sim.Simulate(trades)

	assert.Equal(t, first, second)
}
