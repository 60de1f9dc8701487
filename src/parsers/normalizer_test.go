package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradelab/backend/src/models"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "empty", input: "", want: nil},
		{name: "whitespace only", input: "   ", want: nil},
		{name: "plain integer", input: "42", want: fptr(42)},
		{name: "decimal", input: "12.5", want: fptr(12.5)},
		{name: "negative", input: "-3.25", want: fptr(-3.25)},
		{name: "surrounding whitespace", input: " 7 ", want: fptr(7)},
		{name: "not a number", input: "abc", want: nil},
		{name: "thousands separator is not accepted here", input: "1,250", want: nil},
		{name: "overflow to infinity", input: "1e9999", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseDateDistinguishesAbsentFromInvalid(t *testing.T) {
	date, raw := ParseDate("")
	assert.Nil(t, date)
	assert.Empty(t, raw)

	date, raw = ParseDate("not-a-date")
	assert.Nil(t, date)
	assert.Equal(t, "not-a-date", raw)

	date, raw = ParseDate("2024-03-05")
	require.NotNil(t, date)
	assert.Equal(t, "2024-03-05", raw)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), date.UTC())
}

func TestParseDateBrokerFormats(t *testing.T) {
	inputs := []string{
		"2024-03-05T14:30:00Z",
		"2024-03-05 14:30:00",
		"2024.03.05 14:30:00", // MT4/MT5
		"03/05/2024",
	}
	for _, input := range inputs {
		date, _ := ParseDate(input)
		assert.NotNil(t, date, "expected %q to parse", input)
	}
}

func TestNormalizeCaseInsensitiveHeaders(t *testing.T) {
	trade := Normalize(models.RawRow{
		"Symbol": "aapl",
		"ENTRY":  "10",
		"Exit":   "12",
		"Size":   "2",
	}, nil)

	assert.Equal(t, "AAPL", trade.Symbol)
	require.NotNil(t, trade.EntryPrice)
	assert.Equal(t, 10.0, *trade.EntryPrice)
	require.NotNil(t, trade.ExitPrice)
	assert.Equal(t, 12.0, *trade.ExitPrice)
	require.NotNil(t, trade.Size)
	assert.Equal(t, 2.0, *trade.Size)
	assert.Equal(t, 0.0, trade.Fees)
	assert.Equal(t, models.DirectionLong, trade.Direction)
}

func TestNormalizeDirectionSynonyms(t *testing.T) {
	tests := []struct {
		name string
		row  models.RawRow
		want models.Direction
	}{
		{name: "side Short", row: models.RawRow{"side": "Short"}, want: models.DirectionShort},
		{name: "side SELL", row: models.RawRow{"side": "SELL"}, want: models.DirectionShort},
		{name: "direction short", row: models.RawRow{"direction": "short"}, want: models.DirectionShort},
		{name: "direction buy", row: models.RawRow{"direction": "buy"}, want: models.DirectionLong},
		{name: "absent defaults long", row: models.RawRow{}, want: models.DirectionLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.row, nil).Direction)
		})
	}
}

func TestNormalizeSynonymPriority(t *testing.T) {
	// entry_price outranks entry, even when its value is empty: the first
	// present key wins and empty coerces to nil.
	trade := Normalize(models.RawRow{"entry_price": "", "entry": "5"}, nil)
	assert.Nil(t, trade.EntryPrice)

	trade = Normalize(models.RawRow{"entry": "5", "open": "6"}, nil)
	require.NotNil(t, trade.EntryPrice)
	assert.Equal(t, 5.0, *trade.EntryPrice)

	trade = Normalize(models.RawRow{"qty": "3", "contracts": "9"}, nil)
	require.NotNil(t, trade.Size)
	assert.Equal(t, 3.0, *trade.Size)
}

func TestNormalizeFeesDefaultToZero(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(models.RawRow{}, nil).Fees)
	assert.Equal(t, 0.0, Normalize(models.RawRow{"fees": "garbage"}, nil).Fees)
	assert.Equal(t, 1.5, Normalize(models.RawRow{"commission": "1.5"}, nil).Fees)
}

func TestNormalizeDateAbsentVersusInvalid(t *testing.T) {
	absent := Normalize(models.RawRow{"symbol": "SPY"}, nil)
	assert.Nil(t, absent.Date)
	assert.Empty(t, absent.DateRaw)

	invalid := Normalize(models.RawRow{"date": "yesterday-ish"}, nil)
	assert.Nil(t, invalid.Date)
	assert.Equal(t, "yesterday-ish", invalid.DateRaw)

	valid := Normalize(models.RawRow{"timestamp": "2024-01-15"}, nil)
	assert.NotNil(t, valid.Date)
}

func TestNormalizeCaseCollisionHeaderOrderWins(t *testing.T) {
	row := models.RawRow{"Symbol": "msft", "SYMBOL": "tsla"}

	// With header order known, the later column wins.
	trade := Normalize(row, []string{"Symbol", "SYMBOL"})
	assert.Equal(t, "TSLA", trade.Symbol)

	trade = Normalize(row, []string{"SYMBOL", "Symbol"})
	assert.Equal(t, "MSFT", trade.Symbol)
}

func fptr(v float64) *float64 { return &v }
