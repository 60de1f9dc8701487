// backend/src/parsers/normalizer.go
package parsers

import (
	"sort"
	"strings"

	"github.com/username/tradelab/backend/src/models"
)

// Synonym priority lists for mapping arbitrary broker headers onto the
// canonical trade record. First present key wins; lookup is case-insensitive
// on keys only, never on values.
var (
	dateKeys      = []string{"date", "timestamp", "closed_at", "time"}
	symbolKeys    = []string{"symbol", "ticker"}
	directionKeys = []string{"direction", "side"}
	entryKeys     = []string{"entry_price", "entry", "open", "avg_entry"}
	exitKeys      = []string{"exit_price", "exit", "close", "avg_exit"}
	sizeKeys      = []string{"size", "qty", "quantity", "contracts"}
	feesKeys      = []string{"fees", "commission"}
	notesKeys     = []string{"notes", "note", "comment"}
)

// Normalize maps one raw CSV row onto the canonical trade record. The header
// slice, when available, supplies the original column order so that two
// headers differing only in case resolve to the later column; callers without
// one (manual rows, tests) may pass nil, in which case colliding keys resolve
// in sorted order for determinism.
//
// Fees is the only numeric field that defaults (to 0) instead of going nil.
func Normalize(row models.RawRow, header []string) models.NormalizedTrade {
	lowered := lowercaseKeys(row, header)

	trade := models.NormalizedTrade{
		Symbol:    strings.ToUpper(pick(lowered, symbolKeys)),
		Direction: models.DirectionLong,
		Notes:     pick(lowered, notesKeys),
	}

	trade.Date, trade.DateRaw = ParseDate(pick(lowered, dateKeys))

	switch strings.ToLower(pick(lowered, directionKeys)) {
	case "sell", "short":
		trade.Direction = models.DirectionShort
	}

	trade.EntryPrice = ParseNumber(pick(lowered, entryKeys))
	trade.ExitPrice = ParseNumber(pick(lowered, exitKeys))
	trade.Size = ParseNumber(pick(lowered, sizeKeys))

	if fees := ParseNumber(pick(lowered, feesKeys)); fees != nil {
		trade.Fees = *fees
	}

	return trade
}

// lowercaseKeys builds the case-folded copy of the row used for synonym
// lookup. Later columns win on case collisions when header order is known.
func lowercaseKeys(row models.RawRow, header []string) map[string]string {
	lowered := make(map[string]string, len(row))
	if len(header) > 0 {
		for _, k := range header {
			if v, ok := row[k]; ok {
				lowered[strings.ToLower(k)] = v
			}
		}
		return lowered
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lowered[strings.ToLower(k)] = row[k]
	}
	return lowered
}

func pick(lowered map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := lowered[k]; ok {
			return v
		}
	}
	return ""
}
