// backend/src/processors/loose_extractor.go
package processors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/username/tradelab/backend/src/models"
	"github.com/username/tradelab/backend/src/parsers"
)

// Loose extraction resolves a best-effort P&L for journal entries whose
// structured fields are absent or ambiguous. It is a UI convenience, not the
// authoritative simulation path, so it always resolves to a number.

// Field-name aliases checked on the entry itself, in priority order.
var pnlFieldAliases = []string{
	"net_pnl", "pnl", "p&l", "profit", "realized_pnl", "net_profit", "gain", "result",
}

// Labeled tokens scanned in free-text notes, first matching label wins.
var notePnLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnet\s*pnl\s*[:=]\s*(\(?[-+]?[$€£]?[\d,]+(?:\.\d+)?\)?)`),
	regexp.MustCompile(`(?i)\bpnl\s*[:=]\s*(\(?[-+]?[$€£]?[\d,]+(?:\.\d+)?\)?)`),
	regexp.MustCompile(`(?i)\bp&l\s*[:=]\s*(\(?[-+]?[$€£]?[\d,]+(?:\.\d+)?\)?)`),
	regexp.MustCompile(`(?i)\bprofit\s*[:=]\s*(\(?[-+]?[$€£]?[\d,]+(?:\.\d+)?\)?)`),
	regexp.MustCompile(`(?i)\bloss\s*[:=]\s*(\(?[-+]?[$€£]?[\d,]+(?:\.\d+)?\)?)`),
}

var looseStrip = regexp.MustCompile(`[^0-9.\-]`)

// ParseLoose extracts a signed number from mixed currency and free-text
// formats: currency symbols and thousands separators are stripped, and a
// parenthesized value or loss/loser/red wording is treated as negative even
// without a leading minus sign. It returns nil when nothing numeric remains.
func ParseLoose(s string) *float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}

	lower := strings.ToLower(trimmed)
	negative := strings.Contains(lower, "loss") ||
		strings.Contains(lower, "loser") ||
		strings.Contains(lower, "red") ||
		(strings.Contains(trimmed, "(") && strings.Contains(trimmed, ")"))

	cleaned := looseStrip.ReplaceAllString(trimmed, "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	if negative && v > 0 {
		v = -v
	}
	return &v
}

// ExtractPnL resolves a P&L for one journal entry. Priority order: a known
// alias field on the entry, then a labeled token inside the notes, then the
// structural entry/exit/size/fees formula, then 0.
func ExtractPnL(fields models.RawRow, notes string) float64 {
	lowered := make(map[string]string, len(fields))
	for k, v := range fields {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	for _, alias := range pnlFieldAliases {
		if v, ok := lowered[alias]; ok {
			if p := ParseLoose(v); p != nil {
				return *p
			}
		}
	}

	for _, re := range notePnLPatterns {
		if m := re.FindStringSubmatch(notes); m != nil {
			if p := ParseLoose(m[1]); p != nil {
				return *p
			}
		}
	}

	if p := ComputePnL(parsers.Normalize(fields, nil)); p != nil {
		return *p
	}
	return 0
}
