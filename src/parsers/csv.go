// backend/src/parsers/csv.go
package parsers

import (
	"fmt"
	"strings"

	"github.com/username/tradelab/backend/src/models"
)

// ParseResult is the outcome of parsing one CSV document.
type ParseResult struct {
	Header []string        `json:"header"`
	Rows   []models.RawRow `json:"rows"`

	// Warnings names conditions worth surfacing to the caller, such as
	// duplicated header columns. They never block parsing.
	Warnings []string `json:"warnings,omitempty"`
}

// TokenizeLine splits a single CSV line into fields with a single-pass scan.
// A double quote enters quoted mode; inside quotes a doubled quote emits one
// literal quote and commas are protected. The in-progress field is always
// emitted at end of line, so a line with N unquoted commas yields N+1 fields.
// An unterminated quote degrades gracefully: the rest of the line is consumed
// as quoted text. This never fails.
func TokenizeLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur.WriteByte('"') // escaped quote
					i++
				} else {
					inQuotes = false
				}
			} else {
				cur.WriteByte(c)
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ',':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// Parse turns a full CSV document into a header plus row maps. Line endings
// are normalized to \n and blank lines are dropped before any splitting, so
// they never become empty rows. The first surviving line is the header, with
// each field whitespace-trimmed.
//
// Known limitation, kept on purpose: a literal newline inside a quoted field
// is not supported and will mis-split the record. Broker exports this service
// accepts do not produce multi-line values.
//
// Duplicate header names are not deduplicated; the later column silently wins
// for each row, and the duplication is reported through Warnings.
func Parse(text string) ParseResult {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ParseResult{Header: []string{}, Rows: []models.RawRow{}}
	}

	header := TokenizeLine(lines[0])
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var warnings []string
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			warnings = append(warnings, fmt.Sprintf("duplicate header %q: later column overwrites the earlier one", h))
		}
		seen[h] = true
	}

	rows := make([]models.RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		tokens := TokenizeLine(line)
		row := make(models.RawRow, len(header))
		for i, h := range header {
			if i < len(tokens) {
				row[h] = tokens[i]
			} else {
				// A later duplicate column wins even when its token is
				// missing, matching the column-by-column assignment order.
				delete(row, h)
			}
		}
		// Tokens beyond the header width are silently dropped.
		rows = append(rows, row)
	}

	return ParseResult{Header: header, Rows: rows, Warnings: warnings}
}
