// backend/src/model/trades.go
package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/tradelab/backend/src/models"
)

// TradeRow is a normalized trade plus its stored derived P&L.
type TradeRow struct {
	models.NormalizedTrade
	PnL *float64
}

// SaveImport persists one import record together with all of its trades in a
// single transaction. Row order within the file is preserved via row_index so
// the simulator's original-index tie-break survives a round trip.
func SaveImport(db *sql.DB, rec models.ImportRecord, trades []TradeRow) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO imports (id, source, filename, filesize, rows_parsed, trades_imported, skipped, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.Filename, rec.Filesize, rec.RowsParsed, rec.TradesImported, rec.Skipped,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import record: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO trades (import_id, row_index, trade_date, date_raw, symbol, direction, entry_price, exit_price, size, fees, pnl, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare trade insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range trades {
		var tradeDate any
		if t.Date != nil {
			tradeDate = t.Date.UTC().Format(time.RFC3339)
		}
		_, err = stmt.Exec(
			rec.ID, i, tradeDate, t.DateRaw, t.Symbol, string(t.Direction),
			nullableFloat(t.EntryPrice), nullableFloat(t.ExitPrice), nullableFloat(t.Size),
			t.Fees, nullableFloat(t.PnL), t.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trade %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetAllTrades returns every stored trade ordered by import time and original
// row position within each file.
func GetAllTrades(db *sql.DB) ([]models.NormalizedTrade, error) {
	rows, err := db.Query(
		`SELECT t.trade_date, t.date_raw, t.symbol, t.direction, t.entry_price, t.exit_price, t.size, t.fees, t.notes
		 FROM trades t
		 JOIN imports i ON i.id = t.import_id
		 ORDER BY i.created_at ASC, t.row_index ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]models.NormalizedTrade, error) {
	var trades []models.NormalizedTrade
	for rows.Next() {
		var (
			t         models.NormalizedTrade
			tradeDate sql.NullString
			direction string
			entry     sql.NullFloat64
			exit      sql.NullFloat64
			size      sql.NullFloat64
		)
		if err := rows.Scan(&tradeDate, &t.DateRaw, &t.Symbol, &direction, &entry, &exit, &size, &t.Fees, &t.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		if tradeDate.Valid {
			if parsed, err := time.Parse(time.RFC3339, tradeDate.String); err == nil {
				t.Date = &parsed
			}
		}
		t.Direction = models.Direction(direction)
		t.EntryPrice = floatPtr(entry)
		t.ExitPrice = floatPtr(exit)
		t.Size = floatPtr(size)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// GetTradesByImport returns the trades of one import in original row order.
func GetTradesByImport(db *sql.DB, importID string) ([]models.NormalizedTrade, error) {
	rows, err := db.Query(
		`SELECT trade_date, date_raw, symbol, direction, entry_price, exit_price, size, fees, notes
		 FROM trades WHERE import_id = ? ORDER BY row_index ASC`, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for import %s: %w", importID, err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// ListImports returns the import history, newest first.
func ListImports(db *sql.DB) ([]models.ImportRecord, error) {
	rows, err := db.Query(
		`SELECT id, source, filename, filesize, rows_parsed, trades_imported, skipped, created_at
		 FROM imports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	var records []models.ImportRecord
	for rows.Next() {
		var (
			rec       models.ImportRecord
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Filename, &rec.Filesize, &rec.RowsParsed, &rec.TradesImported, &rec.Skipped, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan import row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = parsed
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteAllTrades removes every import and (by cascade) every trade.
func DeleteAllTrades(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM imports`); err != nil {
		return fmt.Errorf("failed to delete imports: %w", err)
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
