// backend/src/services/import_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/tradelab/backend/src/database"
	"github.com/username/tradelab/backend/src/logger"
	"github.com/username/tradelab/backend/src/model"
	"github.com/username/tradelab/backend/src/models"
	"github.com/username/tradelab/backend/src/parsers"
	"github.com/username/tradelab/backend/src/processors"
	"github.com/username/tradelab/backend/src/security/validation"
)

const (
	ckLatestImportResult   = "agg_latest_import_result"
	ckSimulationAllTrades  = "res_simulation_all_trades"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type importServiceImpl struct {
	simulator   *processors.SimulationProcessor
	reportCache *cache.Cache
}

func NewImportService(simulator *processors.SimulationProcessor, reportCache *cache.Cache) ImportService {
	return &importServiceImpl{
		simulator:   simulator,
		reportCache: reportCache,
	}
}

// ProcessImport runs the full pipeline over one uploaded CSV: parse,
// normalize each row, simulate, then persist the import and its trades in a
// single transaction. The parse and simulation stages themselves never fail;
// an empty document and storage problems are the only error paths.
func (s *importServiceImpl) ProcessImport(fileReader io.Reader, source string, filename string, filesize int64) (*ImportResult, error) {
	data, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrParsingFailed, err)
	}

	parsed := parsers.Parse(string(data))
	if len(parsed.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows found in '%s'", ErrParsingFailed, filename)
	}
	for _, warning := range parsed.Warnings {
		logger.L.Warn("CSV import warning", "filename", filename, "warning", warning)
	}

	trades := make([]models.NormalizedTrade, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		t := parsers.Normalize(row, parsed.Header)
		t.Notes = validation.SanitizeText(validation.StripUnprintable(t.Notes))
		trades = append(trades, t)
	}

	sim := s.simulator.Simulate(trades)

	rec := models.ImportRecord{
		ID:             uuid.New().String(),
		Source:         source,
		Filename:       filename,
		Filesize:       filesize,
		RowsParsed:     len(parsed.Rows),
		TradesImported: sim.Total,
		Skipped:        sim.Skipped,
		CreatedAt:      time.Now().UTC(),
	}

	rows := make([]model.TradeRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, model.TradeRow{NormalizedTrade: t, PnL: processors.ComputePnL(t)})
	}
	if err := model.SaveImport(database.DB, rec, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	result := &ImportResult{
		ImportID:   rec.ID,
		RowsParsed: rec.RowsParsed,
		Warnings:   parsed.Warnings,
		Simulation: sim,
	}

	s.InvalidateCache()
	s.reportCache.Set(ckLatestImportResult, result, cache.DefaultExpiration)

	logger.L.Info("Import processed",
		"importID", rec.ID, "source", source, "filename", filename,
		"rowsParsed", rec.RowsParsed, "tradesImported", rec.TradesImported, "skipped", rec.Skipped)

	return result, nil
}

// GetLatestResult returns the result of the most recent import, rebuilding it
// from storage on cache miss.
func (s *importServiceImpl) GetLatestResult() (*ImportResult, error) {
	if cached, found := s.reportCache.Get(ckLatestImportResult); found {
		return cached.(*ImportResult), nil
	}

	imports, err := model.ListImports(database.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	if len(imports) == 0 {
		return nil, ErrNoImportData
	}
	latest := imports[0]

	trades, err := model.GetTradesByImport(database.DB, latest.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	result := &ImportResult{
		ImportID:   latest.ID,
		RowsParsed: latest.RowsParsed,
		Simulation: s.simulator.Simulate(trades),
	}
	s.reportCache.Set(ckLatestImportResult, result, cache.DefaultExpiration)
	return result, nil
}

// GetSimulation re-simulates every stored trade across all imports.
func (s *importServiceImpl) GetSimulation() (*models.SimulationResult, error) {
	if cached, found := s.reportCache.Get(ckSimulationAllTrades); found {
		return cached.(*models.SimulationResult), nil
	}

	trades, err := model.GetAllTrades(database.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	sim := s.simulator.Simulate(trades)
	s.reportCache.Set(ckSimulationAllTrades, &sim, cache.DefaultExpiration)
	return &sim, nil
}

func (s *importServiceImpl) GetTrades() ([]models.NormalizedTrade, error) {
	return model.GetAllTrades(database.DB)
}

func (s *importServiceImpl) ListImports() ([]models.ImportRecord, error) {
	return model.ListImports(database.DB)
}

func (s *importServiceImpl) DeleteAllTrades() error {
	if err := model.DeleteAllTrades(database.DB); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	s.InvalidateCache()
	logger.L.Info("All imported trades deleted")
	return nil
}

// ExportTrades writes the stored normalized trades as CSV. Text fields go
// through formula-injection sanitization so the export is safe to open in a
// spreadsheet.
func (s *importServiceImpl) ExportTrades(w io.Writer) error {
	trades, err := model.GetAllTrades(database.DB)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"date", "symbol", "direction", "entry_price", "exit_price", "size", "fees", "pnl", "notes"}); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, t := range trades {
		date := ""
		if t.Date != nil {
			date = t.Date.UTC().Format(time.RFC3339)
		}
		pnl := ""
		if v := processors.ComputePnL(t); v != nil {
			pnl = strconv.FormatFloat(*v, 'f', -1, 64)
		}
		record := []string{
			date,
			validation.SanitizeForFormulaInjection(t.Symbol),
			string(t.Direction),
			formatOptionalFloat(t.EntryPrice),
			formatOptionalFloat(t.ExitPrice),
			formatOptionalFloat(t.Size),
			strconv.FormatFloat(t.Fees, 'f', -1, 64),
			pnl,
			validation.SanitizeForFormulaInjection(t.Notes),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	return nil
}

func (s *importServiceImpl) InvalidateCache() {
	s.reportCache.Delete(ckLatestImportResult)
	s.reportCache.Delete(ckSimulationAllTrades)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
