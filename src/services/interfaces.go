// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"

	"github.com/username/tradelab/backend/src/models"
)

// ImportResult is the outcome of a single ProcessImport call. It contains
// data derived only from the newly uploaded file.
type ImportResult struct {
	ImportID   string                  `json:"import_id"`
	RowsParsed int                     `json:"rows_parsed"`
	Warnings   []string                `json:"warnings,omitempty"`
	Simulation models.SimulationResult `json:"simulation"`
}

// Define common service errors
var (
	ErrParsingFailed    = errors.New("csv parsing failed")
	ErrProcessingFailed = errors.New("trade processing failed")
	ErrNoImportData     = errors.New("no import data available")
)

// ImportService defines the interface for the core import processing logic.
type ImportService interface {
	ProcessImport(fileReader io.Reader, source string, filename string, filesize int64) (*ImportResult, error)
	GetLatestResult() (*ImportResult, error)

	// GetSimulation re-runs the simulation over every stored trade,
	// across all imports.
	GetSimulation() (*models.SimulationResult, error)

	GetTrades() ([]models.NormalizedTrade, error)
	ListImports() ([]models.ImportRecord, error)
	DeleteAllTrades() error

	// ExportTrades writes the stored normalized trades as CSV.
	ExportTrades(w io.Writer) error

	InvalidateCache()
}
