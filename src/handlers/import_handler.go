// backend/src/handlers/import_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/username/tradelab/backend/src/config"
	"github.com/username/tradelab/backend/src/logger"
	"github.com/username/tradelab/backend/src/security/validation"
	"github.com/username/tradelab/backend/src/services"
	"github.com/username/tradelab/backend/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: service,
	}
}

// HandleImport accepts a multipart CSV upload, validates it, and runs the
// parse/normalize/simulate pipeline over it.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to process upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		ctxLogger.Warn("Import request missing 'source' field")
		utils.SendJSONError(w, "Broker source is required.", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctxLogger.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	result, err := h.importService.ProcessImport(file, source, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			ctxLogger.Warn("Import parsing failed", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "No data could be parsed from the uploaded file.", http.StatusUnprocessableEntity)
			return
		}
		ctxLogger.Error("Import processing failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "Failed to process the uploaded file.", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, result, http.StatusOK)
}

// HandleGetSimulation returns the simulation over every stored trade.
func (h *ImportHandler) HandleGetSimulation(w http.ResponseWriter, r *http.Request) {
	sim, err := h.importService.GetSimulation()
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to build simulation", "error", err)
		utils.SendJSONError(w, "Failed to build simulation.", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, sim, http.StatusOK)
}

// HandleGetLatestResult returns the result of the most recent import.
func (h *ImportHandler) HandleGetLatestResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.importService.GetLatestResult()
	if err != nil {
		if errors.Is(err, services.ErrNoImportData) {
			utils.SendJSONError(w, "No imports yet.", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to load latest import result", "error", err)
		utils.SendJSONError(w, "Failed to load latest import result.", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, result, http.StatusOK)
}

// HandleGetTrades returns every stored normalized trade.
func (h *ImportHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.importService.GetTrades()
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to load trades", "error", err)
		utils.SendJSONError(w, "Failed to load trades.", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, trades, http.StatusOK)
}

// HandleGetImports returns the import history.
func (h *ImportHandler) HandleGetImports(w http.ResponseWriter, r *http.Request) {
	imports, err := h.importService.ListImports()
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to load import history", "error", err)
		utils.SendJSONError(w, "Failed to load import history.", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, imports, http.StatusOK)
}

// HandleExport streams a CSV download of the stored trades.
func (h *ImportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	if err := h.importService.ExportTrades(w); err != nil {
		// Headers are already out; log and give up on the body.
		logger.ErrorFromContext(r.Context(), "Failed to export trades", "error", err)
	}
}

// HandleDeleteAllTrades removes every import and trade.
func (h *ImportHandler) HandleDeleteAllTrades(w http.ResponseWriter, r *http.Request) {
	if err := h.importService.DeleteAllTrades(); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to delete trades", "error", err)
		utils.SendJSONError(w, "Failed to delete trades.", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, map[string]string{"message": "all imported trades deleted"}, http.StatusOK)
}
