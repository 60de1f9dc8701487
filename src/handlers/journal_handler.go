// backend/src/handlers/journal_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/tradelab/backend/src/logger"
	"github.com/username/tradelab/backend/src/models"
	"github.com/username/tradelab/backend/src/processors"
	"github.com/username/tradelab/backend/src/security/validation"
	"github.com/username/tradelab/backend/src/utils"
)

// JournalHandler serves the loose P&L extraction used by the journal UI when
// an entry has no usable structured fields.
type JournalHandler struct{}

func NewJournalHandler() *JournalHandler { return &JournalHandler{} }

type extractPnLRequest struct {
	Fields map[string]string `json:"fields"`
	Notes  string            `json:"notes"`
}

type extractPnLResponse struct {
	PnL float64 `json:"pnl"`
}

// HandleExtractPnL resolves a best-effort P&L for a single journal entry.
func (h *JournalHandler) HandleExtractPnL(w http.ResponseWriter, r *http.Request) {
	var req extractPnLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.FromContext(r.Context()).Warn("Invalid extract-pnl request body", "error", err)
		utils.SendJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	// Only strip unprintables here: HTML sanitization would entity-escape
	// characters like '&' and break P&L labels inside the notes.
	notes := validation.StripUnprintable(req.Notes)
	pnl := processors.ExtractPnL(models.RawRow(req.Fields), notes)

	utils.SendJSONResponse(w, extractPnLResponse{PnL: pnl}, http.StatusOK)
}
