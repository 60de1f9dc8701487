package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradelab/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func postExtractPnL(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/journal/extract-pnl", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	NewJournalHandler().HandleExtractPnL(rr, req)
	return rr
}

func TestHandleExtractPnLStructural(t *testing.T) {
	rr := postExtractPnL(t, `{"fields":{"entry":"10","exit":"12","size":"2"},"notes":""}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		PnL float64 `json:"pnl"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.InDelta(t, 4, resp.PnL, 1e-12)
}

func TestHandleExtractPnLFromNotes(t *testing.T) {
	rr := postExtractPnL(t, `{"fields":{},"notes":"scaled out late, PNL: ($25.50)"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		PnL float64 `json:"pnl"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.InDelta(t, -25.50, resp.PnL, 1e-12)
}

func TestHandleExtractPnLInvalidBody(t *testing.T) {
	rr := postExtractPnL(t, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
