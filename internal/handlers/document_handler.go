package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// DocumentHandler serves the ingestion ledger
type DocumentHandler struct {
	ledger interfaces.IngestionStorage
	logger arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(ledger interfaces.IngestionStorage, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		ledger: ledger,
		logger: logger,
	}
}

// ListHandler handles GET /api/documents requests, returning ingested
// documents newest first. An optional limit query parameter caps the count.
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	records, err := h.ledger.ListRecords(limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list ingestion records")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	total, err := h.ledger.Count()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count ingestion records")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"count":     total,
		"documents": records,
	})
}
