package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// IngestHandler handles document upload requests
type IngestHandler struct {
	ingestService interfaces.IngestService
	maxBodyBytes  int64
	logger        arbor.ILogger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService interfaces.IngestService, maxBodyBytes int64, logger arbor.ILogger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		maxBodyBytes:  maxBodyBytes,
		logger:        logger,
	}
}

// IngestHandler handles POST /api/ingest requests. The document arrives
// base64-encoded in the JSON body; failures never leave a partial upsert
// behind.
func (h *IngestHandler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req interfaces.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Document exceeds the %d byte upload limit", maxBytesErr.Limit))
			return
		}
		h.logger.Error().Err(err).Msg("Failed to decode ingest request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Body == "" {
		WriteError(w, http.StatusBadRequest, "Body field is required")
		return
	}

	documentBytes, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Body must be base64-encoded document bytes")
		return
	}

	userID := UserID(r, req.UserID)

	h.logger.Info().
		Int("document_bytes", len(documentBytes)).
		Str("user_id", userID).
		Msg("Processing ingest request")

	result, err := h.ingestService.Ingest(r.Context(), documentBytes, userID)
	if err != nil {
		h.writeIngestError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    fmt.Sprintf("Document ingested into %d chunks", result.ChunkCount),
		"chunks":     result.ChunkCount,
		"documentId": result.DocumentID,
	})
}

// writeIngestError maps pipeline failures to status codes: unparseable
// documents are the caller's fault, everything else is ours.
func (h *IngestHandler) writeIngestError(w http.ResponseWriter, err error) {
	var parseErr *models.ParseError
	if errors.As(err, &parseErr) {
		h.logger.Warn().Err(err).Msg("Document could not be parsed")
		WriteError(w, http.StatusBadRequest, parseErr.Error())
		return
	}

	h.logger.Error().Err(err).Msg("Ingestion failed")
	WriteError(w, http.StatusInternalServerError, "Error processing document upload")
}
