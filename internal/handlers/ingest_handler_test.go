package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/models"
)

// stubIngestService implements interfaces.IngestService
type stubIngestService struct {
	ingestFunc func(ctx context.Context, documentBytes []byte, userID string) (*models.IngestResult, error)
	lastBytes  []byte
	lastUserID string
}

func (s *stubIngestService) Ingest(ctx context.Context, documentBytes []byte, userID string) (*models.IngestResult, error) {
	s.lastBytes = documentBytes
	s.lastUserID = userID
	if s.ingestFunc != nil {
		return s.ingestFunc(ctx, documentBytes, userID)
	}
	return &models.IngestResult{DocumentID: "doc-1", ChunkCount: 7}, nil
}

func ingestBody(t *testing.T, raw []byte, userID string) string {
	t.Helper()
	payload := map[string]string{"body": base64.StdEncoding.EncodeToString(raw)}
	if userID != "" {
		payload["userId"] = userID
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(data)
}

func TestIngestHandler_Success(t *testing.T) {
	svc := &stubIngestService{}
	handler := NewIngestHandler(svc, 0, common.GetLogger())

	body := ingestBody(t, []byte("%PDF-1.4 fake"), "user-1")
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(7), resp["chunks"])
	assert.Equal(t, "doc-1", resp["documentId"])

	assert.Equal(t, []byte("%PDF-1.4 fake"), svc.lastBytes)
	assert.Equal(t, "user-1", svc.lastUserID)
}

func TestIngestHandler_InvalidBase64(t *testing.T) {
	handler := NewIngestHandler(&stubIngestService{}, 0, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{"body": "not base64!!!"}`))
	rec := httptest.NewRecorder()

	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "base64")
}

func TestIngestHandler_MissingBody(t *testing.T) {
	handler := NewIngestHandler(&stubIngestService{}, 0, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestHandler_ParseErrorIsBadRequest(t *testing.T) {
	svc := &stubIngestService{
		ingestFunc: func(ctx context.Context, documentBytes []byte, userID string) (*models.IngestResult, error) {
			return nil, &models.ParseError{Err: errors.New("no extractable text in document")}
		},
	}
	handler := NewIngestHandler(svc, 0, common.GetLogger())

	body := ingestBody(t, []byte("garbage"), "")
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "parse failed")

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], "parse failed")
}

func TestIngestHandler_PipelineFailureIsServerError(t *testing.T) {
	svc := &stubIngestService{
		ingestFunc: func(ctx context.Context, documentBytes []byte, userID string) (*models.IngestResult, error) {
			return nil, &models.StorageError{Err: errors.New("qdrant unreachable")}
		},
	}
	handler := NewIngestHandler(svc, 0, common.GetLogger())

	body := ingestBody(t, []byte("%PDF-fake"), "")
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIngestHandler_BodySizeLimit(t *testing.T) {
	handler := NewIngestHandler(&stubIngestService{}, 64, common.GetLogger())

	body := ingestBody(t, []byte(strings.Repeat("x", 500)), "")
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.IngestHandler(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("%d", 64))
}

func TestIngestHandler_UserIDHeaderFallback(t *testing.T) {
	svc := &stubIngestService{}
	handler := NewIngestHandler(svc, 0, common.GetLogger())

	body := ingestBody(t, []byte("%PDF-fake"), "")
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	req.Header.Set("x-user-id", "session-7")
	rec := httptest.NewRecorder()

	handler.IngestHandler(rec, req)

	assert.Equal(t, "session-7", svc.lastUserID)
}
