package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/models"
)

// stubLedger implements interfaces.IngestionStorage
type stubLedger struct {
	records []*models.IngestionRecord
	listErr error
}

func (s *stubLedger) SaveRecord(record *models.IngestionRecord) error { return nil }

func (s *stubLedger) GetRecord(documentID string) (*models.IngestionRecord, error) {
	return nil, nil
}

func (s *stubLedger) ListRecords(limit int) ([]*models.IngestionRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit > 0 && len(s.records) > limit {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *stubLedger) Count() (int, error) { return len(s.records), nil }

func TestDocumentHandler_List(t *testing.T) {
	ledger := &stubLedger{
		records: []*models.IngestionRecord{
			{DocumentID: "doc-2", ChunkCount: 3, CreatedAt: time.Now()},
			{DocumentID: "doc-1", ChunkCount: 5, CreatedAt: time.Now().Add(-time.Hour)},
		},
	}
	handler := NewDocumentHandler(ledger, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	handler.ListHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success   bool                      `json:"success"`
		Count     int                       `json:"count"`
		Documents []*models.IngestionRecord `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "doc-2", resp.Documents[0].DocumentID)
}

func TestDocumentHandler_LimitParam(t *testing.T) {
	ledger := &stubLedger{
		records: []*models.IngestionRecord{
			{DocumentID: "doc-1"},
			{DocumentID: "doc-2"},
			{DocumentID: "doc-3"},
		},
	}
	handler := NewDocumentHandler(ledger, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ListHandler(rec, req)

	var resp struct {
		Documents []*models.IngestionRecord `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Documents, 2)
}

func TestDocumentHandler_BadLimit(t *testing.T) {
	handler := NewDocumentHandler(&stubLedger{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents?limit=nope", nil)
	rec := httptest.NewRecorder()
	handler.ListHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
