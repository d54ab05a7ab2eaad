package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/models"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := NewClient(&common.QdrantConfig{
		URL:        url,
		APIKey:     "test-key",
		Collection: "documents",
		Timeout:    "5s",
	}, common.GetLogger())
	require.NoError(t, err)
	return client
}

func TestEnsureCollection_CreatesWhenMissing(t *testing.T) {
	var createBody createCollectionRequest
	created := false

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/documents":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/documents":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
			created = true
			w.Write([]byte(`{"result": true, "status": "ok"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	err := client.EnsureCollection(context.Background(), 1536)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1536, createBody.Vectors.Size)
	assert.Equal(t, "Cosine", createBody.Vectors.Distance)
}

func TestEnsureCollection_SkipsWhenExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/collections/documents" {
			w.Write([]byte(`{"result": {"status": "green"}}`))
			return
		}
		t.Errorf("existing collection must not be recreated: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	assert.NoError(t, client.EnsureCollection(context.Background(), 1536))
}

func TestUpsert_SendsAllPointsInOneCall(t *testing.T) {
	var body upsertRequest
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/collections/documents/points", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls++
		w.Write([]byte(`{"result": {"status": "acknowledged"}, "status": "ok"}`))
	}))
	defer srv.Close()

	records := []models.ChunkRecord{
		{
			ID:     "id-1",
			Vector: []float32{0.1, 0.2},
			Payload: models.ChunkPayload{
				Text:       "chunk one",
				DocumentID: "doc-1",
				ChunkIndex: 0,
			},
		},
		{
			ID:     "id-2",
			Vector: []float32{0.3, 0.4},
			Payload: models.ChunkPayload{
				Text:       "chunk two",
				DocumentID: "doc-1",
				ChunkIndex: 1,
			},
		},
	}

	client := newTestClient(t, srv.URL)
	require.NoError(t, client.Upsert(context.Background(), records))

	assert.Equal(t, 1, calls)
	require.Len(t, body.Points, 2)
	assert.Equal(t, "id-1", body.Points[0].ID)
	assert.Equal(t, "chunk one", body.Points[0].Payload.Text)
	assert.Equal(t, 1, body.Points[1].Payload.ChunkIndex)
}

func TestUpsert_FailureIsStorageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status": {"error": "wrong vector size"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	err := client.Upsert(context.Background(), []models.ChunkRecord{{ID: "id-1"}})

	var storageErr *models.StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestUpsert_EmptyBatchIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	assert.NoError(t, client.Upsert(context.Background(), nil))
}

func TestSearch_ReturnsHitsInRankOrder(t *testing.T) {
	var body searchRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/collections/documents/points/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Write([]byte(`{
			"result": [
				{"score": 0.92, "payload": {"text": "best match", "documentId": "doc-1", "chunkIndex": 3}},
				{"score": 0.81, "payload": {"text": "second match", "documentId": "doc-2", "chunkIndex": 0}}
			],
			"status": "ok"
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	hits, err := client.Search(context.Background(), []float32{0.5, 0.5}, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, body.Limit)
	assert.True(t, body.WithPayload)

	require.Len(t, hits, 2)
	assert.Equal(t, "best match", hits[0].Payload.Text)
	assert.InDelta(t, 0.92, hits[0].Score, 0.0001)
	assert.Equal(t, "second match", hits[1].Payload.Text)
	assert.Equal(t, "doc-1", hits[0].Payload.DocumentID)
}

func TestSearch_TransportFailureIsRetrievalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Search(context.Background(), []float32{0.1}, 4)

	var retrievalErr *models.RetrievalError
	assert.ErrorAs(t, err, &retrievalErr)
}

func TestNewClient_RequiresURLAndCollection(t *testing.T) {
	_, err := NewClient(&common.QdrantConfig{Collection: "c", Timeout: "5s"}, common.GetLogger())
	assert.Error(t, err)

	_, err = NewClient(&common.QdrantConfig{URL: "http://localhost:6333", Timeout: "5s"}, common.GetLogger())
	assert.Error(t, err)
}
