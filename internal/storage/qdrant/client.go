// -----------------------------------------------------------------------
// Qdrant Vector Store - REST client for collection, upsert and search
// -----------------------------------------------------------------------

package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Client talks to a Qdrant instance over its REST API. No official Go
// SDK is pulled in; the surface we need is three endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.VectorStore = (*Client)(nil)

// NewClient creates a Qdrant REST client from config
func NewClient(cfg *common.QdrantConfig, logger arbor.ILogger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", cfg.Timeout, err)
	}

	return &Client{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type vectorsConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type createCollectionRequest struct {
	Vectors vectorsConfig `json:"vectors"`
}

type pointStruct struct {
	ID      string              `json:"id"`
	Vector  []float32           `json:"vector"`
	Payload models.ChunkPayload `json:"payload"`
}

type upsertRequest struct {
	Points []pointStruct `json:"points"`
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		Score   float32             `json:"score"`
		Payload models.ChunkPayload `json:"payload"`
	} `json:"result"`
}

// EnsureCollection creates the collection with cosine distance if it does
// not already exist. An existing collection is left untouched.
func (c *Client) EnsureCollection(ctx context.Context, dimension int) error {
	// Probe first so re-creation never clobbers stored points
	exists, err := c.collectionExists(ctx)
	if err != nil {
		return &models.StorageError{Err: err}
	}
	if exists {
		return nil
	}

	body := createCollectionRequest{
		Vectors: vectorsConfig{Size: dimension, Distance: "Cosine"},
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return &models.StorageError{Err: fmt.Errorf("failed to create collection: %w", err)}
	}

	c.logger.Info().
		Str("collection", c.collection).
		Int("dimension", dimension).
		Msg("Created Qdrant collection")

	return nil
}

// Upsert writes all chunk records to the collection in one call,
// waiting for the write to be applied.
func (c *Client) Upsert(ctx context.Context, records []models.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]pointStruct, len(records))
	for i, rec := range records {
		points[i] = pointStruct{
			ID:      rec.ID,
			Vector:  rec.Vector,
			Payload: rec.Payload,
		}
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPut, url, upsertRequest{Points: points}, nil); err != nil {
		return &models.StorageError{Err: fmt.Errorf("failed to upsert %d points: %w", len(points), err)}
	}

	c.logger.Debug().
		Str("collection", c.collection).
		Int("points", len(points)).
		Msg("Upserted points")

	return nil
}

// Search runs a nearest-neighbor query and returns hits with payloads
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]models.SearchHit, error) {
	body := searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}

	var resp searchResponse
	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, &models.RetrievalError{Err: fmt.Errorf("search failed: %w", err)}
	}

	hits := make([]models.SearchHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, models.SearchHit{
			Payload: r.Payload,
			Score:   r.Score,
		})
	}

	c.logger.Debug().
		Str("collection", c.collection).
		Int("limit", limit).
		Int("hits", len(hits)).
		Msg("Vector search completed")

	return hits, nil
}

// collectionExists checks the collection via GET
func (c *Client) collectionExists(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach qdrant: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status %d checking collection", resp.StatusCode)
	}
}

// do sends a JSON request and decodes the JSON response into out when
// out is non-nil. Non-2xx statuses become errors carrying the body.
func (c *Client) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}
