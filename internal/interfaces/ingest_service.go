package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// IngestRequest represents a document upload
type IngestRequest struct {
	// Base64-encoded document bytes (required)
	Body string `json:"body" validate:"required"`

	// Opaque user identifier (optional)
	UserID string `json:"userId,omitempty"`
}

// IngestService turns an uploaded document into embedded chunks in the
// vector store. All-or-nothing per document: any stage failure (parse,
// embed, store) reports the whole ingestion as failed with no partial
// upsert visible to the caller.
type IngestService interface {
	Ingest(ctx context.Context, documentBytes []byte, userID string) (*models.IngestResult, error)
}
