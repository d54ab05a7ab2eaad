package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// VectorStore wraps a vector database collection. The collection schema is
// fixed at creation time to the embedding model's output dimension; upserts
// and searches against a mismatched dimension fail at the store.
type VectorStore interface {
	// EnsureCollection creates the collection with the given vector
	// dimension and cosine distance if it does not already exist
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes all records as one batch call. All-or-nothing per
	// document: a failed batch leaves no partial state the caller must
	// account for.
	Upsert(ctx context.Context, records []models.ChunkRecord) error

	// Search returns up to limit hits ranked descending by cosine
	// similarity, with payloads included
	Search(ctx context.Context, vector []float32, limit int) ([]models.SearchHit, error)
}
