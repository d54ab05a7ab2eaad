package interfaces

import "context"

// EmbeddingService generates vector embeddings. Every returned vector has
// exactly Dimension() elements; a provider response of any other size is an
// error, never silently accepted.
type EmbeddingService interface {
	// GenerateEmbedding creates a vector embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GenerateEmbeddings creates embeddings for a batch of texts in one
	// provider call where supported. All-or-nothing: a partial provider
	// failure fails the whole batch.
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// GenerateQueryEmbedding generates the embedding for a search query
	// (may use different provider settings than document embedding)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// ModelName returns the embedding model identifier
	ModelName() string

	// Dimension returns the fixed output dimension of the model
	Dimension() int

	// IsAvailable checks if the embedding provider is reachable
	IsAvailable(ctx context.Context) bool
}
