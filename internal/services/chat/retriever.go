package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// ContextRetriever embeds a question and pulls the most similar stored
// passages from the vector store. An empty result is a valid outcome,
// not an error.
type ContextRetriever struct {
	embedder interfaces.EmbeddingService
	store    interfaces.VectorStore
	logger   arbor.ILogger
}

// NewContextRetriever creates a context retriever
func NewContextRetriever(embedder interfaces.EmbeddingService, store interfaces.VectorStore, logger arbor.ILogger) *ContextRetriever {
	return &ContextRetriever{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Available reports whether the embedding backend can serve retrieval
func (r *ContextRetriever) Available(ctx context.Context) bool {
	return r.embedder.IsAvailable(ctx)
}

// Retrieve returns up to k passages relevant to the question, most
// similar first. Hits with empty payload text are dropped; no similarity
// threshold is applied.
func (r *ContextRetriever) Retrieve(ctx context.Context, question string, k int) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("retrieval limit must be positive, got %d", k)
	}

	start := time.Now()
	vector, err := r.embedder.GenerateQueryEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	hits, err := r.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	passages := make([]string, 0, len(hits))
	for _, hit := range hits {
		if strings.TrimSpace(hit.Payload.Text) == "" {
			continue
		}
		passages = append(passages, hit.Payload.Text)
	}

	r.logger.Debug().
		Int("k", k).
		Int("hits", len(hits)).
		Int("passages", len(passages)).
		Dur("duration", time.Since(start)).
		Msg("Retrieved context passages")

	return passages, nil
}
