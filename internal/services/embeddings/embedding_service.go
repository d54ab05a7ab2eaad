package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Service implements EmbeddingService using the Gemini embedding API.
// The output dimension is fixed at construction and every vector returned
// by the provider is validated against it.
type Service struct {
	config    *common.GeminiConfig
	client    *genai.Client
	dimension int
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates a new embedding service
func NewService(geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*Service, error) {
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Google API key is required for embeddings (set via GEMINI_API_KEY or gemini.api_key in config)")
	}

	if geminiConfig.EmbedModel == "" {
		geminiConfig.EmbedModel = "gemini-embedding-001"
	}
	if geminiConfig.EmbedDimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", geminiConfig.EmbedDimension)
	}

	timeout, err := time.ParseDuration(geminiConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
	}

	rps := geminiConfig.EmbedRateLimit
	if rps <= 0 {
		rps = 5
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	logger.Debug().
		Str("model", geminiConfig.EmbedModel).
		Int("dimension", geminiConfig.EmbedDimension).
		Dur("timeout", timeout).
		Msg("Embedding service initialized")

	return &Service{
		config:    geminiConfig,
		client:    client,
		dimension: geminiConfig.EmbedDimension,
		timeout:   timeout,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		logger:    logger,
	}, nil
}

// GenerateEmbedding creates a vector embedding for raw text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, &models.EmbeddingError{Err: fmt.Errorf("text cannot be empty")}
	}

	vectors, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// GenerateEmbeddings creates embeddings for a batch of texts in one provider
// call. All-or-nothing: any provider failure or dimension mismatch fails the
// whole batch; no partial result is returned.
func (s *Service) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, &models.EmbeddingError{Err: fmt.Errorf("no texts to embed")}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &models.EmbeddingError{Err: err}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	outputDim := int32(s.dimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	start := time.Now()
	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.EmbedModel, contents, embeddingConfig)
	if err != nil {
		s.logger.Error().Err(err).Int("batch_size", len(texts)).Msg("Embedding generation failed")
		return nil, &models.EmbeddingError{Err: err}
	}

	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, &models.EmbeddingError{
			Err: fmt.Errorf("provider returned %d embeddings for %d texts", got, len(texts)),
		}
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, &models.EmbeddingError{Err: fmt.Errorf("no embedding returned for text %d", i)}
		}
		if len(emb.Values) != s.dimension {
			return nil, &models.EmbeddingError{
				Err: fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(emb.Values)),
			}
		}
		vectors[i] = emb.Values
	}

	s.logger.Debug().
		Int("batch_size", len(texts)).
		Int("embedding_dim", s.dimension).
		Dur("duration", time.Since(start)).
		Msg("Generated embeddings")

	return vectors, nil
}

// GenerateQueryEmbedding generates the embedding for a search query.
// Queries currently use the same provider settings as documents.
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// ModelName returns the embedding model identifier
func (s *Service) ModelName() string {
	return s.config.EmbedModel
}

// Dimension returns the fixed output dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable checks if the embedding provider is reachable
func (s *Service) IsAvailable(ctx context.Context) bool {
	if s.client == nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.GenerateEmbedding(probeCtx, "ping")
	if err != nil {
		s.logger.Debug().Err(err).Msg("Embedding service not available")
		return false
	}
	return true
}
