// -----------------------------------------------------------------------
// Chat Service - retrieval-augmented answer streaming
// -----------------------------------------------------------------------

package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

const (
	// Emitted when the model stream ends without tokens and no context was found
	noContextFallback = "I couldn't find any relevant documents for your question. Try uploading a document or rephrasing your question."

	// Emitted when context existed but the model produced nothing
	generationFallback = "I found relevant documents but couldn't generate an answer. Please try again."

	// Prefix for the in-band diagnostic token on mid-stream failure
	errorTokenPrefix = "ERROR: "
)

// Service implements the ChatService interface. It orchestrates retrieval,
// prompt assembly and streaming generation for one request at a time; the
// collaborators it holds are long-lived and shared across requests.
type Service struct {
	config    *common.ChatConfig
	retriever *ContextRetriever
	assembler *PromptAssembler
	llm       interfaces.LLMService
	validate  *validator.Validate
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ChatService = (*Service)(nil)

// NewService creates a new chat service
func NewService(cfg *common.ChatConfig, retriever *ContextRetriever, llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		config:    cfg,
		retriever: retriever,
		assembler: NewPromptAssembler(),
		llm:       llm,
		validate:  validator.New(),
		logger:    logger,
	}
}

// StreamAnswer validates the request, retrieves context and relays model
// tokens on the returned channel. Only validation and setup failures return
// an error; after the channel is handed out, every failure is delivered
// in-band and the channel always closes.
func (s *Service) StreamAnswer(ctx context.Context, req *interfaces.ChatRequest) (<-chan string, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	question := strings.TrimSpace(req.Question)

	// Retrieval failure is not fatal: the user still gets an answer
	// attempt, with messaging reflecting the missing context.
	passages, err := s.retriever.Retrieve(ctx, question, s.config.MaxPassages)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", req.UserID).
			Msg("Context retrieval failed, answering without context")
		passages = nil
	}

	messages := s.assembler.Assemble(question, passages, req.History)

	s.logger.Debug().
		Str("user_id", req.UserID).
		Int("passages", len(passages)).
		Int("history", len(req.History)).
		Str("provider", string(s.llm.GetProvider())).
		Msg("Starting answer stream")

	chunks, err := s.llm.ChatStream(ctx, messages, req.Temperature)
	if err != nil {
		return nil, &models.GenerationError{Err: err}
	}

	out := make(chan string)
	go s.relay(ctx, chunks, out, len(passages) > 0)

	return out, nil
}

// relay forwards model tokens to the caller in generation order. An empty
// stream yields exactly one fallback message; a mid-stream failure yields
// one final diagnostic token.
func (s *Service) relay(ctx context.Context, chunks <-chan interfaces.StreamChunk, out chan<- string, hadContext bool) {
	defer close(out)

	start := time.Now()
	emitted := 0

	for chunk := range chunks {
		if chunk.Err != nil {
			s.logger.Error().
				Err(chunk.Err).
				Int("tokens_emitted", emitted).
				Msg("Generation failed mid-stream")
			s.send(ctx, out, errorTokenPrefix+chunk.Err.Error())
			return
		}
		if chunk.Text == "" {
			continue
		}
		if !s.send(ctx, out, chunk.Text) {
			return
		}
		emitted++
	}

	if emitted == 0 {
		fallback := noContextFallback
		if hadContext {
			fallback = generationFallback
		}
		s.logger.Warn().Bool("had_context", hadContext).Msg("Model stream ended without tokens")
		s.send(ctx, out, fallback)
		return
	}

	s.logger.Debug().
		Int("tokens_emitted", emitted).
		Dur("duration", time.Since(start)).
		Msg("Answer stream completed")
}

// send delivers one token unless the caller is gone
func (s *Service) send(ctx context.Context, out chan<- string, token string) bool {
	select {
	case out <- token:
		return true
	case <-ctx.Done():
		s.logger.Debug().Msg("Answer stream abandoned: caller gone")
		return false
	}
}

func (s *Service) validateRequest(req *interfaces.ChatRequest) error {
	if req == nil {
		return models.NewValidationError("request", "request body is required")
	}
	if strings.TrimSpace(req.Question) == "" {
		return models.NewValidationError("question", "question cannot be empty")
	}
	if err := s.validate.Struct(req); err != nil {
		return models.NewValidationError("request", err.Error())
	}
	return nil
}

// GetProvider returns the backing LLM provider
func (s *Service) GetProvider() interfaces.LLMProvider {
	return s.llm.GetProvider()
}

// HealthCheck verifies the chat pipeline is operational: the model must
// answer and the embedder must be reachable for retrieval
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.llm.HealthCheck(ctx); err != nil {
		return err
	}
	if !s.retriever.Available(ctx) {
		return fmt.Errorf("embedding service is unavailable")
	}
	return nil
}
