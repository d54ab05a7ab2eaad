package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// ChatRequest represents an answer request with conversation context
type ChatRequest struct {
	// User's question (required, non-empty after trim)
	Question string `json:"question" validate:"required"`

	// Conversation history in caller-supplied order (optional)
	History []models.ChatMessage `json:"history,omitempty"`

	// Opaque user identifier (optional; may also arrive via x-user-id header)
	UserID string `json:"userId,omitempty"`

	// Completion temperature override (optional; 0 keeps the configured default)
	Temperature float32 `json:"temperature,omitempty" validate:"gte=0,lte=2"`
}

// ChatService is the retrieval-augmented answer pipeline
type ChatService interface {
	// StreamAnswer validates the request, retrieves context, assembles the
	// prompt and relays model tokens on the returned channel in generation
	// order. Returns an error only for validation failures and unrecoverable
	// setup failures, before any token is produced; retrieval failures
	// degrade to a no-context answer. The channel always terminates: an
	// empty model stream yields one fallback message, a mid-stream failure
	// yields one final diagnostic token.
	StreamAnswer(ctx context.Context, req *ChatRequest) (<-chan string, error)

	// GetProvider returns the backing LLM provider
	GetProvider() LLMProvider

	// HealthCheck verifies the chat pipeline is operational
	HealthCheck(ctx context.Context) error
}
