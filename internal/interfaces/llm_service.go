package interfaces

import (
	"context"
)

// LLMProvider identifies the backing model provider
type LLMProvider string

const (
	// LLMProviderClaude uses the Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"

	// LLMProviderGemini uses the Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// StreamChunk is one increment of a streaming chat completion. Exactly one
// of Text or Err is meaningful; a chunk with a non-nil Err is always the
// final chunk on the channel.
type StreamChunk struct {
	Text string
	Err  error
}

// LLMService defines the interface for chat completions against a language
// model provider. Implementations wrap cloud SDKs (Anthropic, Google) and
// must bound every call with the configured timeout.
type LLMService interface {
	// Chat generates a complete response for the conversation history.
	// The messages slice contains the full context in chronological order,
	// including system prompts, user messages, and previous assistant turns.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatStream opens a streaming completion for the conversation history.
	// A positive temperature overrides the configured default; zero keeps it.
	// Returns an error only for setup failures (bad input, missing client);
	// once the channel is returned, all failures arrive in-band as a final
	// StreamChunk with Err set. The channel is closed when the model stream
	// ends, and tokens are delivered in generation order. Cancelling ctx
	// abandons the underlying provider stream.
	ChatStream(ctx context.Context, messages []Message, temperature float32) (<-chan StreamChunk, error)

	// HealthCheck verifies the service is operational and can handle requests
	HealthCheck(ctx context.Context) error

	// GetProvider returns the backing provider
	GetProvider() LLMProvider

	// Close releases resources and performs cleanup operations
	Close() error
}
