package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// NewLLMService creates the chat provider selected by llm.default_provider.
// Embeddings are always served by Gemini regardless of this choice; the
// Anthropic API has no embeddings endpoint.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("provider", cfg.LLM.DefaultProvider).Msg("Initializing LLM service")

	switch cfg.LLM.DefaultProvider {
	case "claude":
		return NewClaudeService(&cfg.Claude, logger)

	case "gemini":
		return NewGeminiService(&cfg.Gemini, logger)

	default:
		return nil, fmt.Errorf("invalid llm provider '%s': must be 'claude' or 'gemini'", cfg.LLM.DefaultProvider)
	}
}
