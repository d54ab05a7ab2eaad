package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"google.golang.org/genai"
)

func conversation() []interfaces.Message {
	return []interfaces.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "question"},
	}
}

func TestConvertMessagesToClaude(t *testing.T) {
	messages, system, err := convertMessagesToClaude(conversation())
	require.NoError(t, err)

	assert.Equal(t, "be helpful", system)
	// System message is extracted, not included in the sequence
	require.Len(t, messages, 3)
}

func TestConvertMessagesToClaude_RequiresUserMessage(t *testing.T) {
	_, _, err := convertMessagesToClaude([]interfaces.Message{
		{Role: "system", Content: "only system"},
	})
	assert.Error(t, err)

	_, _, err = convertMessagesToClaude(nil)
	assert.Error(t, err)
}

func TestConvertMessagesToClaude_FirstSystemWins(t *testing.T) {
	_, system, err := convertMessagesToClaude([]interfaces.Message{
		{Role: "system", Content: "first"},
		{Role: "system", Content: "second"},
		{Role: "user", Content: "q"},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", system)
}

func TestConvertMessagesToGemini(t *testing.T) {
	contents, system, err := convertMessagesToGemini(conversation())
	require.NoError(t, err)

	assert.Equal(t, "be helpful", system)
	require.Len(t, contents, 3)

	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	assert.Equal(t, genai.RoleUser, contents[2].Role)
}

func TestConvertMessagesToGemini_UnknownRoleDefaultsToUser(t *testing.T) {
	contents, _, err := convertMessagesToGemini([]interfaces.Message{
		{Role: "user", Content: "q"},
		{Role: "tool", Content: "weird"},
	})
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[1].Role)
}

func TestConvertMessagesToGemini_RequiresUserMessage(t *testing.T) {
	_, _, err := convertMessagesToGemini([]interfaces.Message{
		{Role: "assistant", Content: "hi"},
	})
	assert.Error(t, err)
}

func TestGeminiBuildRequest_BoundsOutputTokens(t *testing.T) {
	s := &GeminiService{config: &common.GeminiConfig{MaxTokens: 512, Temperature: 0.3}}

	_, config, err := s.buildRequest(conversation(), 0)
	require.NoError(t, err)

	assert.Equal(t, int32(512), config.MaxOutputTokens)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.3, float64(*config.Temperature), 1e-6)
}

func TestGeminiBuildRequest_TemperatureOverride(t *testing.T) {
	s := &GeminiService{config: &common.GeminiConfig{MaxTokens: 512, Temperature: 0.3}}

	_, config, err := s.buildRequest(conversation(), 0.9)
	require.NoError(t, err)

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.9, float64(*config.Temperature), 1e-6)
}
