package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/respondeo/internal/models"
)

func TestPromptAssembler_WithContext(t *testing.T) {
	a := NewPromptAssembler()

	passages := []string{"first passage", "second passage"}
	messages := a.Assemble("What is RAG?", passages, nil)

	require.Len(t, messages, 2)

	system := messages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "first passage")
	assert.Contains(t, system.Content, "second passage")
	assert.Contains(t, system.Content, passageSeparator)
	assert.Contains(t, system.Content, "ONLY the context")

	question := messages[1]
	assert.Equal(t, "user", question.Role)
	assert.Equal(t, "What is RAG?", question.Content)
}

func TestPromptAssembler_NoContext(t *testing.T) {
	a := NewPromptAssembler()

	messages := a.Assemble("What is RAG?", nil, nil)

	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "no relevant documents")
	assert.Contains(t, messages[0].Content, "rephrase")
	assert.NotContains(t, messages[0].Content, "Context:")
}

func TestPromptAssembler_HistoryRoleMapping(t *testing.T) {
	a := NewPromptAssembler()

	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi there"},
		{Role: "tool", Content: "dropped"},
		{Role: models.RoleSystem, Content: "also dropped"},
		{Role: models.RoleUser, Content: "next"},
	}

	messages := a.Assemble("final question", nil, history)

	// system + 3 surviving history entries + question
	require.Len(t, messages, 5)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "hello", messages[1].Content)
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Equal(t, "hi there", messages[2].Content)
	assert.Equal(t, "user", messages[3].Role)
	assert.Equal(t, "next", messages[3].Content)
	assert.Equal(t, "final question", messages[4].Content)
}

func TestPromptAssembler_TrimsQuestion(t *testing.T) {
	a := NewPromptAssembler()

	messages := a.Assemble("  spaced out question \n", nil, nil)
	assert.Equal(t, "spaced out question", messages[len(messages)-1].Content)
}

func TestPromptAssembler_Deterministic(t *testing.T) {
	a := NewPromptAssembler()

	passages := []string{"alpha", "beta"}
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "one"},
		{Role: models.RoleAssistant, Content: "two"},
	}

	first := a.Assemble("question", passages, history)
	second := a.Assemble("question", passages, history)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestPromptAssembler_PassageOrderPreserved(t *testing.T) {
	a := NewPromptAssembler()

	messages := a.Assemble("q", []string{"most relevant", "less relevant"}, nil)
	system := messages[0].Content

	assert.Less(t, strings.Index(system, "most relevant"), strings.Index(system, "less relevant"))
}
