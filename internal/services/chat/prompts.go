package chat

import (
	"strings"

	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// passageSeparator visibly divides retrieved passages inside the system prompt
const passageSeparator = "\n\n---\n\n"

const contextSystemPrompt = `You are a helpful assistant that answers questions about the user's documents.

Answer using ONLY the context below. If the context does not contain enough information to answer the question, say so plainly instead of guessing or inventing an answer.

Context:
`

const noContextSystemPrompt = `You are a helpful assistant that answers questions about the user's documents.

No document context was found for this question. Tell the user that no relevant documents were found, and suggest they upload a document or rephrase the question. Do not attempt to answer from general knowledge.`

// PromptAssembler builds the role-tagged message sequence sent to the
// model: one system message, the caller's history, then the question.
// assemble is pure so identical inputs always yield an identical sequence.
type PromptAssembler struct{}

// NewPromptAssembler creates a prompt assembler
func NewPromptAssembler() *PromptAssembler {
	return &PromptAssembler{}
}

// Assemble builds the message sequence for a question, retrieved passages
// and conversation history. History entries with roles other than user or
// assistant are dropped.
func (a *PromptAssembler) Assemble(question string, passages []string, history []models.ChatMessage) []interfaces.Message {
	messages := make([]interfaces.Message, 0, len(history)+2)

	messages = append(messages, interfaces.Message{
		Role:    string(models.RoleSystem),
		Content: a.systemPrompt(passages),
	})

	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser, models.RoleAssistant:
			messages = append(messages, interfaces.Message{
				Role:    string(msg.Role),
				Content: msg.Content,
			})
		}
	}

	messages = append(messages, interfaces.Message{
		Role:    string(models.RoleUser),
		Content: strings.TrimSpace(question),
	})

	return messages
}

func (a *PromptAssembler) systemPrompt(passages []string) string {
	if len(passages) == 0 {
		return noContextSystemPrompt
	}
	return contextSystemPrompt + strings.Join(passages, passageSeparator)
}
