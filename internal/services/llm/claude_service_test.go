package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

func sseEvent(name, data string) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", name, data)
}

// newStallingClaudeService points the SDK at a server that streams one text
// delta and then stalls until the client gives up.
func newStallingClaudeService(t *testing.T, timeout time.Duration) (*ClaudeService, chan struct{}) {
	t.Helper()

	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprint(w, sseEvent("message_start",
			`{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"m","usage":{"input_tokens":1,"output_tokens":1}}}`))
		fmt.Fprint(w, sseEvent("content_block_start",
			`{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`))
		fmt.Fprint(w, sseEvent("content_block_delta",
			`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"partial"}}`))
		flusher.Flush()

		// Hold the stream open past the service timeout
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(done) })

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)

	return &ClaudeService{
		config:    &common.ClaudeConfig{Model: "claude-sonnet-4-20250514"},
		logger:    common.GetLogger(),
		client:    &client,
		timeout:   timeout,
		maxTokens: 64,
	}, done
}

func TestClaudeChatStream_TimeoutArrivesAsErrorChunk(t *testing.T) {
	svc, _ := newStallingClaudeService(t, 150*time.Millisecond)

	chunks, err := svc.ChatStream(context.Background(), []interfaces.Message{
		{Role: "user", Content: "question"},
	}, 0)
	require.NoError(t, err)

	var tokens []string
	var finalErr error
	for chunk := range chunks {
		if chunk.Err != nil {
			finalErr = chunk.Err
			continue
		}
		tokens = append(tokens, chunk.Text)
	}

	// A mid-stream deadline must surface in-band, never as a bare close
	require.Error(t, finalErr)
	assert.Equal(t, []string{"partial"}, tokens)
}
