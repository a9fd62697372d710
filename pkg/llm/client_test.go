package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func claudeResponse(texts ...string) (body map[string]interface{}) {
	content := make([]map[string]interface{}, 0, len(texts))
	for _, text := range texts {
		content = append(content, map[string]interface{}{"type": "text", "text": text})
	}

	body = map[string]interface{}{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         ClaudeModel,
		"content":       content,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]interface{}{"input_tokens": 10, "output_tokens": 20},
	}
	return body
}

func newTestClaude(serverURL string) (client *ClaudeClient) {
	client = NewClaudeClient("test-key", "", option.WithBaseURL(serverURL), option.WithMaxRetries(0))
	return client
}

func TestNewClaudeClient(t *testing.T) {
	client := NewClaudeClient("test-api-key", "")
	require.NotNil(t, client)
	assert.Equal(t, ClaudeModel, client.Model())

	client = NewClaudeClient("test-api-key", "claude-custom")
	assert.Equal(t, "claude-custom", client.Model())
}

func TestClaudeComplete(t *testing.T) {
	var captured capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(claudeResponse("Dear Hiring Manager,", " body"))
	}))
	defer server.Close()

	client := newTestClaude(server.URL)

	history := []Message{
		{Role: RoleUser, Text: "earlier question"},
		{Role: RoleModel, Text: "earlier answer"},
	}

	text, err := client.Complete(context.Background(), history, "write the letter")
	require.NoError(t, err)

	assert.Equal(t, "Dear Hiring Manager, body", text)
	assert.Equal(t, ClaudeModel, captured.Model)

	expectedRoles := []string{"user", "assistant", "user"}
	require.Len(t, captured.Messages, len(expectedRoles))
	for i, role := range expectedRoles {
		assert.Equal(t, role, captured.Messages[i].Role, "message %d", i)
	}

	last := captured.Messages[2]
	require.Len(t, last.Content, 1)
	assert.Equal(t, "write the letter", last.Content[0].Text)
	assert.Len(t, history, 2, "history must not be modified")
}

func TestClaudeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer server.Close()

	client := newTestClaude(server.URL)

	_, err := client.Complete(context.Background(), nil, "prompt")
	assert.Error(t, err)
}

func TestClaudeEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(claudeResponse())
	}))
	defer server.Close()

	client := newTestClaude(server.URL)

	_, err := client.Complete(context.Background(), nil, "prompt")
	assert.Error(t, err)
}

func TestClaudeContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newTestClaude(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, nil, "prompt")
	assert.Error(t, err)
}

func TestNewCompleter(t *testing.T) {
	completer, err := NewCompleter(context.Background(), ProviderAnthropic, "key", "")
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, completer)

	_, err = NewCompleter(context.Background(), ProviderAnthropic, "", "")
	assert.Error(t, err, "missing anthropic key")

	_, err = NewCompleter(context.Background(), ProviderGemini, "", "")
	assert.Error(t, err, "missing gemini key")

	_, err = NewCompleter(context.Background(), Provider("openai"), "key", "")
	assert.Error(t, err, "unknown provider")
}

func TestToGeminiHistory(t *testing.T) {
	contents := toGeminiHistory([]Message{
		{Role: RoleUser, Text: "q"},
		{Role: RoleModel, Text: "a"},
		{Role: Role("system"), Text: "s"},
	})

	expected := []string{"user", "model", "user"}
	require.Len(t, contents, len(expected))

	for i, role := range expected {
		assert.Equal(t, role, contents[i].Role, "content %d", i)
		assert.Len(t, contents[i].Parts, 1, "content %d", i)
	}
}
