package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const (
	// ClaudeModel is the default Anthropic model.
	ClaudeModel = "claude-sonnet-4-20250514"
	// GeminiModel is the default Gemini model.
	GeminiModel = "gemini-1.5-flash"
	// MaxTokens bounds the length of a single completion.
	MaxTokens = 2048
)

// Completer sends a prompt, preceded by prior conversation turns, to an LLM
// and returns the raw response text.
type Completer interface {
	Complete(ctx context.Context, history []Message, prompt string) (text string, err error)
}

// NewCompleter returns the completer for provider.
func NewCompleter(ctx context.Context, provider Provider, apiKey, model string) (completer Completer, err error) {
	switch provider {
	case ProviderAnthropic, "":
		if apiKey == "" {
			err = errors.New("anthropic API key is required")
			return completer, err
		}
		completer = NewClaudeClient(apiKey, model)
	case ProviderGemini:
		completer, err = NewGeminiClient(ctx, apiKey, model)
		if err != nil {
			err = errors.Wrap(err, "failed to create Gemini client")
			return completer, err
		}
	default:
		err = errors.Errorf("unknown provider %q", provider)
	}

	return completer, err
}

// ClaudeClient completes prompts with the Anthropic Messages API.
type ClaudeClient struct {
	client anthropic.Client
	model  string
}

// NewClaudeClient creates a Claude completer. Extra request options (base
// URL, retries, HTTP client) are passed through to the SDK.
func NewClaudeClient(apiKey, model string, opts ...option.RequestOption) (client *ClaudeClient) {
	if model == "" {
		model = ClaudeModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	client = &ClaudeClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
	return client
}

// Model returns the model name requests are sent to.
func (c *ClaudeClient) Model() (model string) {
	model = c.model
	return model
}

// Complete implements Completer.
func (c *ClaudeClient) Complete(ctx context.Context, history []Message, prompt string) (text string, err error) {
	messages := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, msg := range history {
		block := anthropic.NewTextBlock(msg.Text)
		if msg.Role == RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(block))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	var resp *anthropic.Message
	resp, err = c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: MaxTokens,
		Messages:  messages,
	})
	if err != nil {
		err = errors.Wrap(err, "claude request failed")
		return text, err
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}

	if len(parts) == 0 {
		err = errors.New("no text content in Claude response")
		return text, err
	}

	text = strings.Join(parts, "")
	return text, err
}
