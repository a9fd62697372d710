package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// GeminiClient completes prompts with Google Gemini chat sessions.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini completer.
func NewGeminiClient(ctx context.Context, apiKey, model string) (client *GeminiClient, err error) {
	if apiKey == "" {
		err = errors.New("gemini API key is required")
		return client, err
	}
	if model == "" {
		model = GeminiModel
	}

	var gc *genai.Client
	gc, err = genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		err = errors.Wrap(err, "failed to create genai client")
		return client, err
	}

	client = &GeminiClient{
		client: gc,
		model:  model,
	}
	return client, err
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() (err error) {
	if c.client != nil {
		err = c.client.Close()
	}
	return err
}

// Complete implements Completer. A fresh chat session is created per call so
// no state leaks between requests.
func (c *GeminiClient) Complete(ctx context.Context, history []Message, prompt string) (text string, err error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(MaxTokens)

	session := model.StartChat()
	session.History = toGeminiHistory(history)

	var resp *genai.GenerateContentResponse
	resp, err = session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		err = errors.Wrap(err, "gemini request failed")
		return text, err
	}

	text, err = geminiText(resp)
	return text, err
}

func toGeminiHistory(history []Message) (contents []*genai.Content) {
	contents = make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := string(RoleUser)
		if msg.Role == RoleModel {
			role = string(RoleModel)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}
	return contents
}

func geminiText(resp *genai.GenerateContentResponse) (text string, err error) {
	if resp == nil || len(resp.Candidates) == 0 {
		err = errors.New("no candidates in Gemini response")
		return text, err
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		err = errors.New("no content in Gemini response")
		return text, err
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}

	if len(parts) == 0 {
		err = errors.New("no text parts in Gemini response")
		return text, err
	}

	text = strings.Join(parts, "")
	return text, err
}
