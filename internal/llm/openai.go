// Package llm asks a chat-completion API to explain analysis results in plain language.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("explainer is not configured")
	// ErrEmptyCompletion is returned when the API answers without choices.
	ErrEmptyCompletion = errors.New("completion returned no choices")
)

// Explainer turns analysis facts into a natural-language explanation.
type Explainer interface {
	Explain(ctx context.Context, f Facts) (string, error)
}

// OpenAIConfig is passed explicitly to NewOpenAIExplainer; there is no package-level client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty means the public OpenAI endpoint
	Model   string
	Timeout time.Duration
}

// OpenAIExplainer calls the chat-completion endpoint of an OpenAI-compatible API.
type OpenAIExplainer struct {
	client *openai.Client
	model  string
}

// NewOpenAIExplainer builds an explainer. An empty APIKey yields an explainer
// that fails every call with ErrNotConfigured.
func NewOpenAIExplainer(cfg OpenAIConfig) *OpenAIExplainer {
	if cfg.APIKey == "" {
		return &OpenAIExplainer{model: cfg.Model}
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIExplainer{client: openai.NewClientWithConfig(oc), model: model}
}

// Model reports the model name used for completions.
func (e *OpenAIExplainer) Model() string { return e.model }

// Explain sends the system prompt plus BuildPrompt(f) and returns the first
// choice's content unmodified.
func (e *OpenAIExplainer) Explain(ctx context.Context, f Facts) (string, error) {
	if e.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(f)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
