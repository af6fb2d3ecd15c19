package genclient

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// SDKConfig configures the SDK-backed transports.
type SDKConfig struct {
	APIKey     string
	Model      string
	BaseURL    string       // Empty keeps the SDK default host.
	HTTPClient *http.Client // Optional.
}

func (c SDKConfig) clientConfig() *genai.ClientConfig {
	return &genai.ClientConfig{
		APIKey:      c.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.BaseURL},
	}
}

// firstText returns the text of the first part of content, or
// ErrMalformedResponse when there is no such part. The SDK types do not keep
// absent and empty text apart, so an empty first part counts as success.
func firstText(content *genai.Content) (string, error) {
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", ErrMalformedResponse
	}
	return content.Parts[0].Text, nil
}

// GenAITransport sends attempts through the google.golang.org/genai client.
type GenAITransport struct {
	client *genai.Client
	model  string
}

var _ Transport = (*GenAITransport)(nil)

// NewGenAITransport creates the SDK client. It fails when no API key is
// configured, as the SDK requires one for the Gemini API backend.
func NewGenAITransport(ctx context.Context, cfg SDKConfig) (*GenAITransport, error) {
	client, err := genai.NewClient(ctx, cfg.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAITransport{client: client, model: cfg.Model}, nil
}

// Send performs one attempt.
func (t *GenAITransport) Send(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("genai: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", ErrMalformedResponse
	}
	return firstText(resp.Candidates[0].Content)
}

// ADKTransport sends attempts through the ADK Gemini model.
type ADKTransport struct {
	llm   model.LLM
	model string
}

var _ Transport = (*ADKTransport)(nil)

// NewADKTransport creates the ADK Gemini model.
func NewADKTransport(ctx context.Context, cfg SDKConfig) (*ADKTransport, error) {
	llm, err := gemini.NewModel(ctx, cfg.Model, cfg.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return &ADKTransport{llm: llm, model: cfg.Model}, nil
}

// Send performs one non-streaming attempt and reads the first response.
func (t *ADKTransport) Send(ctx context.Context, prompt string) (string, error) {
	req := &model.LLMRequest{
		Model:    t.model,
		Contents: []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		Config:   &genai.GenerateContentConfig{},
	}

	for resp, err := range t.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", fmt.Errorf("adk: %w", err)
		}
		if resp == nil {
			continue
		}
		return firstText(resp.Content)
	}
	return "", ErrMalformedResponse
}
