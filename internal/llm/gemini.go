package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no Gemini API model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini API backend.
type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses the default.
	BaseURL string
}

// GeminiClient wraps the Google GenAI client for the Gemini API backend.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	config    *genai.GenerateContentConfig
}

// NewGeminiClient creates a client authenticated with an API key.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiClient{
		client:    client,
		modelName: model,
		config:    &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.2)},
	}, nil
}

// GenerateContent sends the prompt to Gemini and returns the joined text parts.
func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(strings.TrimSpace(part.Text))
		}
	}

	output := builder.String()
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string {
	return g.modelName
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (g *GeminiClient) Close() error {
	return nil
}
