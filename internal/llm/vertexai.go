package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// DefaultVertexModel is used when no Vertex AI model is configured.
const DefaultVertexModel = "gemini-1.5-flash"

// VertexAIConfig selects the Vertex AI project, region and model.
type VertexAIConfig struct {
	Project  string
	Location string
	Model    string
}

// VertexAIClient wraps the Vertex AI Gemini API
type VertexAIClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewVertexAIClient creates a new Vertex AI client. Credentials come from the
// application default chain unless opts say otherwise.
func NewVertexAIClient(ctx context.Context, cfg VertexAIConfig, opts ...option.ClientOption) (*VertexAIClient, error) {
	if strings.TrimSpace(cfg.Project) == "" {
		return nil, errors.New("vertex ai project is required")
	}
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultVertexModel
	}

	client, err := genai.NewClient(ctx, cfg.Project, cfg.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)

	// Scores should be stable between runs.
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(256)

	return &VertexAIClient{
		client:    client,
		model:     model,
		modelName: cfg.Model,
	}, nil
}

// GenerateContent sends a prompt to the model and returns the response
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result.WriteString(string(text))
		}
	}

	return result.String(), nil
}

// Model returns the configured model name.
func (v *VertexAIClient) Model() string {
	return v.modelName
}

// Close closes the Vertex AI client
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
