// Package llm holds the hosted language model backends that score candidates.
package llm

import (
	"context"
	"fmt"

	"github.com/fmuoria/ai-recruiter/internal/config"
	"github.com/fmuoria/ai-recruiter/internal/secrets"
)

// Client generates a completion for a single prompt.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
	Close() error
}

// New builds the client selected by cfg.Provider.
func New(ctx context.Context, cfg config.AIConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderVertexAI:
		return NewVertexAIClient(ctx, VertexAIConfig{
			Project:  cfg.Vertex.Project,
			Location: cfg.Vertex.Location,
			Model:    cfg.Vertex.Model,
		})
	case config.ProviderGemini:
		key, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, err
		}
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  key,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		})
	case config.ProviderOpenAI:
		key, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, err
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  key,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported ai provider: %q", cfg.Provider)
	}
}
