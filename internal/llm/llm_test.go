package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmuoria/ai-recruiter/internal/config"
)

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.AIConfig{Provider: "llama"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported ai provider")
}

func TestNew_MissingKeys(t *testing.T) {
	for _, provider := range []string{config.ProviderGemini, config.ProviderOpenAI} {
		t.Run(provider, func(t *testing.T) {
			_, err := New(context.Background(), config.AIConfig{Provider: provider})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "is not configured")
		})
	}
}

func TestNew_VertexRequiresProject(t *testing.T) {
	_, err := New(context.Background(), config.AIConfig{Provider: config.ProviderVertexAI})
	assert.Error(t, err)
}

func TestNew_OpenAIKeyFromFile(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "openai.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("sk-file\n"), 0600))

	client, err := New(context.Background(), config.AIConfig{
		Provider: config.ProviderOpenAI,
		OpenAI:   config.APIKeyConfig{APIKeyFile: keyFile, Model: "gpt-4o-mini"},
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "gpt-4o-mini", client.Model())
	assert.Equal(t, "sk-file", client.(*OpenAIClient).apiKey)
}

func TestGeminiClient_GenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, DefaultGeminiModel+":generateContent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":" 72 "}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := client.GenerateContent(context.Background(), "Rate this candidate")
	require.NoError(t, err)
	assert.Equal(t, "72", out)
	assert.Equal(t, DefaultGeminiModel, client.Model())
}

func TestGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
