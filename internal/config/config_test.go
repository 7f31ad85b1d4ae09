package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Google.CredentialsFile = ""
	cfg.Candidates.SpreadsheetID = "candidates-sheet"
	cfg.Results.SpreadsheetID = "results-sheet"
	cfg.AI.Vertex.Project = "test-project"
	return cfg
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ai-recruiter.yaml")
	content := `
candidates:
  spreadsheet-id: abc
results:
  backend: XLSX
  workbook: out.xlsx
ai:
  provider: gemini
  role: data analyst
mail:
  username: hr@example.com
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Candidates.SpreadsheetID != "abc" {
		t.Errorf("Expected spreadsheet id abc, got %q", cfg.Candidates.SpreadsheetID)
	}
	if cfg.Results.Backend != ResultsXLSX {
		t.Errorf("Expected backend to be normalised to xlsx, got %q", cfg.Results.Backend)
	}
	if cfg.AI.Role != "data analyst" {
		t.Errorf("Expected role override, got %q", cfg.AI.Role)
	}
	if cfg.Mail.From != "hr@example.com" {
		t.Errorf("Expected from to default to username, got %q", cfg.Mail.From)
	}
	if cfg.Mail.Port != 587 || cfg.Mail.Host != "smtp.gmail.com" {
		t.Errorf("Expected mail defaults, got %s:%d", cfg.Mail.Host, cfg.Mail.Port)
	}
	if cfg.Resumes.Dir != "resumes" {
		t.Errorf("Expected default resumes dir, got %q", cfg.Resumes.Dir)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("EMAIL_USER", "sender@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("PORT", "8080")
	t.Setenv("RECRUITER_CANDIDATES_SPREADSHEET_ID", "from-env")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Mail.Username != "sender@example.com" || cfg.Mail.Password != "app-password" {
		t.Errorf("Expected mail credentials from env, got %q/%q", cfg.Mail.Username, cfg.Mail.Password)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Candidates.SpreadsheetID != "from-env" {
		t.Errorf("Expected prefixed env override, got %q", cfg.Candidates.SpreadsheetID)
	}
}

func TestLoadGeminiBaseURLFromEnv(t *testing.T) {
	t.Setenv("RECRUITER_AI_GEMINI_BASE_URL", "http://localhost:9000")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AI.Gemini.BaseURL != "http://localhost:9000" {
		t.Errorf("Expected gemini base URL from env, got %q", cfg.AI.Gemini.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing candidates sheet", mutate: func(c *Config) { c.Candidates.SpreadsheetID = "" }, wantErr: "candidates.spreadsheet-id"},
		{name: "missing results sheet", mutate: func(c *Config) { c.Results.SpreadsheetID = "" }, wantErr: "results.spreadsheet-id"},
		{name: "xlsx backend needs no sheet", mutate: func(c *Config) { c.Results.Backend = ResultsXLSX; c.Results.SpreadsheetID = "" }},
		{name: "unknown backend", mutate: func(c *Config) { c.Results.Backend = "csv" }, wantErr: "unsupported results backend"},
		{name: "vertex needs project", mutate: func(c *Config) { c.AI.Vertex.Project = "" }, wantErr: "ai.vertex.project"},
		{name: "gemini provider", mutate: func(c *Config) { c.AI.Provider = ProviderGemini; c.AI.Vertex.Project = "" }},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "llama" }, wantErr: "unsupported ai provider"},
		{name: "unknown transport", mutate: func(c *Config) { c.Mail.Transport = "pigeon" }, wantErr: "unsupported mail transport"},
		{name: "bad chunk size", mutate: func(c *Config) { c.Resumes.ChunkSize = 0 }, wantErr: "chunk-size"},
		{name: "missing credentials file", mutate: func(c *Config) { c.Google.CredentialsFile = "/nonexistent/creds.json" }, wantErr: "credentials file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
