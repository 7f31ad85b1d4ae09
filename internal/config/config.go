package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the base name of the config file and the env prefix source.
	AppName = "ai-recruiter"
	// EnvPrefix prefixes every environment override, e.g. RECRUITER_SERVER_ADDR.
	EnvPrefix = "RECRUITER"
)

// Results backends.
const (
	ResultsSheets = "sheets"
	ResultsXLSX   = "xlsx"
)

// Evaluator providers.
const (
	ProviderVertexAI = "vertexai"
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
)

// Mail transports.
const (
	TransportSMTP  = "smtp"
	TransportGmail = "gmail"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Google     GoogleConfig     `mapstructure:"google"`
	Candidates CandidatesConfig `mapstructure:"candidates"`
	Results    ResultsConfig    `mapstructure:"results"`
	Resumes    ResumesConfig    `mapstructure:"resumes"`
	AI         AIConfig         `mapstructure:"ai"`
	Mail       MailConfig       `mapstructure:"mail"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials-file"`
}

type CandidatesConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheet-id"`
	// Range is an A1 range; empty means the whole first sheet.
	Range string `mapstructure:"range"`
}

type ResultsConfig struct {
	Backend       string `mapstructure:"backend"`
	SpreadsheetID string `mapstructure:"spreadsheet-id"`
	// Sheet is the tab title; empty means the first sheet.
	Sheet    string `mapstructure:"sheet"`
	Workbook string `mapstructure:"workbook"`
}

type ResumesConfig struct {
	Dir               string  `mapstructure:"dir"`
	ChunkSize         int     `mapstructure:"chunk-size"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

type AIConfig struct {
	Provider     string       `mapstructure:"provider"`
	Role         string       `mapstructure:"role"`
	MaxLogLength int          `mapstructure:"max-log-length"`
	Vertex       VertexConfig `mapstructure:"vertex"`
	Gemini       APIKeyConfig `mapstructure:"gemini"`
	OpenAI       APIKeyConfig `mapstructure:"openai"`
}

type VertexConfig struct {
	Project  string `mapstructure:"project"`
	Location string `mapstructure:"location"`
	Model    string `mapstructure:"model"`
}

type APIKeyConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
	Model      string `mapstructure:"model"`
}

type MailConfig struct {
	Transport    string `mapstructure:"transport"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	// From defaults to Username.
	From   string `mapstructure:"from"`
	Ledger string `mapstructure:"ledger"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":5000"},
		Google: GoogleConfig{CredentialsFile: "credentials.json"},
		Results: ResultsConfig{
			Backend:  ResultsSheets,
			Workbook: "results.xlsx",
		},
		Resumes: ResumesConfig{
			Dir:               "resumes",
			ChunkSize:         1 << 20,
			RequestsPerSecond: 8,
		},
		AI: AIConfig{
			Provider:     ProviderVertexAI,
			Role:         "marketing officer",
			MaxLogLength: 200,
			Vertex:       VertexConfig{Location: "us-central1", Model: "gemini-1.5-flash"},
			Gemini:       APIKeyConfig{Model: "gemini-2.5-flash"},
			OpenAI:       APIKeyConfig{BaseURL: "https://api.openai.com/v1", Model: "gpt-4-turbo"},
		},
		Mail: MailConfig{
			Transport: TransportSMTP,
			Host:      "smtp.gmail.com",
			Port:      587,
			Ledger:    "sent_emails.txt",
		},
	}
}

// SetDefaults registers DefaultConfig values on v so that env overrides and
// Unmarshal see every key.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	defaults := map[string]any{
		"server.addr":                 d.Server.Addr,
		"google.credentials-file":     d.Google.CredentialsFile,
		"candidates.spreadsheet-id":   "",
		"candidates.range":            "",
		"results.backend":             d.Results.Backend,
		"results.spreadsheet-id":      "",
		"results.sheet":               "",
		"results.workbook":            d.Results.Workbook,
		"resumes.dir":                 d.Resumes.Dir,
		"resumes.chunk-size":          d.Resumes.ChunkSize,
		"resumes.requests-per-second": d.Resumes.RequestsPerSecond,
		"ai.provider":                 d.AI.Provider,
		"ai.role":                     d.AI.Role,
		"ai.max-log-length":           d.AI.MaxLogLength,
		"ai.vertex.project":           "",
		"ai.vertex.location":          d.AI.Vertex.Location,
		"ai.vertex.model":             d.AI.Vertex.Model,
		"ai.gemini.api-key":           "",
		"ai.gemini.api-key-file":      "",
		"ai.gemini.base-url":          "",
		"ai.gemini.model":             d.AI.Gemini.Model,
		"ai.openai.api-key":           "",
		"ai.openai.api-key-file":      "",
		"ai.openai.base-url":          d.AI.OpenAI.BaseURL,
		"ai.openai.model":             d.AI.OpenAI.Model,
		"mail.transport":              d.Mail.Transport,
		"mail.host":                   d.Mail.Host,
		"mail.port":                   d.Mail.Port,
		"mail.username":               "",
		"mail.password":               "",
		"mail.password-file":          "",
		"mail.from":                   "",
		"mail.ledger":                 d.Mail.Ledger,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// legacyEnv maps config keys onto the environment variables the service has
// always honoured.
var legacyEnv = map[string]string{
	"server.addr":             "PORT",
	"google.credentials-file": "GOOGLE_APPLICATION_CREDENTIALS",
	"ai.vertex.project":       "GOOGLE_CLOUD_PROJECT",
	"ai.vertex.location":      "GOOGLE_CLOUD_LOCATION",
	"ai.gemini.api-key":       "GEMINI_API_KEY",
	"ai.openai.api-key":       "OPENAI_API_KEY",
	"mail.username":           "EMAIL_USER",
	"mail.password":           "EMAIL_PASSWORD",
}

// BindEnv enables RECRUITER_* overrides plus the legacy variable names.
func BindEnv(v *viper.Viper) error {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		prefixed := EnvPrefix + "_" + replacer.Replace(strings.ToUpper(key))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}
	return nil
}

// GetConfigDir returns the per-user config directory searched after the
// working directory.
// On Windows: %APPDATA%/AIRecruiter
// On Unix: ~/.config/AIRecruiter
func GetConfigDir() (string, error) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "AIRecruiter"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "AIRecruiter"), nil
}

// Load reads configuration into a fresh viper instance. An explicit path must
// exist; otherwise ai-recruiter.yaml is looked up in the working directory and
// the user config dir, and its absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := GetConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return Decode(v)
}

// Decode unmarshals v into a Config and normalises it.
func Decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Results.Backend = strings.ToLower(strings.TrimSpace(c.Results.Backend))
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.Mail.Transport = strings.ToLower(strings.TrimSpace(c.Mail.Transport))
	if strings.TrimSpace(c.Mail.From) == "" {
		c.Mail.From = c.Mail.Username
	}
	// PORT historically carried a bare port number.
	if addr := strings.TrimSpace(c.Server.Addr); addr != "" && !strings.Contains(addr, ":") {
		c.Server.Addr = ":" + addr
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Candidates.SpreadsheetID == "" {
		return fmt.Errorf("candidates.spreadsheet-id is required")
	}

	switch c.Results.Backend {
	case ResultsSheets:
		if c.Results.SpreadsheetID == "" {
			return fmt.Errorf("results.spreadsheet-id is required for the sheets backend")
		}
	case ResultsXLSX:
		if c.Results.Workbook == "" {
			return fmt.Errorf("results.workbook is required for the xlsx backend")
		}
	default:
		return fmt.Errorf("unsupported results backend: %q", c.Results.Backend)
	}

	if c.Resumes.Dir == "" {
		return fmt.Errorf("resumes.dir is required")
	}
	if c.Resumes.ChunkSize <= 0 {
		return fmt.Errorf("resumes.chunk-size must be positive")
	}
	if c.Resumes.RequestsPerSecond < 0 {
		return fmt.Errorf("resumes.requests-per-second must not be negative")
	}

	switch c.AI.Provider {
	case ProviderVertexAI:
		if c.AI.Vertex.Project == "" {
			return fmt.Errorf("ai.vertex.project is required for the vertexai provider")
		}
		if c.AI.Vertex.Location == "" {
			return fmt.Errorf("ai.vertex.location is required for the vertexai provider")
		}
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported ai provider: %q", c.AI.Provider)
	}

	switch c.Mail.Transport {
	case TransportSMTP:
		if c.Mail.Host == "" || c.Mail.Port <= 0 {
			return fmt.Errorf("mail.host and mail.port are required for the smtp transport")
		}
	case TransportGmail:
	default:
		return fmt.Errorf("unsupported mail transport: %q", c.Mail.Transport)
	}

	if c.Mail.Ledger == "" {
		return fmt.Errorf("mail.ledger is required")
	}

	if c.Google.CredentialsFile != "" {
		if _, err := os.Stat(c.Google.CredentialsFile); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	return nil
}
