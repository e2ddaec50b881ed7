// Package config provides configuration loading and validation for the
// mentoring service.
//
// Configuration comes from a YAML file plus environment variables for
// secrets (API keys and content-service credentials). The loaded Config is
// returned by value so callers cannot mutate shared state; secrets are
// resolved at load time and never written back to disk.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Completion provider names.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderOllama    = "ollama"
)

// Default endpoints and tunables.
const (
	DefaultListenAddr      = ":8080"
	DefaultGroqBaseURL     = "https://api.groq.com/openai/v1"
	DefaultGroqModel       = "llama-3.3-70b-versatile"
	DefaultOllamaHost      = "http://localhost:11434"
	DefaultRAGTimeout      = 10 * time.Second
	DefaultAuthTimeout     = 30 * time.Second
	DefaultContentTimeout  = 60 * time.Second
	DefaultMaxTokens       = 1200
	DefaultTemperature     = 0.7
	DefaultActionLogDir    = "logs/actions"
	DefaultActionLogDriver = "jsonl"
)

// Environment variables consulted for secrets.
const (
	EnvCompletionAPIKey = "MENTOR_COMPLETION_API_KEY"
	EnvContentUsername  = "MENTOR_CONTENT_USERNAME"
	EnvContentPassword  = "MENTOR_CONTENT_PASSWORD"
)

// Config is the top-level service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	RAG        RAGConfig        `yaml:"rag"`
	Completion CompletionConfig `yaml:"completion"`
	Content    ContentConfig    `yaml:"content"`
	ActionLog  ActionLogConfig  `yaml:"action_log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// RAGConfig configures the knowledge retrieval upstream.
type RAGConfig struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CompletionConfig configures the completion upstream.
type CompletionConfig struct {
	Provider    string  `yaml:"provider"` // groq | anthropic | google | ollama
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"` // OpenAI-compatible endpoint for the groq provider
	HostURL     string  `yaml:"host_url"` // Ollama server URL
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	APIKey      string  `yaml:"-"` // From MENTOR_COMPLETION_API_KEY, never from file
}

// ContentConfig configures the authenticated content-service upstream.
type ContentConfig struct {
	BaseURL     string        `yaml:"base_url"`
	AuthTimeout time.Duration `yaml:"auth_timeout"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	Username    string        `yaml:"-"` // From MENTOR_CONTENT_USERNAME
	Password    string        `yaml:"-"` // From MENTOR_CONTENT_PASSWORD
}

// ActionLogConfig configures the action-log sink.
type ActionLogConfig struct {
	Driver string `yaml:"driver"` // jsonl | sqlite | none
	Dir    string `yaml:"dir"`    // jsonl driver: log directory
	Path   string `yaml:"path"`   // sqlite driver: database file
}

// MetricsConfig configures the optional Prometheus aggregation service.
type MetricsConfig struct {
	PrometheusURL string `yaml:"prometheus_url"`
}

// LoadConfig reads the YAML file at path, applies defaults, resolves
// secrets from the environment, and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.resolveSecrets()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.RAG.Timeout <= 0 {
		c.RAG.Timeout = DefaultRAGTimeout
	}
	if c.Completion.Provider == "" {
		c.Completion.Provider = ProviderGroq
	}
	if c.Completion.Model == "" && c.Completion.Provider == ProviderGroq {
		c.Completion.Model = DefaultGroqModel
	}
	if c.Completion.BaseURL == "" {
		c.Completion.BaseURL = DefaultGroqBaseURL
	}
	if c.Completion.HostURL == "" {
		c.Completion.HostURL = DefaultOllamaHost
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = DefaultMaxTokens
	}
	if c.Completion.Temperature <= 0 {
		c.Completion.Temperature = DefaultTemperature
	}
	if c.Content.AuthTimeout <= 0 {
		c.Content.AuthTimeout = DefaultAuthTimeout
	}
	if c.Content.CallTimeout <= 0 {
		c.Content.CallTimeout = DefaultContentTimeout
	}
	if c.ActionLog.Driver == "" {
		c.ActionLog.Driver = DefaultActionLogDriver
	}
	if c.ActionLog.Dir == "" {
		c.ActionLog.Dir = DefaultActionLogDir
	}
}

func (c *Config) resolveSecrets() {
	if key := os.Getenv(EnvCompletionAPIKey); key != "" {
		c.Completion.APIKey = key
	}
	if user := os.Getenv(EnvContentUsername); user != "" {
		c.Content.Username = user
	}
	if pass := os.Getenv(EnvContentPassword); pass != "" {
		c.Content.Password = pass
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.RAG.APIURL == "" {
		return fmt.Errorf("rag.api_url cannot be empty")
	}
	if err := c.Completion.Validate(); err != nil {
		return err
	}
	switch c.ActionLog.Driver {
	case "jsonl", "sqlite", "none":
	default:
		return fmt.Errorf("action_log.driver must be jsonl, sqlite, or none, got %q", c.ActionLog.Driver)
	}
	if c.ActionLog.Driver == "sqlite" && c.ActionLog.Path == "" {
		return fmt.Errorf("action_log.path required for sqlite driver")
	}
	return nil
}

// Validate validates the completion configuration.
func (c *CompletionConfig) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderAnthropic, ProviderGoogle:
		if c.APIKey == "" {
			return fmt.Errorf("completion provider %s requires %s", c.Provider, EnvCompletionAPIKey)
		}
	case ProviderOllama:
		// Local runtime, no key.
	default:
		return fmt.Errorf("unknown completion provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("completion.model cannot be empty")
	}
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("completion.temperature must be between 0.0 and 2.0")
	}
	return nil
}
