package completion

import (
	"context"
	"fmt"

	"mentor/pkg/config"
)

// NewClient constructs a completion client for the configured provider.
// Requests that leave MaxTokens or Temperature unset inherit the
// configured values.
func NewClient(cfg config.CompletionConfig) (Client, error) {
	base, err := newProviderClient(cfg)
	if err != nil {
		return nil, err
	}
	return WithParams(base, cfg.MaxTokens, cfg.Temperature), nil
}

func newProviderClient(cfg config.CompletionConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		return NewGroqClient(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, cfg.Model), nil
	case config.ProviderGoogle:
		return NewGoogleClient(cfg.APIKey, cfg.Model), nil
	case config.ProviderOllama:
		return NewOllamaClient(cfg.HostURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// WithParams wraps a client so that requests with unset generation
// parameters inherit the given values. Explicitly set request fields are
// left untouched.
func WithParams(c Client, maxTokens int, temperature float32) Client {
	if maxTokens <= 0 && temperature <= 0 {
		return c
	}
	return &paramsClient{inner: c, maxTokens: maxTokens, temperature: temperature}
}

type paramsClient struct {
	inner       Client
	maxTokens   int
	temperature float32
}

func (c *paramsClient) Complete(ctx context.Context, in Request) (Response, error) {
	if in.MaxTokens <= 0 {
		in.MaxTokens = c.maxTokens
	}
	if in.Temperature <= 0 {
		in.Temperature = c.temperature
	}
	return c.inner.Complete(ctx, in)
}

func (c *paramsClient) ModelName() string {
	return c.inner.ModelName()
}
