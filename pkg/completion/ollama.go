package completion

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"mentor/pkg/logx"
)

// OllamaClient implements Client for a local Ollama server.
type OllamaClient struct {
	client *api.Client
	model  string
	logger *logx.Logger
}

// NewOllamaClient creates an Ollama-backed completion client. baseURL
// defaults to the standard local endpoint when empty.
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, logx.Wrap(err, "invalid ollama base URL")
	}
	return &OllamaClient{
		client: api.NewClient(parsed, http.DefaultClient),
		model:  model,
		logger: logx.NewLogger("ollama-client"),
	}, nil
}

// ModelName returns the configured model identifier.
func (c *OllamaClient) ModelName() string {
	return c.model
}

// Complete implements the Client interface.
func (c *OllamaClient) Complete(ctx context.Context, in Request) (Response, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "user", Content: in.Prompt},
		},
		Stream:  &stream,
		Options: map[string]any{},
	}
	if in.MaxTokens > 0 {
		req.Options["num_predict"] = in.MaxTokens
	}
	if in.Temperature > 0 {
		req.Options["temperature"] = in.Temperature
	}

	c.logger.Debug("Sending completion request to %s (prompt %d chars)", c.model, len(in.Prompt))

	var text string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		text += resp.Message.Content
		return nil
	})
	if err != nil {
		return Response{}, logx.Wrap(err, "ollama completion failed")
	}
	if text == "" {
		return Response{}, emptyResponseError("ollama")
	}
	return Response{Text: text}, nil
}
