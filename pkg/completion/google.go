package completion

import (
	"context"

	"google.golang.org/genai"

	"mentor/pkg/logx"
)

// GoogleClient implements Client for the Gemini API. The underlying SDK
// client requires a context to construct, so it is created lazily on the
// first completion.
type GoogleClient struct {
	apiKey string
	model  string
	client *genai.Client
	logger *logx.Logger
}

// NewGoogleClient creates a Gemini-backed completion client.
func NewGoogleClient(apiKey, model string) *GoogleClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GoogleClient{
		apiKey: apiKey,
		model:  model,
		logger: logx.NewLogger("google-client"),
	}
}

// ModelName returns the configured model identifier.
func (c *GoogleClient) ModelName() string {
	return c.model
}

func (c *GoogleClient) ensureClient(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return logx.Wrap(err, "failed to create genai client")
	}
	c.client = client
	return nil
}

// Complete implements the Client interface.
func (c *GoogleClient) Complete(ctx context.Context, in Request) (Response, error) {
	if err := c.ensureClient(ctx); err != nil {
		return Response{}, err
	}

	cfg := &genai.GenerateContentConfig{}
	if in.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(in.MaxTokens)
	}
	if in.Temperature > 0 {
		temp := in.Temperature
		cfg.Temperature = &temp
	}

	c.logger.Debug("Sending completion request to %s (prompt %d chars)", c.model, len(in.Prompt))

	contents := []*genai.Content{
		genai.NewContentFromText(in.Prompt, genai.RoleUser),
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return Response{}, logx.Wrap(err, "google completion failed")
	}
	text := result.Text()
	if text == "" {
		return Response{}, emptyResponseError("google")
	}
	return Response{Text: text}, nil
}
