package completion

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"mentor/pkg/logx"
)

// GroqClient talks to Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	client openai.Client
	model  string
	logger *logx.Logger
}

// NewGroqClient creates a Groq-backed completion client. baseURL and
// model fall back to the standard Groq endpoint and default model when
// empty.
func NewGroqClient(apiKey, baseURL, model string) *GroqClient {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &GroqClient{
		client: client,
		model:  model,
		logger: logx.NewLogger("groq-client"),
	}
}

// ModelName returns the configured model identifier.
func (c *GroqClient) ModelName() string {
	return c.model
}

// Complete implements the Client interface using the chat completions
// endpoint with a single user message.
func (c *GroqClient) Complete(ctx context.Context, in Request) (Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(in.Prompt),
		},
	}
	if in.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(in.MaxTokens))
	}
	if in.Temperature > 0 {
		params.Temperature = openai.Float(float64(in.Temperature))
	}

	c.logger.Debug("Sending completion request to %s (prompt %d chars)", c.model, len(in.Prompt))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, logx.Wrap(err, "groq completion failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Response{}, emptyResponseError("groq")
	}
	return Response{Text: resp.Choices[0].Message.Content}, nil
}
