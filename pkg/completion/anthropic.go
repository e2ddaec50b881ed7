package completion

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"mentor/pkg/logx"
)

// AnthropicClient implements Client for Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
	logger *logx.Logger
}

// NewAnthropicClient creates an Anthropic-backed completion client.
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: logx.NewLogger("anthropic-client"),
	}
}

// ModelName returns the configured model identifier.
func (c *AnthropicClient) ModelName() string {
	return c.model
}

// Complete implements the Client interface.
func (c *AnthropicClient) Complete(ctx context.Context, in Request) (Response, error) {
	maxTokens := in.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(in.Prompt),
				},
			},
		},
	}
	if in.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(in.Temperature))
	}

	c.logger.Debug("Sending completion request to %s (prompt %d chars)", c.model, len(in.Prompt))

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, logx.Wrap(err, "anthropic completion failed")
	}
	if resp == nil || len(resp.Content) == 0 {
		return Response{}, emptyResponseError("anthropic")
	}

	var text string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	if text == "" {
		return Response{}, emptyResponseError("anthropic")
	}
	return Response{Text: text}, nil
}
