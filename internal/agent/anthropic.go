package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-5"
	defaultMaxTokens      = 2048
)

type anthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewAnthropicClient talks to the Anthropic Messages API.
func NewAnthropicClient(s Settings) (Model, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	model := strings.TrimPrefix(s.Model, "anthropic/")
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &anthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(s.APIKey)),
		model:       model,
		temperature: s.Temperature,
		maxTokens:   int64(maxTokens),
	}, nil
}

func (c *anthropicClient) Name() string {
	return "anthropic:" + c.model
}

func (c *anthropicClient) Generate(ctx context.Context, p Prompt) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		},
	}
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.System}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var parts []string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
