package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOracle also serves OpenAI-compatible endpoints through baseURL.
type OpenAIOracle struct {
	client *openai.Client
	model  string
}

func NewOpenAIOracle(apiKey, model, baseURL string) (*OpenAIOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIOracle{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (o *OpenAIOracle) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &GatewayError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Provider: "openai", Err: errors.New("no choices in response")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
