package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiOracle calls the Gemini API through the official genai SDK.
type GeminiOracle struct {
	client *genai.Client
	model  string
}

func NewGeminiOracle(ctx context.Context, apiKey, model string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiOracle{client: client, model: model}, nil
}

func (g *GeminiOracle) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &GatewayError{Provider: "gemini", Err: err}
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &GatewayError{Provider: "gemini", Err: errors.New("empty response")}
	}
	return text, nil
}
