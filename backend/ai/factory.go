package ai

import (
	"context"
	"fmt"
	"germanlearn/backend/config"
)

// NewOracle builds the configured provider wrapped with the request timeout.
func NewOracle(ctx context.Context, cfg config.LLMConfig) (Oracle, error) {
	var base Oracle
	var err error

	switch cfg.Provider {
	case "", "gemini":
		base, err = NewGeminiOracle(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		base, err = NewOpenAIOracle(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "anthropic":
		base, err = NewAnthropicOracle(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "mock":
		base = NewMockOracle()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithTimeout(base, cfg.Timeout), nil
}
