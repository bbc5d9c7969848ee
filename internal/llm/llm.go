package llm

import (
	"context"
	"fmt"

	"docuchat/internal/config"
)

// Client is the interface every generation model client must implement.
type Client interface {
	// Generate submits a prompt to the hosted model and returns its text
	// response. Implementations must return an error on upstream failure
	// rather than an empty answer.
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewClient is a factory that builds a generation client from configuration.
func NewClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.Gemini.Name, cfg.Gemini.APIKey)
	case "ollama":
		return NewOllama(cfg.Ollama.Name, cfg.Ollama.BaseURL)
	case "openai":
		return NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Name, cfg.OpenAI.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
