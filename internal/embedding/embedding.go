package embedding

import (
	"context"
	"fmt"

	"docuchat/internal/config"
)

// Model is the interface every embedding client must implement. Name reports
// the provider/model identity so vector snapshots can record which model
// produced their matrix; queries against a snapshot built by a different
// model must be rejected.
type Model interface {
	// Embed maps each input text to a fixed-dimension dense vector.
	// The returned slice is parallel to texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name returns a stable identifier such as "ollama/nomic-embed-text".
	Name() string
}

// NewModel is a factory that builds an embedding client from configuration.
func NewModel(cfg config.EmbeddingConfig) (Model, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaModel(cfg.Ollama.Name, cfg.Ollama.BaseURL)
	case "openai":
		return NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.Name, cfg.OpenAI.BaseURL)
	case "huggingface":
		return NewHuggingFaceModel(cfg.HuggingFace.APIKey, cfg.HuggingFace.Name, cfg.HuggingFace.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
