package embedding

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIModel is an embedding client for the OpenAI API or any
// OpenAI-compatible endpoint.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIModel creates a new OpenAIModel. baseURL may point at a compatible
// self-hosted endpoint; when empty the official API is used.
func NewOpenAIModel(apiKey, model, baseURL string) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIModel{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Embed generates embedding vectors for a batch of texts in one request.
func (m *OpenAIModel) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := m.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(m.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get embeddings from openai: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}

	return embeddings, nil
}

// Name returns the model identity recorded in vector snapshots.
func (m *OpenAIModel) Name() string {
	return "openai/" + m.model
}

var _ Model = (*OpenAIModel)(nil)
