package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HuggingFaceModel is an embedding client for the Hugging Face Inference API
// feature-extraction pipeline.
type HuggingFaceModel struct {
	client  *http.Client
	model   string
	apiKey  string
	baseURL string
}

// NewHuggingFaceModel creates a new HuggingFaceModel. baseURL defaults to the
// public Inference API when empty.
func NewHuggingFaceModel(apiKey, model, baseURL string) (*HuggingFaceModel, error) {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/pipeline/feature-extraction/"
	}
	return &HuggingFaceModel{
		client:  &http.Client{Timeout: 120 * time.Second},
		model:   model,
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

// Embed generates embedding vectors for a batch of texts in one request.
func (m *HuggingFaceModel) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]interface{}{
		"inputs":  texts,
		"options": map[string]bool{"wait_for_model": true},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+m.model, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call huggingface inference api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface inference api returned status %d: %s", resp.StatusCode, string(body))
	}

	var embeddings [][]float32
	if err := json.Unmarshal(body, &embeddings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embeddings: %w", err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("huggingface returned %d embeddings for %d inputs", len(embeddings), len(texts))
	}

	return embeddings, nil
}

// Name returns the model identity recorded in vector snapshots.
func (m *HuggingFaceModel) Name() string {
	return "huggingface/" + m.model
}

var _ Model = (*HuggingFaceModel)(nil)
