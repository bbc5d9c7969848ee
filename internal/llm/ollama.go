package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Ollama is a generation client backed by a local Ollama server.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates a new Ollama client. baseURL defaults to the local
// Ollama endpoint when empty.
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: 300 * time.Second,
	}

	return &Ollama{
		client: ollama.NewClient(parsedURL, hc),
		model:  model,
	}, nil
}

// Generate sends the prompt as a single-turn chat and collects the response.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &ollama.ChatRequest{
		Model:  o.model,
		Stream: &stream,
		Messages: []ollama.Message{
			{Role: "user", Content: prompt},
		},
	}

	var sb strings.Builder
	err := o.client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	return sb.String(), nil
}

var _ Client = (*Ollama)(nil)
