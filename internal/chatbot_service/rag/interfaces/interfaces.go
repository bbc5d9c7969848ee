package interfaces

import (
	"context"

	"docuchat/internal/chatbot_service/rag/schema"
)

// Loader is the interface for loading data from a source (file path or URL)
// and converting it into Document objects.
type Loader interface {
	Load(ctx context.Context, path string) ([]*schema.Document, error)
}

// Splitter is the interface for splitting documents into ordered text chunks.
// The returned chunk order determines row order in the embedding matrix, so
// implementations must be deterministic.
type Splitter interface {
	Split(ctx context.Context, docs []*schema.Document) ([]string, error)
}
