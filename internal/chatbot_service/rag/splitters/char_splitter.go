package splitters

import (
	"context"

	"docuchat/internal/chatbot_service/rag/interfaces"
	"docuchat/internal/chatbot_service/rag/schema"
)

// DefaultChunkSize is the character window used when none is configured.
const DefaultChunkSize = 500

// CharSplitter splits text into fixed-size, non-overlapping character
// windows. It has no semantic boundary awareness and may cut mid-word; that
// keeps splitting trivially fast and is the retrieval behavior the rest of
// the pipeline is tuned against.
type CharSplitter struct {
	ChunkSize int
}

// NewCharSplitter creates a CharSplitter. A non-positive size falls back to
// DefaultChunkSize.
func NewCharSplitter(chunkSize int) *CharSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &CharSplitter{ChunkSize: chunkSize}
}

// Split concatenates nothing and loses nothing: each document's text is cut
// into windows of at most ChunkSize bytes, left to right, and the windows of
// all documents are appended in input order. Joining the result reproduces
// the inputs exactly.
func (s *CharSplitter) Split(ctx context.Context, docs []*schema.Document) ([]string, error) {
	var chunks []string
	for _, doc := range docs {
		chunks = append(chunks, s.splitText(doc.Text)...)
	}
	return chunks, nil
}

func (s *CharSplitter) splitText(text string) []string {
	if len(text) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(text)+s.ChunkSize-1)/s.ChunkSize)
	for start := 0; start < len(text); start += s.ChunkSize {
		end := start + s.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

var _ interfaces.Splitter = (*CharSplitter)(nil)
