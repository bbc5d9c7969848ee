package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docuchat/internal/chatbot_service/rag/interfaces"
	"docuchat/internal/chatbot_service/rag/schema"

	"baliance.com/gooxml/document"
	"github.com/google/uuid"
)

// DocxLoader implements the Loader interface for Word (.docx) files.
type DocxLoader struct{}

// NewDocxLoader creates a new DocxLoader.
func NewDocxLoader() *DocxLoader {
	return &DocxLoader{}
}

// Load extracts the text of every paragraph and returns it as a single
// Document, one line per paragraph.
func (l *DocxLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open docx: %w", err)
	}

	var textBuilder strings.Builder
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs() {
			textBuilder.WriteString(r.Text())
		}
		textBuilder.WriteString("\n")
	}

	out := &schema.Document{
		ID:   uuid.New().String(),
		Text: textBuilder.String(),
		Metadata: map[string]interface{}{
			schema.MetadataKeyFileName: filepath.Base(path),
		},
	}

	return []*schema.Document{out}, nil
}

var _ interfaces.Loader = (*DocxLoader)(nil)
