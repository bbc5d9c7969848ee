package loaders

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"docuchat/internal/chatbot_service/rag/interfaces"
	"docuchat/internal/chatbot_service/rag/schema"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// PdfLoader implements the Loader interface for PDF files.
type PdfLoader struct{}

// NewPdfLoader creates a new PdfLoader.
func NewPdfLoader() *PdfLoader {
	return &PdfLoader{}
}

// Load extracts the plain text of every page and returns it as a single
// Document.
func (l *PdfLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("cannot extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("cannot read pdf text: %w", err)
	}

	doc := &schema.Document{
		ID:   uuid.New().String(),
		Text: buf.String(),
		Metadata: map[string]interface{}{
			schema.MetadataKeyFileName: filepath.Base(path),
		},
	}

	return []*schema.Document{doc}, nil
}

var _ interfaces.Loader = (*PdfLoader)(nil)
