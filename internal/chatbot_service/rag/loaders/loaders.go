package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"docuchat/internal/chatbot_service/rag/interfaces"

	"github.com/gabriel-vasile/mimetype"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ForFile picks the loader for an uploaded file, sniffing the content type
// first and falling back to the file extension. Unsupported types are an
// input error surfaced to the uploader.
func ForFile(path string) (interfaces.Loader, error) {
	if mime, err := mimetype.DetectFile(path); err == nil {
		switch {
		case mime.Is("application/pdf"):
			return NewPdfLoader(), nil
		case mime.Is(docxMime):
			return NewDocxLoader(), nil
		case mime.Is("text/plain"):
			return NewTxtLoader(), nil
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPdfLoader(), nil
	case ".docx":
		return NewDocxLoader(), nil
	case ".txt", ".md":
		return NewTxtLoader(), nil
	}

	return nil, fmt.Errorf("unsupported file type: %s", filepath.Base(path))
}
