package splitters

import (
	"context"
	"strings"
	"testing"

	"docuchat/internal/chatbot_service/rag/schema"
)

func split(t *testing.T, text string, size int) []string {
	t.Helper()
	s := NewCharSplitter(size)
	chunks, err := s.Split(context.Background(), []*schema.Document{{Text: text}})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	return chunks
}

func TestSplit_KnownWindows(t *testing.T) {
	chunks := split(t, "The quick brown fox jumps.", 10)

	want := []string{"The quick ", "brown fox ", "jumps."}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplit_Lossless(t *testing.T) {
	texts := []string{
		"",
		"a",
		"exactly10!",
		"exactly10!exactly10!",
		strings.Repeat("x", 1234),
	}

	for _, text := range texts {
		chunks := split(t, text, 10)

		if strings.Join(chunks, "") != text {
			t.Errorf("joining chunks of %q does not reproduce the input", text)
		}

		wantCount := (len(text) + 9) / 10
		if len(chunks) != wantCount {
			t.Errorf("text of length %d: got %d chunks, want %d", len(text), len(chunks), wantCount)
		}
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	chunks := split(t, "", 500)
	if len(chunks) != 0 {
		t.Errorf("empty input produced %d chunks, want 0", len(chunks))
	}
}

func TestSplit_MultipleDocumentsKeepOrder(t *testing.T) {
	s := NewCharSplitter(4)
	docs := []*schema.Document{
		{Text: "aaaabbbb"},
		{Text: "cccc"},
	}

	chunks, err := s.Split(context.Background(), docs)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	want := []string{"aaaa", "bbbb", "cccc"}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestNewCharSplitter_DefaultSize(t *testing.T) {
	s := NewCharSplitter(0)
	if s.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", s.ChunkSize, DefaultChunkSize)
	}
}
