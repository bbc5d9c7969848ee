package vectorstore

import (
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestLoad_BeforeAnyIngestion(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load()
	if !errors.Is(err, ErrNoCorpus) {
		t.Errorf("Load() error = %v, want ErrNoCorpus", err)
	}
}

func TestLoad_BeforeIndexBuild(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveCorpus([]string{"a"}, [][]float32{{1, 2}}, "test/model"); err != nil {
		t.Fatalf("SaveCorpus() error = %v", err)
	}

	_, err := s.Load()
	if !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Load() error = %v, want ErrNotBuilt", err)
	}
}

func TestBuildIndex_BeforeAnyIngestion(t *testing.T) {
	s := newTestStore(t)

	_, err := s.BuildIndex()
	if !errors.Is(err, ErrNoCorpus) {
		t.Errorf("BuildIndex() error = %v, want ErrNoCorpus", err)
	}
}

func TestSaveBuildLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	chunks := []string{"alpha", "beta", "gamma"}
	matrix := [][]float32{{0, 0}, {1, 0}, {0, 5}}

	manifest, err := s.SaveCorpus(chunks, matrix, "test/model")
	if err != nil {
		t.Fatalf("SaveCorpus() error = %v", err)
	}
	if manifest.ChunkCount != 3 || manifest.Dimension != 2 {
		t.Errorf("manifest = %+v, want 3 chunks of dimension 2", manifest)
	}

	if _, err := s.BuildIndex(); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if snap.Index.Size() != len(snap.Chunks) {
		t.Fatalf("alignment broken: index %d rows, %d chunks", snap.Index.Size(), len(snap.Chunks))
	}
	if snap.Manifest.Model != "test/model" {
		t.Errorf("manifest model = %q, want %q", snap.Manifest.Model, "test/model")
	}

	// Retrieved positions must map back to the exact source chunk text.
	results, err := snap.Index.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if snap.Chunks[results[0].Position] != "beta" {
		t.Errorf("nearest chunk = %q, want %q", snap.Chunks[results[0].Position], "beta")
	}
}

func TestSaveCorpus_FullReplacement(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveCorpus([]string{"old"}, [][]float32{{1}}, "test/model"); err != nil {
		t.Fatalf("SaveCorpus() error = %v", err)
	}
	if _, err := s.BuildIndex(); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	if _, err := s.SaveCorpus([]string{"new a", "new b"}, [][]float32{{1}, {2}}, "test/model"); err != nil {
		t.Fatalf("SaveCorpus() error = %v", err)
	}

	// The new corpus has not been indexed yet; the store must say so rather
	// than silently serving the previous generation.
	if _, err := s.Load(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("Load() after re-ingestion error = %v, want ErrNotBuilt", err)
	}

	if _, err := s.BuildIndex(); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Chunks) != 2 || snap.Chunks[0] != "new a" {
		t.Errorf("chunks = %v, previous corpus leaked through", snap.Chunks)
	}
}

func TestSaveCorpus_RejectsMismatchedPair(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveCorpus([]string{"a", "b"}, [][]float32{{1}}, "m"); err == nil {
		t.Error("expected error for chunk/matrix length mismatch, got nil")
	}

	if _, err := s.SaveCorpus([]string{"a", "b"}, [][]float32{{1, 2}, {1}}, "m"); err == nil {
		t.Error("expected error for inconsistent dimensions, got nil")
	}
}

func TestSaveCorpus_EmptyCorpus(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveCorpus(nil, nil, "m"); err != nil {
		t.Fatalf("SaveCorpus() error = %v", err)
	}
	if _, err := s.BuildIndex(); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Index.Size() != 0 {
		t.Errorf("empty corpus produced index of size %d", snap.Index.Size())
	}
}
