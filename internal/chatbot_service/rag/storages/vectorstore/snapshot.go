package vectorstore

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"docuchat/internal/chatbot_service/rag/index"
)

// Sentinel errors callers can test with errors.Is.
var (
	// ErrNoCorpus means no content has been ingested yet.
	ErrNoCorpus = errors.New("no corpus has been ingested")

	// ErrNotBuilt means the current corpus has no nearest-neighbor index yet.
	ErrNotBuilt = errors.New("vector index not built")
)

const (
	manifestFile = "manifest.json"
	chunksFile   = "chunks.json"
	matrixFile   = "matrix.gob"
	indexFile    = "index.gob"
	currentFile  = "CURRENT"

	// keepVersions is how many snapshot versions survive garbage collection.
	// The previous version stays around so in-flight readers finish cleanly.
	keepVersions = 2
)

// Manifest describes one snapshot version. Model and Dimension record the
// embedding model identity so a query embedded with a different model is
// rejected instead of silently returning meaningless neighbors.
type Manifest struct {
	Version      string     `json:"version"`
	Model        string     `json:"model"`
	Dimension    int        `json:"dimension"`
	ChunkCount   int        `json:"chunk_count"`
	CreatedAt    time.Time  `json:"created_at"`
	IndexBuiltAt *time.Time `json:"index_built_at,omitempty"`
}

// Snapshot is a fully loaded version: the ordered chunk list and the flat
// index built over the matching embedding matrix.
type Snapshot struct {
	Manifest Manifest
	Chunks   []string
	Index    *index.Flat
}

// Store persists chunk/matrix/index triples as immutable versioned snapshot
// directories under a root path. A CURRENT pointer file names the active
// version and is swapped with an atomic rename, so readers never observe a
// half-written snapshot. Writes are serialized by a store-wide mutex.
type Store struct {
	root string
	mu   sync.Mutex
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create snapshot root: %w", err)
	}
	return &Store{root: dir}, nil
}

// SaveCorpus writes a new snapshot version holding the matched pair of chunk
// list and embedding matrix, then points CURRENT at it. Every call is a full
// replacement of the previously ingested corpus. The new version has no index
// yet; BuildIndex must be called before queries succeed.
func (s *Store) SaveCorpus(chunks []string, matrix [][]float32, model string) (*Manifest, error) {
	if len(chunks) != len(matrix) {
		return nil, fmt.Errorf("chunk/embedding mismatch: %d chunks but %d matrix rows", len(chunks), len(matrix))
	}

	dim := 0
	for i, row := range matrix {
		if i == 0 {
			dim = len(row)
		} else if len(row) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimension: row %d has %d values, expected %d", i, len(row), dim)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	version := fmt.Sprintf("%020d", time.Now().UnixNano())
	dir := filepath.Join(s.root, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create snapshot directory: %w", err)
	}

	manifest := Manifest{
		Version:    version,
		Model:      model,
		Dimension:  dim,
		ChunkCount: len(chunks),
		CreatedAt:  time.Now().UTC(),
	}

	if err := writeJSON(filepath.Join(dir, chunksFile), chunks); err != nil {
		return nil, err
	}
	if err := writeGob(filepath.Join(dir, matrixFile), matrix); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(dir, manifestFile), manifest); err != nil {
		return nil, err
	}

	if err := s.setCurrent(version); err != nil {
		return nil, err
	}

	s.collectGarbage(version)
	return &manifest, nil
}

// BuildIndex loads the current corpus matrix, builds the flat index over it
// and attaches it to the current snapshot version. Building is explicit:
// a freshly ingested corpus answers no queries until this has run.
func (s *Store) BuildIndex() (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.current()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, version)

	var manifest Manifest
	if err := readJSON(filepath.Join(dir, manifestFile), &manifest); err != nil {
		return nil, err
	}

	var matrix [][]float32
	if err := readGob(filepath.Join(dir, matrixFile), &matrix); err != nil {
		return nil, err
	}

	idx, err := index.Build(matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	f, err := os.CreateTemp(dir, indexFile+".tmp")
	if err != nil {
		return nil, fmt.Errorf("cannot create index file: %w", err)
	}
	if err := idx.WriteTo(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("cannot close index file: %w", err)
	}
	if err := os.Rename(f.Name(), filepath.Join(dir, indexFile)); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("cannot publish index file: %w", err)
	}

	now := time.Now().UTC()
	manifest.IndexBuiltAt = &now
	if err := writeJSON(filepath.Join(dir, manifestFile), manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// Load reads the current snapshot version: manifest, chunk list and index.
// It returns ErrNoCorpus before any ingestion and ErrNotBuilt when the
// current corpus has not been indexed. The chunk/index alignment invariant is
// verified on every load.
func (s *Store) Load() (*Snapshot, error) {
	version, err := s.current()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, version)

	var manifest Manifest
	if err := readJSON(filepath.Join(dir, manifestFile), &manifest); err != nil {
		return nil, err
	}

	if manifest.IndexBuiltAt == nil {
		return nil, fmt.Errorf("snapshot %s: %w", version, ErrNotBuilt)
	}

	var chunks []string
	if err := readJSON(filepath.Join(dir, chunksFile), &chunks); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot %s: %w", version, ErrNotBuilt)
		}
		return nil, fmt.Errorf("cannot open index file: %w", err)
	}
	defer f.Close()

	idx, err := index.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	if idx.Size() != len(chunks) {
		return nil, fmt.Errorf("snapshot %s is corrupt: index has %d rows but chunk list has %d entries", version, idx.Size(), len(chunks))
	}

	return &Snapshot{Manifest: manifest, Chunks: chunks, Index: idx}, nil
}

// current returns the version named by the CURRENT pointer.
func (s *Store) current() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, currentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCorpus
		}
		return "", fmt.Errorf("cannot read CURRENT pointer: %w", err)
	}
	return string(data), nil
}

// setCurrent atomically repoints CURRENT at version.
func (s *Store) setCurrent(version string) error {
	f, err := os.CreateTemp(s.root, currentFile+".tmp")
	if err != nil {
		return fmt.Errorf("cannot create CURRENT pointer: %w", err)
	}
	if _, err := f.WriteString(version); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("cannot write CURRENT pointer: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("cannot close CURRENT pointer: %w", err)
	}
	if err := os.Rename(f.Name(), filepath.Join(s.root, currentFile)); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("cannot publish CURRENT pointer: %w", err)
	}
	return nil
}

// collectGarbage removes all but the newest keepVersions snapshot
// directories. Removal failures are ignored; a leftover directory is
// harmless and will be retried on the next save.
func (s *Store) collectGarbage(current string) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	if len(versions) <= keepVersions {
		return
	}

	// Version names are zero-padded nanosecond timestamps, so the
	// lexicographic order is the creation order.
	sort.Strings(versions)
	for _, v := range versions[:len(versions)-keepVersions] {
		if v == current {
			continue
		}
		os.RemoveAll(filepath.Join(s.root, v))
	}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cannot parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeGob(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("cannot encode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readGob(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("cannot decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
