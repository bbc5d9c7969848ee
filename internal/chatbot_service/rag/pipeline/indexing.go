package pipeline

import (
	"context"
	"fmt"

	"docuchat/internal/chatbot_service/rag/interfaces"
	"docuchat/internal/chatbot_service/rag/schema"
	"docuchat/internal/chatbot_service/rag/storages/vectorstore"
	"docuchat/internal/embedding"
	"docuchat/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// embedBatchSize is how many chunks are sent to the embedding model per call.
const embedBatchSize = 64

// IndexingPipeline turns loaded documents into a persisted corpus snapshot:
// split into chunks, embed every chunk, store the matched chunk/matrix pair.
// Every run fully replaces the previous corpus; callers wanting accumulation
// must pass the combined document set.
type IndexingPipeline struct {
	splitter interfaces.Splitter
	embedder embedding.Model
	store    *vectorstore.Store
	log      *logger.Logger
}

// NewIndexingPipeline creates a new IndexingPipeline.
func NewIndexingPipeline(
	splitter interfaces.Splitter,
	embedder embedding.Model,
	store *vectorstore.Store,
	log *logger.Logger,
) *IndexingPipeline {
	return &IndexingPipeline{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// Run executes the pipeline and returns the number of chunks persisted.
func (p *IndexingPipeline) Run(ctx context.Context, docs []*schema.Document) (int, error) {
	chunks, err := p.splitter.Split(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to split documents: %w", err)
	}
	p.log.Info(fmt.Sprintf("Split %d documents into %d chunks", len(docs), len(chunks)))

	matrix, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	manifest, err := p.store.SaveCorpus(chunks, matrix, p.embedder.Name())
	if err != nil {
		return 0, fmt.Errorf("failed to persist corpus: %w", err)
	}

	p.log.Info(fmt.Sprintf("Persisted corpus snapshot %s with %d chunks", manifest.Version, manifest.ChunkCount))
	return len(chunks), nil
}

// embedChunks embeds all chunks in bounded-concurrency batches. Each batch
// writes into its own region of the matrix, so row order always matches
// chunk order regardless of completion order.
func (p *IndexingPipeline) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	matrix := make([][]float32, len(chunks))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	for start := 0; start < len(chunks); start += embedBatchSize {
		start := start
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		eg.Go(func() error {
			vectors, err := p.embedder.Embed(gCtx, chunks[start:end])
			if err != nil {
				return fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
			}
			if len(vectors) != end-start {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), end-start)
			}
			for i, v := range vectors {
				matrix[start+i] = v
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return matrix, nil
}
