package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docuchat/internal/chatbot_service/rag/index"
	"docuchat/internal/chatbot_service/rag/memory"
	"docuchat/internal/chatbot_service/rag/storages/vectorstore"
	"docuchat/internal/embedding"
	"docuchat/internal/llm"
	"docuchat/pkg/logger"
)

// Sentinel errors callers can test with errors.Is. Not-ready conditions are
// reported via vectorstore.ErrNoCorpus and vectorstore.ErrNotBuilt.
var (
	// ErrModelMismatch means the configured embedding model does not match
	// the one that produced the current snapshot. Answering anyway would
	// return meaningless nearest neighbors.
	ErrModelMismatch = errors.New("embedding model does not match indexed snapshot")

	// ErrGenerate wraps failures of the hosted generation model.
	ErrGenerate = errors.New("generation failed")
)

// QAPipeline answers a question with retrieval-augmented generation: embed
// the question, search the flat index, assemble retrieved chunks and the
// conversation history into a prompt, and submit it to the generation model.
type QAPipeline struct {
	store      *vectorstore.Store
	embedder   embedding.Model
	llm        llm.Client
	topK       int
	timeout    time.Duration
	maxRetries int
	log        *logger.Logger
}

// NewQAPipeline creates a new QAPipeline. topK is how many chunks are
// retrieved per question; timeout bounds each generation attempt; maxRetries
// is how many extra attempts are made on generation failure.
func NewQAPipeline(
	store *vectorstore.Store,
	embedder embedding.Model,
	llmClient llm.Client,
	topK int,
	timeout time.Duration,
	maxRetries int,
	log *logger.Logger,
) *QAPipeline {
	if topK <= 0 {
		topK = 3
	}
	return &QAPipeline{
		store:      store,
		embedder:   embedder,
		llm:        llmClient,
		topK:       topK,
		timeout:    timeout,
		maxRetries: maxRetries,
		log:        log,
	}
}

// Run answers the question against the current snapshot, rendering history
// in chronological order before the new question. The snapshot is loaded
// fresh on every call so a rebuilt index is picked up immediately.
func (p *QAPipeline) Run(ctx context.Context, question string, history []memory.Turn) (string, error) {
	snap, err := p.store.Load()
	if err != nil {
		return "", err
	}

	if snap.Manifest.Model != p.embedder.Name() {
		return "", fmt.Errorf("%w: snapshot built with %q, querying with %q",
			ErrModelMismatch, snap.Manifest.Model, p.embedder.Name())
	}

	vectors, err := p.embedder.Embed(ctx, []string{question})
	if err != nil || len(vectors) == 0 {
		return "", fmt.Errorf("failed to embed question: %w", err)
	}
	if snap.Manifest.Dimension != 0 && len(vectors[0]) != snap.Manifest.Dimension {
		return "", fmt.Errorf("%w: question embedded to %d dimensions, snapshot has %d",
			ErrModelMismatch, len(vectors[0]), snap.Manifest.Dimension)
	}

	results, err := snap.Index.Search(vectors[0], p.topK)
	if err != nil {
		return "", fmt.Errorf("index search failed: %w", err)
	}

	contextBlock := p.buildContext(snap.Chunks, results)
	prompt := p.buildPrompt(contextBlock, history, question)

	answer, err := p.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// buildContext joins the retrieved chunk texts, nearest first, skipping any
// position outside the chunk list.
func (p *QAPipeline) buildContext(chunks []string, results []index.Result) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Position < 0 || r.Position >= len(chunks) {
			continue
		}
		texts = append(texts, chunks[r.Position])
	}
	return strings.Join(texts, "\n")
}

// buildPrompt assembles the fixed system instruction, the retrieved context
// block, the rendered history and the new question with an answer cue.
func (p *QAPipeline) buildPrompt(contextBlock string, history []memory.Turn, question string) string {
	var sb strings.Builder

	sb.WriteString("You are a helpful assistant.\nContext:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\n")

	for _, turn := range history {
		sb.WriteString("User: ")
		sb.WriteString(turn.Question)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(turn.Answer)
		sb.WriteString("\n")
	}

	sb.WriteString("\nUser: ")
	sb.WriteString(question)
	sb.WriteString("\nAssistant:")

	return sb.String()
}

// generate calls the hosted model with a bounded timeout per attempt and a
// bounded number of retries.
func (p *QAPipeline) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if p.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.timeout)
		}

		answer, err := p.llm.Generate(attemptCtx, prompt)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return answer, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		p.log.Warn(fmt.Sprintf("Generation attempt %d failed: %v", attempt+1, err))
	}

	return "", fmt.Errorf("%w: %v", ErrGenerate, lastErr)
}
