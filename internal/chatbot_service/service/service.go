package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docuchat/internal/chatbot_service/rag/loaders"
	"docuchat/internal/chatbot_service/rag/memory"
	"docuchat/internal/chatbot_service/rag/pipeline"
	"docuchat/internal/chatbot_service/rag/schema"
	"docuchat/internal/chatbot_service/rag/storages/vectorstore"
	"docuchat/internal/chatbot_service/store"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/google/uuid"
)

// ErrNoContent means an ingestion request carried no files, text or URL.
var ErrNoContent = errors.New("no input provided")

// UploadedFile is one file already spooled to local disk by the API layer.
type UploadedFile struct {
	Path string // temp file location
	Name string // original file name
}

// IngestInput is the combined content of one ingestion request.
type IngestInput struct {
	Files      []UploadedFile
	PlainText  string
	WebsiteURL string
}

// Service orchestrates ingestion, index building and question answering.
// Each ingestion call fully replaces the retrievable corpus; document rows
// in the relational store accumulate as a submission log regardless.
type Service struct {
	store         *store.Store
	vectors       *vectorstore.Store
	indexing      *pipeline.IndexingPipeline
	qa            *pipeline.QAPipeline
	memory        memory.ConversationMemory
	maxCrawlPages int
	log           *logger.Logger
}

// NewService creates a new Service.
func NewService(
	s *store.Store,
	vectors *vectorstore.Store,
	indexing *pipeline.IndexingPipeline,
	qa *pipeline.QAPipeline,
	mem memory.ConversationMemory,
	maxCrawlPages int,
	log *logger.Logger,
) *Service {
	return &Service{
		store:         s,
		vectors:       vectors,
		indexing:      indexing,
		qa:            qa,
		memory:        mem,
		maxCrawlPages: maxCrawlPages,
		log:           log,
	}
}

// Ingest extracts text from every submitted source, records the submissions
// and replaces the corpus with the combined content. The new corpus answers
// no questions until BuildIndex has run.
func (s *Service) Ingest(ctx context.Context, userID uint, username string, in IngestInput) (int, error) {
	if len(in.Files) == 0 && in.PlainText == "" && in.WebsiteURL == "" {
		return 0, ErrNoContent
	}

	var docs []*schema.Document

	for _, file := range in.Files {
		loader, err := loaders.ForFile(file.Path)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", file.Name, err)
		}
		loaded, err := loader.Load(ctx, file.Path)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", file.Name, err)
		}
		for _, doc := range loaded {
			doc.Metadata[schema.MetadataKeyFileName] = file.Name
			s.recordDocument(userID, username, "file", doc.Text)
		}
		docs = append(docs, loaded...)
	}

	if in.PlainText != "" {
		docs = append(docs, &schema.Document{
			ID:   uuid.New().String(),
			Text: in.PlainText,
		})
		s.recordDocument(userID, username, "text", in.PlainText)
	}

	if in.WebsiteURL != "" {
		loaded, err := loaders.NewWebLoader(s.maxCrawlPages).Load(ctx, in.WebsiteURL)
		if err != nil {
			return 0, fmt.Errorf("failed to crawl %s: %w", in.WebsiteURL, err)
		}
		docs = append(docs, loaded...)
		s.recordDocument(userID, username, "url", in.WebsiteURL)
	}

	return s.indexing.Run(ctx, docs)
}

// recordDocument keeps the submission log. A failed insert does not abort the
// ingestion; the corpus is the authoritative artifact.
func (s *Service) recordDocument(userID uint, username, docType, content string) {
	doc := &models.Document{
		UserID:   userID,
		Username: username,
		DocType:  docType,
		Content:  content,
	}
	if err := s.store.SaveDocument(doc); err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to record submitted document")
	}
}

// BuildIndex builds the nearest-neighbor index over the current corpus.
func (s *Service) BuildIndex(ctx context.Context) (*vectorstore.Manifest, error) {
	return s.vectors.BuildIndex()
}

// Ask answers a question within a conversation session. An empty sessionID
// starts a new session owned by the caller. The answer is appended both to
// the session's prompt memory and to the durable chat history.
func (s *Service) Ask(ctx context.Context, userID uint, username, sessionID, question string) (string, string, error) {
	if sessionID == "" {
		session := &models.ChatSession{
			ID:        uuid.New().String(),
			UserID:    userID,
			Username:  username,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.CreateSession(session); err != nil {
			return "", "", fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = session.ID
	} else {
		if _, err := s.store.GetOwnedSession(sessionID, userID); err != nil {
			return "", "", err
		}
	}

	history, err := s.memory.Snapshot(ctx, sessionID)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to read conversation memory")
		history = nil
	}

	answer, err := s.qa.Run(ctx, question, history)
	if err != nil {
		return "", sessionID, err
	}

	if err := s.memory.Append(ctx, sessionID, memory.Turn{Question: question, Answer: answer}); err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to append conversation memory")
	}

	entry := &models.ChatHistory{
		UserID:    userID,
		Username:  username,
		SessionID: sessionID,
		Message:   fmt.Sprintf("User: %s\nAssistant: %s", question, answer),
		Timestamp: time.Now().UTC(),
	}
	if err := s.store.AppendHistory(entry); err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to store chat history")
	}

	return answer, sessionID, nil
}

// SessionChats returns the durable history of a session the caller owns.
func (s *Service) SessionChats(ctx context.Context, userID uint, sessionID string) ([]models.ChatHistory, error) {
	if _, err := s.store.GetOwnedSession(sessionID, userID); err != nil {
		return nil, err
	}
	return s.store.ListHistoryBySession(sessionID)
}

// ClearMemory empties the prompt memory of one session, or of every session
// when sessionID is empty. Durable chat history is untouched.
func (s *Service) ClearMemory(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return s.memory.ClearAll(ctx)
	}
	return s.memory.Clear(ctx, sessionID)
}
