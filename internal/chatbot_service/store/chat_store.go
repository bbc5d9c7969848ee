package store

import (
	"errors"

	"docuchat/internal/models"

	"gorm.io/gorm"
)

// Sentinel errors the service layer maps to user-facing responses.
var (
	// ErrSessionNotFound means no session row matches the ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionForbidden means the session exists but belongs to a
	// different user.
	ErrSessionForbidden = errors.New("session belongs to another user")
)

// Store wraps the relational database handle for chat and document records.
type Store struct {
	DB *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// CreateSession inserts a new conversation session.
func (s *Store) CreateSession(session *models.ChatSession) error {
	return s.DB.Create(session).Error
}

// GetOwnedSession loads a session and verifies it belongs to userID.
func (s *Store) GetOwnedSession(id string, userID uint) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := s.DB.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionForbidden
	}
	return &session, nil
}

// AppendHistory inserts one durable chat message.
func (s *Store) AppendHistory(entry *models.ChatHistory) error {
	return s.DB.Create(entry).Error
}

// ListHistoryBySession returns the session's messages in chronological order.
func (s *Store) ListHistoryBySession(sessionID string) ([]models.ChatHistory, error) {
	var history []models.ChatHistory
	if err := s.DB.Where("session_id = ?", sessionID).Order("timestamp asc, id asc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// SaveDocument inserts a raw submitted document.
func (s *Store) SaveDocument(doc *models.Document) error {
	return s.DB.Create(doc).Error
}

// ListDocuments returns every stored document in submission order.
func (s *Store) ListDocuments() ([]models.Document, error) {
	var docs []models.Document
	if err := s.DB.Order("id asc").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
