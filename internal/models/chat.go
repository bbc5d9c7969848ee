package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatSession groups the messages of one conversation for one user.
type ChatSession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // UUID
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Username  string    `gorm:"size:50" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatHistory is one durable message in a conversation.
type ChatHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Username  string    `gorm:"size:50" json:"username"`
	SessionID string    `gorm:"index;size:36" json:"session_id"`
	Message   string    `gorm:"type:text" json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}

// Document is the raw source content a user submitted for indexing.
type Document struct {
	gorm.Model

	UserID   uint   `gorm:"index" json:"user_id"`
	Username string `gorm:"size:50" json:"username"`
	DocType  string `gorm:"size:20" json:"doc_type"` // "file", "text" or "url"
	Content  string `gorm:"type:longtext" json:"content"`
}

func (Document) TableName() string {
	return "documents"
}
