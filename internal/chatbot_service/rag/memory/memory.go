package memory

import (
	"context"
	"sync"
)

// Turn is one question/answer exchange in a conversation.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ConversationMemory holds the rolling conversational context rendered into
// prompts. It is keyed by session so concurrent callers never see each
// other's turns. Durable chat history lives in the relational store; this is
// only the prompt context and carries no persistence guarantee beyond what
// the chosen backend provides.
type ConversationMemory interface {
	// Append adds a turn to the session's ordered sequence. There is no
	// deduplication and no size limit.
	Append(ctx context.Context, sessionID string, turn Turn) error

	// Snapshot returns the session's turns in chronological order.
	Snapshot(ctx context.Context, sessionID string) ([]Turn, error)

	// Clear empties one session. Clearing an unknown session is a no-op.
	Clear(ctx context.Context, sessionID string) error

	// ClearAll empties every session.
	ClearAll(ctx context.Context) error
}

// InMemory is a mutex-guarded, process-lifetime ConversationMemory.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
}

// NewInMemory creates an empty InMemory store.
func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string][]Turn)}
}

// Append adds a turn to the session's sequence.
func (m *InMemory) Append(ctx context.Context, sessionID string, turn Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], turn)
	return nil
}

// Snapshot returns a copy of the session's turns.
func (m *InMemory) Snapshot(ctx context.Context, sessionID string) ([]Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := m.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear empties one session.
func (m *InMemory) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// ClearAll empties every session.
func (m *InMemory) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string][]Turn)
	return nil
}

var _ ConversationMemory = (*InMemory)(nil)
