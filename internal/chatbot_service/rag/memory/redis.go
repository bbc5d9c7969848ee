package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "conversation:"

// Redis is a ConversationMemory backed by Redis lists, one list per session.
// Unlike InMemory it survives process restarts and can be shared by several
// chatbot replicas.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed ConversationMemory on an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

// Append pushes the turn onto the session's list.
func (m *Redis) Append(ctx context.Context, sessionID string, turn Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("cannot marshal turn: %w", err)
	}
	if err := m.client.RPush(ctx, sessionKey(sessionID), data).Err(); err != nil {
		return fmt.Errorf("cannot append turn: %w", err)
	}
	return nil
}

// Snapshot returns the session's turns in insertion order.
func (m *Redis) Snapshot(ctx context.Context, sessionID string) ([]Turn, error) {
	entries, err := m.client.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot read session turns: %w", err)
	}

	turns := make([]Turn, 0, len(entries))
	for _, entry := range entries {
		var turn Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			return nil, fmt.Errorf("corrupt turn in session %s: %w", sessionID, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear deletes the session's list.
func (m *Redis) Clear(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("cannot clear session: %w", err)
	}
	return nil
}

// ClearAll deletes every session list.
func (m *Redis) ClearAll(ctx context.Context) error {
	iter := m.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cannot clear session %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cannot scan sessions: %w", err)
	}
	return nil
}

var _ ConversationMemory = (*Redis)(nil)
