package memory

import (
	"context"
	"testing"
)

func TestInMemory_AppendAndSnapshot(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	if err := m.Append(ctx, "s1", Turn{Question: "q1", Answer: "a1"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := m.Append(ctx, "s1", Turn{Question: "q2", Answer: "a2"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	turns, err := m.Snapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Question != "q1" || turns[1].Question != "q2" {
		t.Errorf("turns out of order: %v", turns)
	}
}

func TestInMemory_SessionsAreIsolated(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	m.Append(ctx, "s1", Turn{Question: "q", Answer: "a"})

	turns, err := m.Snapshot(ctx, "s2")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("session s2 sees %d turns from s1", len(turns))
	}
}

func TestInMemory_Clear(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	m.Append(ctx, "s1", Turn{Question: "q", Answer: "a"})

	if err := m.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	turns, _ := m.Snapshot(ctx, "s1")
	if len(turns) != 0 {
		t.Errorf("session not empty after Clear: %v", turns)
	}

	// Clearing again, or clearing an unknown session, must be a no-op.
	if err := m.Clear(ctx, "s1"); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
	if err := m.Clear(ctx, "never-seen"); err != nil {
		t.Errorf("Clear() of unknown session error = %v", err)
	}
}

func TestInMemory_ClearAll(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	m.Append(ctx, "s1", Turn{Question: "q", Answer: "a"})
	m.Append(ctx, "s2", Turn{Question: "q", Answer: "a"})

	if err := m.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	for _, id := range []string{"s1", "s2"} {
		turns, _ := m.Snapshot(ctx, id)
		if len(turns) != 0 {
			t.Errorf("session %s not empty after ClearAll", id)
		}
	}
}

func TestInMemory_SnapshotReturnsCopy(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	m.Append(ctx, "s1", Turn{Question: "q", Answer: "a"})

	turns, _ := m.Snapshot(ctx, "s1")
	turns[0].Question = "mutated"

	again, _ := m.Snapshot(ctx, "s1")
	if again[0].Question != "q" {
		t.Error("Snapshot() returned a slice aliasing internal state")
	}
}
