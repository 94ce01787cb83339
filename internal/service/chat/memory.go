package chat

import (
	"fmt"
	"sync"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// Memory is the append-only transcript of one session.
type Memory struct {
	mu    sync.RWMutex
	turns []chat.Turn
}

// NewMemory returns an empty transcript.
func NewMemory() *Memory {
	return &Memory{turns: make([]chat.Turn, 0, 16)}
}

// Append adds turn at the end. Only turns with an unknown role are rejected.
func (m *Memory) Append(turn chat.Turn) error {
	if !turn.Role.Valid() {
		return fmt.Errorf("invalid turn role %q", turn.Role)
	}

	m.mu.Lock()
	m.turns = append(m.turns, turn)
	m.mu.Unlock()
	return nil
}

// All returns a copy of every turn in insertion order.
func (m *Memory) All() []chat.Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make([]chat.Turn, len(m.turns))
	copy(copied, m.turns)
	return copied
}

// Len returns the number of stored turns.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}
