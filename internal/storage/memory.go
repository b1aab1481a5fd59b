package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps payloads in process memory.
type MemorySlot struct {
	mu    sync.Mutex
	items map[string][]byte
}

var _ Slot = (*MemorySlot)(nil)

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{items: make(map[string][]byte)}
}

func (m *MemorySlot) Get(_ context.Context, name string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), p...), true, nil
}

func (m *MemorySlot) Put(_ context.Context, name string, payload []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[name] = append([]byte(nil), payload...)
	return nil
}
