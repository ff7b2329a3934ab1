package repository

import (
	"context"
	"sync"
)

// SlotStore is a named key-value store holding one serialized collection per
// key.  Implementations must return ErrSlotNotFound for absent keys.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemorySlots keeps slots in process memory.  It backs STORAGE_DRIVER=memory
// and the tests.
type MemorySlots struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlots constructs an empty MemorySlots.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

func (m *MemorySlots) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemorySlots) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.slots[key] = v
	return nil
}
