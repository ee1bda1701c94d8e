package repository

import (
	"context"
	"sync"
)

// MemoryKeyValue is an in-process key-value area.
type MemoryKeyValue struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKeyValue constructs an empty in-memory area.
func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{data: make(map[string][]byte)}
}

// Get returns a copy of the stored document.
func (m *MemoryKeyValue) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

// Set stores a copy of data.
func (m *MemoryKeyValue) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}
