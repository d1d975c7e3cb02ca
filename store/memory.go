package store

import (
	"bytes"
	"sync"
)

// MemoryStore keeps the collection in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	content []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.content) == 0 {
		return nil, ErrNotPresent
	}
	return bytes.Clone(m.content), nil
}

func (m *MemoryStore) Save(content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = bytes.Clone(content)
	return nil
}
