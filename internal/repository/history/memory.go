package history

import (
	"context"
	"sync"

	"delicias-urbanas/internal/domain"
)

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() Store {
	return &memoryStore{values: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.values[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}
