package adapters

import (
	"context"
	"sync"
	"veo-prompt-director/application/ports/outbound"
)

type memoryKeyValueStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKeyValueStore() outbound.KeyValueStorePort {
	return &memoryKeyValueStore{values: map[string]string{}}
}

func (m *memoryKeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryKeyValueStore) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryKeyValueStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
