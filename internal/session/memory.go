package session

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Used in tests and when no
// Redis address is configured; snapshots then last as long as the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID, field string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[snapshotKey(sessionID, field)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID, field string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[snapshotKey(sessionID, field)] = cp
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, snapshotKey(sessionID, field))
	return nil
}
