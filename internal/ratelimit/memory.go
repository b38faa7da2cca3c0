package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     int
	expiresAt time.Time
}

// MemoryStore is an in-process AtomicStore. Counts do not survive a restart
// and are not shared between processes.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore. A nil clock uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), now: now}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string, def int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.live(key); ok {
		return e.value, nil
	}
	return def, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value int, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

// IncrementBelow implements AtomicStore.
func (m *MemoryStore) IncrementBelow(_ context.Context, key string, limit int, ttl time.Duration) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, _ := m.live(key)
	if e.value >= limit {
		return e.value, false, nil
	}
	e.value++
	e.expiresAt = m.now().Add(ttl)
	m.entries[key] = e
	return e.value, true, nil
}

// live returns the entry for key, dropping it when expired. Callers hold mu.
func (m *MemoryStore) live(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}
