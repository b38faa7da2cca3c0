// Package sessions keeps each user's quiz session between requests.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/quizgen/internal/quiz"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 2 * time.Hour

// Store holds one quiz session per user id.
type Store interface {
	// Get returns the user's session, or nil if none exists.
	Get(ctx context.Context, id string) (*quiz.Session, error)

	// Set replaces the user's session.
	Set(ctx context.Context, id string, s *quiz.Session) error

	// Clear removes the user's session. Clearing a missing session is not
	// an error.
	Clear(ctx context.Context, id string) error
}

type memoryEntry struct {
	data      quiz.SessionData
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Each Get or Set extends the
// session's lifetime by the TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns a MemoryStore. A non-positive ttl uses DefaultTTL
// and a nil clock uses time.Now.
func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: now}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id string) (*quiz.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	now := m.now()
	if !now.Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, nil
	}
	e.expiresAt = now.Add(m.ttl)
	m.entries[id] = e
	return quiz.Restore(e.data)
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, id string, s *quiz.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = memoryEntry{data: s.Snapshot(), expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// Len returns the number of live sessions, dropping expired ones.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
	return len(m.entries)
}
