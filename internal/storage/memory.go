package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps recent searches in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]string)}
}

// Get returns the session's recent searches.
func (s *MemoryStore) Get(_ context.Context, session string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.sessions[session]...), nil
}

// Add records text as the session's most recent search.
func (s *MemoryStore) Add(_ context.Context, session, text string) error {
	text = normalizeSearch(text)
	if text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session] = pushRecent(s.sessions[session], text, MaxRecentSearches)
	return nil
}

// Clear forgets the session's searches.
func (s *MemoryStore) Clear(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
