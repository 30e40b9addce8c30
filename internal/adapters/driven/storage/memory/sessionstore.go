// Package memory provides in-memory store implementations, used in tests
// and when persistence is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.SessionRecord),
	}
}

// Save stores or updates a session record.
func (s *SessionStore) Save(_ context.Context, record domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[record.Name] = record
	return nil
}

// Get retrieves a session record by name.
func (s *SessionStore) Get(_ context.Context, name string) (*domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.sessions[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// Delete removes a session record.
func (s *SessionStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, name)
	return nil
}

// List returns all persisted session records.
func (s *SessionStore) List(_ context.Context) ([]domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SessionRecord, 0, len(s.sessions))
	for _, record := range s.sessions {
		result = append(result, record)
	}
	return result, nil
}
