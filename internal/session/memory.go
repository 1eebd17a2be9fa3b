package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and development profiles.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// LoadOrCreate returns a copy of the stored session, creating one lazily.
func (m *MemoryStore) LoadOrCreate(_ context.Context, userID int64, seed Seed) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s.Clone(), nil
	}
	now := time.Now().UTC()
	s := &Session{
		UserID:           userID,
		DisplayName:      seed.DisplayName,
		Locale:           seed.Locale,
		RegistrationTime: now,
		LastActiveTime:   now,
	}
	m.sessions[userID] = s
	return s.Clone(), nil
}

// Save replaces the stored session with a copy of s.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.UserID]; !ok {
		return fmt.Errorf("session save: user %d not found", s.UserID)
	}
	saved := s.Clone()
	saved.LastActiveTime = time.Now().UTC()
	m.sessions[s.UserID] = saved
	return nil
}
