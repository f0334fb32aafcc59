package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the swappable in-process Store used by tests.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]entry
}

type entry struct {
	userID int64
	exp    time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: make(map[string]entry),
	}
}

func (s *MemoryStore) Put(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	s.m[token] = entry{userID: userID, exp: time.Now().Add(ttl)}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (int64, bool, error) {
	now := time.Now()

	s.mu.RLock()
	e, ok := s.m[token]
	s.mu.RUnlock()

	if !ok {
		return 0, false, nil
	}

	if now.After(e.exp) {
		s.mu.Lock()
		delete(s.m, token)
		s.mu.Unlock()

		return 0, false, nil
	}

	return e.userID, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Touch(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()

	e, ok := s.m[token]

	if ok {
		e.exp = time.Now().Add(ttl)
		s.m[token] = e
	}

	s.mu.Unlock()

	return nil
}
