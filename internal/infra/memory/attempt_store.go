package memory

import (
	"sync"

	"portfolio-quiz-service/internal/attempt"
)

// AttemptStore is an in-memory implementation of app.AttemptStore.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*attempt.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*attempt.Attempt),
	}
}

func (s *AttemptStore) Put(id string, a *attempt.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[id] = a
}

func (s *AttemptStore) Get(id string) (*attempt.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	return a, ok
}

func (s *AttemptStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, id)
}
