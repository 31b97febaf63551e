package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-quiz-service/internal/attempt"
)

// AttemptStore is a Redis-aware implementation of app.AttemptStore.
// Notes:
//   - Attempts stay in a local in-memory map; their state machine is driven
//     by a single connection and is not shared across instances.
//   - Redis marks attempt liveness with a TTL so operators can see active
//     attempts and stale markers age out on their own.
type AttemptStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	attempts map[string]*attempt.Attempt
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client:   client,
		ttl:      ttl,
		attempts: make(map[string]*attempt.Attempt),
	}
}

func (s *AttemptStore) Put(id string, a *attempt.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[id] = a
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(id), "1", s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *AttemptStore) key(id string) string {
	return "quiz:attempt:" + id
}
