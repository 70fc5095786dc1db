package sequence

import (
	"context"
	"sync"

	dErrors "chassisd/pkg/domain-errors"
	"chassisd/pkg/platform/sentinel"
)

// MemoryStore keeps counters in process memory. Counters do not survive a
// restart, so it serves tests and ephemeral runs; production uses the file,
// postgres or redis store.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{counters: make(map[string]int64)}
}

func (s *MemoryStore) Allocate(_ context.Context, key string, count int) (int64, error) {
	if count < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidParameter, "allocation count must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.counters[key]
	s.counters[key] = last + int64(count)
	return last + 1, nil
}

func (s *MemoryStore) Peek(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.counters[key]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	return last, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}
