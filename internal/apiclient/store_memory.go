package apiclient

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.m[key]
	if !ok {
		return Entry{}, ErrCacheMiss
	}
	return e, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = e
	return nil
}

func (s *MemoryStore) DeleteMatching(_ context.Context, substr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.m {
		if strings.Contains(k, substr) {
			delete(s.m, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]Entry)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
