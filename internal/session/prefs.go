package session

import (
	"context"
	"errors"
	"sync"
)

var ErrNoSession = errors.New("no session")

// Preferences mirror what the browser app kept in local storage.
type Preferences struct {
	RestaurantID     string `json:"restaurantId,omitempty"`
	PrinterURL       string `json:"printerUrl,omitempty"`
	SelectedBranchID string `json:"selectedBranchId,omitempty"`
}

type PrefStore interface {
	Load(ctx context.Context, sid string) (Preferences, error)
	Save(ctx context.Context, sid string, p Preferences) error
	Ping(ctx context.Context) error
}

type MemPrefStore struct {
	mu sync.RWMutex
	m  map[string]Preferences
}

func NewMemPrefStore() *MemPrefStore {
	return &MemPrefStore{m: make(map[string]Preferences)}
}

func (s *MemPrefStore) Load(_ context.Context, sid string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[sid], nil
}

func (s *MemPrefStore) Save(_ context.Context, sid string, p Preferences) error {
	if sid == "" {
		return ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sid] = p
	return nil
}

func (s *MemPrefStore) Ping(context.Context) error { return nil }
