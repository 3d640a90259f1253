package store

import (
	"context"
	"fmt"
	"sync"

	"codeprep/internal/common"
	"codeprep/internal/domain/model"
)

// MemoryStore is the default, in-process store. It does not survive restarts
// and is not shared across server instances; deployments running more than
// one instance must use the redis store instead.
type MemoryStore struct {
	mu    sync.RWMutex
	cases map[string][]model.TestCase
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cases: make(map[string][]model.TestCase)}
}

func (s *MemoryStore) Put(_ context.Context, id string, cases []model.TestCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cases[id]; exists {
		return fmt.Errorf("problem %s already stored: %w", id, common.ErrConflict)
	}
	// Copy so later mutation of the caller's slice cannot change the stored
	// sequence.
	stored := make([]model.TestCase, len(cases))
	copy(stored, cases)
	s.cases[id] = stored
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]model.TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cases, ok := s.cases[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := make([]model.TestCase, len(cases))
	copy(out, cases)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cases, id)
	return nil
}
