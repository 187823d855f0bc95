package cache

import (
	"context"
	"sync"
)

// MemorySelectionStore keeps selections per process. Use RedisSelectionStore when
// several API replicas serve the same dashboard.
type MemorySelectionStore struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{sets: make(map[string]map[string]struct{})}
}

func (s *MemorySelectionStore) Replace(ctx context.Context, selectionID string, leadIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	set := make(map[string]struct{}, len(leadIDs))
	for _, id := range leadIDs {
		set[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(set) == 0 {
		delete(s.sets, selectionID)
		return nil
	}
	s.sets[selectionID] = set
	return nil
}

func (s *MemorySelectionStore) Add(ctx context.Context, selectionID, leadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[selectionID]
	if !ok {
		set = make(map[string]struct{})
		s.sets[selectionID] = set
	}
	set[leadID] = struct{}{}
	return nil
}

func (s *MemorySelectionStore) Remove(ctx context.Context, selectionID, leadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[selectionID]
	if !ok {
		return nil
	}
	delete(set, leadID)
	if len(set) == 0 {
		delete(s.sets, selectionID)
	}
	return nil
}

func (s *MemorySelectionStore) Members(ctx context.Context, selectionID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sets[selectionID]))
	for id := range s.sets[selectionID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemorySelectionStore) Clear(ctx context.Context, selectionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, selectionID)
	return nil
}
