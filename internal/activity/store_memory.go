package activity

import (
	"context"
	"sync"
)

// InMemoryStore keeps entries in append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, entityType, entityID string) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Entry
	for _, e := range s.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Snapshot implements database.Snapshotter.
func (s *InMemoryStore) Snapshot() func() {
	s.mu.Lock()
	saved := make([]*Entry, len(s.entries))
	copy(saved, s.entries)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.entries = saved
		s.mu.Unlock()
	}
}
