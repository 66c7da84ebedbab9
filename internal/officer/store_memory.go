package officer

import (
	"context"
	"maps"
	"sync"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
)

// InMemoryStore holds officers in a map for tests and database-free
// deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	officers map[id.OfficerID]*Officer
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{officers: make(map[id.OfficerID]*Officer)}
}

func (s *InMemoryStore) Create(_ context.Context, o *Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.officers[o.ID]; ok {
		return sentinel.ErrConflict
	}
	s.officers[o.ID] = o.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, officerID id.OfficerID) (*Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.officers[officerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return o.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, o *Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.officers[o.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.officers[o.ID] = o.Clone()
	return nil
}

// Snapshot implements database.Snapshotter.
func (s *InMemoryStore) Snapshot() func() {
	s.mu.Lock()
	saved := make(map[id.OfficerID]*Officer, len(s.officers))
	for k, v := range s.officers {
		saved[k] = v.Clone()
	}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.officers = make(map[id.OfficerID]*Officer, len(saved))
		maps.Copy(s.officers, saved)
		s.mu.Unlock()
	}
}
