package office

import (
	"context"
	"maps"
	"sort"
	"sync"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
)

// InMemoryOfficeStore holds offices in a map for tests and database-free
// deployments.
type InMemoryOfficeStore struct {
	mu      sync.RWMutex
	offices map[id.OfficeID]*Office
}

func NewInMemoryOfficeStore() *InMemoryOfficeStore {
	return &InMemoryOfficeStore{offices: make(map[id.OfficeID]*Office)}
}

func (s *InMemoryOfficeStore) Create(_ context.Context, o *Office) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offices[o.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *o
	s.offices[o.ID] = &cp
	return nil
}

func (s *InMemoryOfficeStore) Get(_ context.Context, officeID id.OfficeID) (*Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offices[officeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *InMemoryOfficeStore) List(_ context.Context) ([]*Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Office, 0, len(s.offices))
	for _, o := range s.offices {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Snapshot implements database.Snapshotter.
func (s *InMemoryOfficeStore) Snapshot() func() {
	s.mu.Lock()
	saved := make(map[id.OfficeID]*Office, len(s.offices))
	for k, v := range s.offices {
		cp := *v
		saved[k] = &cp
	}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.offices = make(map[id.OfficeID]*Office, len(saved))
		maps.Copy(s.offices, saved)
		s.mu.Unlock()
	}
}

// InMemoryDesignationStore holds designations in a map.
type InMemoryDesignationStore struct {
	mu           sync.RWMutex
	designations map[id.DesignationID]*Designation
}

func NewInMemoryDesignationStore() *InMemoryDesignationStore {
	return &InMemoryDesignationStore{designations: make(map[id.DesignationID]*Designation)}
}

func (s *InMemoryDesignationStore) Create(_ context.Context, d *Designation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.designations[d.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *d
	s.designations[d.ID] = &cp
	return nil
}

func (s *InMemoryDesignationStore) Get(_ context.Context, designationID id.DesignationID) (*Designation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.designations[designationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *InMemoryDesignationStore) List(_ context.Context) ([]*Designation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Designation, 0, len(s.designations))
	for _, d := range s.designations {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GradeLevel < out[j].GradeLevel })
	return out, nil
}

// Snapshot implements database.Snapshotter.
func (s *InMemoryDesignationStore) Snapshot() func() {
	s.mu.Lock()
	saved := make(map[id.DesignationID]*Designation, len(s.designations))
	for k, v := range s.designations {
		cp := *v
		saved[k] = &cp
	}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.designations = make(map[id.DesignationID]*Designation, len(saved))
		maps.Copy(s.designations, saved)
		s.mu.Unlock()
	}
}
