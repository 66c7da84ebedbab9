package policy

import (
	"context"
	"sort"
	"sync"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
)

type policyKey struct {
	role  id.Role
	field id.Field
}

// InMemoryStore holds policies in a map. Used by tests and database-free
// deployments; reads take the shared lock only briefly.
type InMemoryStore struct {
	mu       sync.RWMutex
	policies map[policyKey]*FieldAccessPolicy
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{policies: make(map[policyKey]*FieldAccessPolicy)}
}

func (s *InMemoryStore) Get(_ context.Context, role id.Role, field id.Field) (*FieldAccessPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[policyKey{role, field}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, p *FieldAccessPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.policies[policyKey{p.Role, p.Field}] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, role id.Role, field id.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := policyKey{role, field}
	if _, ok := s.policies[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.policies, key)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*FieldAccessPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*FieldAccessPolicy, 0, len(s.policies))
	for _, p := range s.policies {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Field < out[j].Field
	})
	return out, nil
}
