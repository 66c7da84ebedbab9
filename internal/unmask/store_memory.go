package unmask

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
)

// InMemoryStore holds requests in a map for tests and database-free
// deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[id.UnmaskRequestID]*Request
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requests: make(map[id.UnmaskRequestID]*Request)}
}

func (s *InMemoryStore) Insert(_ context.Context, r *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[r.ID]; ok {
		return sentinel.ErrConflict
	}
	s.requests[r.ID] = r.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, requestID id.UnmaskRequestID) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, r *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.requests[r.ID] = r.Clone()
	return nil
}

func (s *InMemoryStore) CountActiveSince(_ context.Context, userID id.UserID, field id.Field, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.requests {
		if r.UserID != userID || r.Field != field {
			continue
		}
		if r.Status != StatusPending && r.Status != StatusApproved {
			continue
		}
		if r.CreatedAt.Before(since) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *InMemoryStore) ListPendingBefore(_ context.Context, cutoff time.Time, limit int) ([]*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Request
	for _, r := range s.requests {
		if r.Status != StatusPending || r.MFACodeExpiresAt.IsZero() {
			continue
		}
		if !r.MFACodeExpiresAt.Before(cutoff) {
			continue
		}
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MFACodeExpiresAt.Before(out[j].MFACodeExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Snapshot implements database.Snapshotter.
func (s *InMemoryStore) Snapshot() func() {
	s.mu.Lock()
	saved := make(map[id.UnmaskRequestID]*Request, len(s.requests))
	for k, v := range s.requests {
		saved[k] = v.Clone()
	}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.requests = make(map[id.UnmaskRequestID]*Request, len(saved))
		maps.Copy(s.requests, saved)
		s.mu.Unlock()
	}
}
