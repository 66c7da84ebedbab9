package audit

import (
	"context"
	"sync"

	id "bigoffice/pkg/domain"
)

// InMemoryStore keeps records in append order, newest last.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []*AccessRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, rec *AccessRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records = append(s.records, &cp)
	return nil
}

func (s *InMemoryStore) ListByOfficer(_ context.Context, officerID id.OfficerID, limit int) ([]*AccessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*AccessRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].OfficerID != officerID {
			continue
		}
		cp := *s.records[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Len reports the number of stored records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
