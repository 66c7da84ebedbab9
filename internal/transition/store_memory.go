package transition

import (
	"context"
	"sync"

	id "bigoffice/pkg/domain"
)

// InMemoryStore holds history events for tests and database-free deployments.
type InMemoryStore struct {
	mu         sync.RWMutex
	transfers  []*TransferEvent
	promotions []*PromotionEvent
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) InsertTransfer(_ context.Context, e *TransferEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.transfers = append(s.transfers, &cp)
	return nil
}

func (s *InMemoryStore) InsertPromotion(_ context.Context, e *PromotionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.promotions = append(s.promotions, &cp)
	return nil
}

func (s *InMemoryStore) ListTransfers(_ context.Context, officerID id.OfficerID) ([]*TransferEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*TransferEvent
	for _, e := range s.transfers {
		if e.OfficerID == officerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListPromotions(_ context.Context, officerID id.OfficerID) ([]*PromotionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*PromotionEvent
	for _, e := range s.promotions {
		if e.OfficerID == officerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Snapshot implements database.Snapshotter.
func (s *InMemoryStore) Snapshot() func() {
	s.mu.Lock()
	savedTransfers := make([]*TransferEvent, len(s.transfers))
	copy(savedTransfers, s.transfers)
	savedPromotions := make([]*PromotionEvent, len(s.promotions))
	copy(savedPromotions, s.promotions)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.transfers = savedTransfers
		s.promotions = savedPromotions
		s.mu.Unlock()
	}
}
