package transition

import (
	"context"

	id "bigoffice/pkg/domain"
)

// Store persists history events. Insert-only: events are never mutated.
type Store interface {
	InsertTransfer(ctx context.Context, e *TransferEvent) error
	InsertPromotion(ctx context.Context, e *PromotionEvent) error
	ListTransfers(ctx context.Context, officerID id.OfficerID) ([]*TransferEvent, error)
	ListPromotions(ctx context.Context, officerID id.OfficerID) ([]*PromotionEvent, error)
}
