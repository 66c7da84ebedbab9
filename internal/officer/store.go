package officer

import (
	"context"

	id "bigoffice/pkg/domain"
)

// Store persists officer records. There is deliberately no Delete: officers
// with history rows are never removed.
type Store interface {
	Create(ctx context.Context, o *Officer) error
	Get(ctx context.Context, officerID id.OfficerID) (*Officer, error)
	Update(ctx context.Context, o *Officer) error
}
