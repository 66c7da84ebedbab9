package audit

import (
	"context"

	id "bigoffice/pkg/domain"
)

// Store persists access records. Append-only by contract: implementations
// must not expose update or delete.
type Store interface {
	Append(ctx context.Context, rec *AccessRecord) error
	ListByOfficer(ctx context.Context, officerID id.OfficerID, limit int) ([]*AccessRecord, error)
}
