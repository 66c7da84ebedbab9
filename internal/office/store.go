package office

import (
	"context"

	id "bigoffice/pkg/domain"
)

// OfficeStore persists offices. Get returns sentinel.ErrNotFound for unknown IDs.
type OfficeStore interface {
	Create(ctx context.Context, o *Office) error
	Get(ctx context.Context, officeID id.OfficeID) (*Office, error)
	List(ctx context.Context) ([]*Office, error)
}

// DesignationStore persists designations. Get returns sentinel.ErrNotFound
// for unknown IDs.
type DesignationStore interface {
	Create(ctx context.Context, d *Designation) error
	Get(ctx context.Context, designationID id.DesignationID) (*Designation, error)
	List(ctx context.Context) ([]*Designation, error)
}
