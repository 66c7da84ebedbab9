package activity

import "context"

// Store persists activity entries. Append-only: there is no update or delete.
type Store interface {
	Append(ctx context.Context, e *Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*Entry, error)
}
