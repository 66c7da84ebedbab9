package unmask

import (
	"context"
	"time"

	id "bigoffice/pkg/domain"
)

// Store persists unmask requests. Get returns sentinel.ErrNotFound for
// unknown IDs. CountActiveSince counts a (user, field) pair's requests with
// status pending or approved created at or after the given instant — the
// quota input.
type Store interface {
	Insert(ctx context.Context, r *Request) error
	Get(ctx context.Context, requestID id.UnmaskRequestID) (*Request, error)
	Update(ctx context.Context, r *Request) error
	CountActiveSince(ctx context.Context, userID id.UserID, field id.Field, since time.Time) (int, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Request, error)
}
