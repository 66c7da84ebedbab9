package policy

import (
	"context"

	id "bigoffice/pkg/domain"
)

// Store persists field access policies.
// Get returns sentinel.ErrNotFound when no row exists for the pair; callers
// decide whether absence means "tier decision stands" (visibility resolver)
// or "most restrictive defaults" (unmask workflow).
type Store interface {
	Get(ctx context.Context, role id.Role, field id.Field) (*FieldAccessPolicy, error)
	Upsert(ctx context.Context, p *FieldAccessPolicy) error
	Delete(ctx context.Context, role id.Role, field id.Field) error
	List(ctx context.Context) ([]*FieldAccessPolicy, error)
}
