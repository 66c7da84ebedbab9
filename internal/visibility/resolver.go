// Package visibility is the single place that decides whether a viewer may
// see a field. It combines the field group's declared visibility level with
// the viewer's capability tier and, when provisioned, the field access policy
// table. There is deliberately exactly one resolver; every read path must go
// through it.
package visibility

import (
	"context"
	"errors"
	"log/slog"

	"bigoffice/internal/policy"
	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
)

// PolicyLookup resolves the administrative override for a (role, field) pair.
// Must return sentinel.ErrNotFound when no row exists.
type PolicyLookup interface {
	Lookup(ctx context.Context, role id.Role, field id.Field) (*policy.FieldAccessPolicy, error)
}

// Resolver answers view/hide decisions. A nil PolicyLookup means no policy
// store is provisioned and decisions are tier-only.
type Resolver struct {
	policies PolicyLookup
	logger   *slog.Logger
}

func NewResolver(policies PolicyLookup, logger *slog.Logger) *Resolver {
	return &Resolver{policies: policies, logger: logger}
}

// CanView reports whether the actor may see a field carrying the given
// declared visibility level.
//
// Decision order:
//  1. Anonymous viewers see public fields only.
//  2. The actor's tier must reach the level's required tier. Unknown levels
//     require the private tier.
//  3. If a (role, field) policy row exists, its can_view flag is ANDed with
//     the tier result. Absence of a row leaves the tier result standing.
//
// A policy store failure degrades to the tier-only decision; it can hide a
// field the policy would have allowed, never show one the tier forbids.
func (r *Resolver) CanView(ctx context.Context, actor *id.Actor, field id.Field, level id.VisibilityLevel) bool {
	if actor == nil {
		return level == id.VisibilityPublic
	}
	if actor.Tier() < level.RequiredTier() {
		return false
	}
	if r.policies == nil {
		return true
	}

	p, err := r.policies.Lookup(ctx, actor.Role, field)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.WarnContext(ctx, "policy lookup failed, using tier-only decision",
				"role", actor.Role,
				"field", field,
				"error", err,
			)
		}
		return true
	}
	return p.CanView
}
