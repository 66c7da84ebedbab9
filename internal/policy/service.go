package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/platform/sentinel"
)

// Service fronts the policy store for the admin surface and for the
// resolver/unmask lookups. Stores return sentinels; the service translates
// them into coded errors exactly once.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("policy store is required")
	}
	return &Service{store: store, logger: logger}, nil
}

// Get returns the policy for a (role, field) pair.
func (s *Service) Get(ctx context.Context, role id.Role, field id.Field) (*FieldAccessPolicy, error) {
	p, err := s.store.Get(ctx, role, field)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "field access policy not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get field access policy")
	}
	return p, nil
}

// Lookup is the request-time read used by the visibility resolver and the
// unmask workflow. Unlike Get it passes sentinel.ErrNotFound through, since
// absence of a row is a meaningful decision input, not an error.
func (s *Service) Lookup(ctx context.Context, role id.Role, field id.Field) (*FieldAccessPolicy, error) {
	return s.store.Get(ctx, role, field)
}

// Upsert creates or replaces a policy row (admin operation).
func (s *Service) Upsert(ctx context.Context, p *FieldAccessPolicy) error {
	if p == nil {
		return dErrors.New(dErrors.CodeBadRequest, "policy body is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, p); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to upsert field access policy")
	}
	s.logger.InfoContext(ctx, "field access policy upserted",
		"role", p.Role,
		"field", p.Field,
		"can_view", p.CanView,
		"can_unmask", p.CanUnmask,
	)
	return nil
}

// Delete removes a policy row, returning the pair to tier-only behavior.
func (s *Service) Delete(ctx context.Context, role id.Role, field id.Field) error {
	if !role.IsValid() || !field.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "role and field are required")
	}
	if err := s.store.Delete(ctx, role, field); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "field access policy not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete field access policy")
	}
	s.logger.InfoContext(ctx, "field access policy deleted", "role", role, "field", field)
	return nil
}

// List returns all policy rows for the admin dashboard.
func (s *Service) List(ctx context.Context) ([]*FieldAccessPolicy, error) {
	policies, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list field access policies")
	}
	return policies, nil
}
