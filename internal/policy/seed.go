package policy

import (
	"context"
	"errors"
	"fmt"

	_ "embed"

	"gopkg.in/yaml.v3"

	"bigoffice/pkg/platform/sentinel"
)

//go:embed policies.yaml
var defaultPoliciesYAML []byte

type seedFile struct {
	Policies []*FieldAccessPolicy `yaml:"policies"`
}

// DefaultPolicies parses the embedded policy seed. A malformed seed is a
// programming error surfaced at startup, never silently skipped.
func DefaultPolicies() ([]*FieldAccessPolicy, error) {
	var f seedFile
	if err := yaml.Unmarshal(defaultPoliciesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse embedded field policies: %w", err)
	}
	if len(f.Policies) == 0 {
		return nil, fmt.Errorf("embedded field policies: no entries")
	}
	seen := make(map[policyKey]struct{}, len(f.Policies))
	for _, p := range f.Policies {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("embedded field policy %s/%s: %w", p.Role, p.Field, err)
		}
		key := policyKey{p.Role, p.Field}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("embedded field policy %s/%s: duplicate entry", p.Role, p.Field)
		}
		seen[key] = struct{}{}
	}
	return f.Policies, nil
}

// Seed inserts the default policies for pairs that have no row yet.
// Administratively changed rows are never overwritten.
func Seed(ctx context.Context, store Store) error {
	defaults, err := DefaultPolicies()
	if err != nil {
		return err
	}
	for _, p := range defaults {
		_, err := store.Get(ctx, p.Role, p.Field)
		if err == nil {
			continue
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return fmt.Errorf("seed field policies: %w", err)
		}
		if err := store.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed field policy %s/%s: %w", p.Role, p.Field, err)
		}
	}
	return nil
}
