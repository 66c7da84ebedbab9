package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bigoffice/pkg/domain"
)

// TestDefaultPolicies verifies the embedded seed parses and every entry is
// internally consistent. A broken seed must fail startup, not request time.
func TestDefaultPolicies(t *testing.T) {
	defaults, err := DefaultPolicies()
	require.NoError(t, err)
	require.NotEmpty(t, defaults)

	for _, p := range defaults {
		assert.NoError(t, p.Validate(), "policy %s/%s", p.Role, p.Field)
		if p.CanUnmask {
			assert.Positive(t, p.MaxRequestsPerDay,
				"unmaskable %s/%s must carry a daily quota", p.Role, p.Field)
		}
	}
}

// TestSeed_DoesNotOverwriteAdminChanges verifies re-seeding preserves rows an
// administrator already changed.
func TestSeed_DoesNotOverwriteAdminChanges(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, Seed(ctx, store))

	// Admin tightens HR's mobile quota.
	changed := &FieldAccessPolicy{
		Role: id.RoleHR, Field: id.FieldPersonalMobile,
		CanView: true, CanUnmask: true, RequiresMFA: true, MaxRequestsPerDay: 1,
	}
	require.NoError(t, store.Upsert(ctx, changed))

	require.NoError(t, Seed(ctx, store))
	got, err := store.Get(ctx, id.RoleHR, id.FieldPersonalMobile)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MaxRequestsPerDay)
}
