package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		role Role
		want Tier
	}{
		{RoleAdmin, TierPrivate},
		{RoleHR, TierRestricted},
		{RoleManager, TierRestricted},
		{RoleUser, TierInternal},
		{Role("auditor"), TierInternal},
		{Role(""), TierInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.role))
		})
	}
}

func TestActorTier_NilActorIsPublic(t *testing.T) {
	var a *Actor
	assert.Equal(t, TierPublic, a.Tier())
}

func TestVisibilityRequiredTier(t *testing.T) {
	assert.Equal(t, TierPublic, VisibilityPublic.RequiredTier())
	assert.Equal(t, TierInternal, VisibilityInternal.RequiredTier())
	assert.Equal(t, TierRestricted, VisibilityRestricted.RequiredTier())
	assert.Equal(t, TierPrivate, VisibilityPrivate.RequiredTier())

	// Unknown levels require the highest tier rather than leaking.
	assert.Equal(t, TierPrivate, VisibilityLevel("secretish").RequiredTier())
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierPublic < TierInternal)
	assert.True(t, TierInternal < TierRestricted)
	assert.True(t, TierRestricted < TierPrivate)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("personal_mobile")
	assert.NoError(t, err)
	assert.Equal(t, FieldPersonalMobile, f)

	_, err = ParseField("favorite_color")
	assert.Error(t, err)

	_, err = ParseField("")
	assert.Error(t, err)
}
