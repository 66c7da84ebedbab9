package domain

// VisibilityLevel gates who may see a field group on a record.
type VisibilityLevel string

const (
	VisibilityPublic     VisibilityLevel = "public"
	VisibilityInternal   VisibilityLevel = "internal"
	VisibilityRestricted VisibilityLevel = "restricted"
	VisibilityPrivate    VisibilityLevel = "private"
)

// IsValid reports whether the level is one of the four known values.
func (v VisibilityLevel) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityInternal, VisibilityRestricted, VisibilityPrivate:
		return true
	}
	return false
}

// RequiredTier returns the minimum capability tier a viewer needs for this
// level. Unknown levels map to the most restrictive tier, never the laxest.
func (v VisibilityLevel) RequiredTier() Tier {
	switch v {
	case VisibilityPublic:
		return TierPublic
	case VisibilityInternal:
		return TierInternal
	case VisibilityRestricted:
		return TierRestricted
	case VisibilityPrivate:
		return TierPrivate
	}
	return TierPrivate
}
