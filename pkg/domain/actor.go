package domain

// Role is the coarse authorization attribute the identity layer attaches to a
// request. The core never compares role strings directly; every permission
// check goes through the Tier mapping so a misspelled role cannot fail open.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleHR      Role = "hr"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleUser:
		return true
	}
	return false
}

// Tier orders visibility capabilities. Each tier includes everything the
// tiers below it may see: Public < Internal < Restricted < Private.
type Tier int

const (
	TierPublic Tier = iota
	TierInternal
	TierRestricted
	TierPrivate
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierInternal:
		return "internal"
	case TierRestricted:
		return "restricted"
	case TierPrivate:
		return "private"
	}
	return "unknown"
}

// roleTiers is the single role-to-capability mapping. Permission logic must
// consult this table instead of comparing role strings.
var roleTiers = map[Role]Tier{
	RoleAdmin:   TierPrivate,
	RoleHR:      TierRestricted,
	RoleManager: TierRestricted,
	RoleUser:    TierInternal,
}

// TierFor maps a role to its capability tier. Unknown roles get the lowest
// authenticated tier; they never gain restricted or private access by typo.
func TierFor(r Role) Tier {
	if t, ok := roleTiers[r]; ok {
		return t
	}
	return TierInternal
}

// Actor is the already-authenticated caller handed in by the HTTP layer.
// A nil *Actor means an anonymous viewer.
type Actor struct {
	ID       UserID
	Role     Role
	Username string
}

// Tier returns the actor's capability tier. Nil actors are public-only.
func (a *Actor) Tier() Tier {
	if a == nil {
		return TierPublic
	}
	return TierFor(a.Role)
}
