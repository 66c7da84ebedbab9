// Package unmask implements the rate-limited request/approval workflow for
// disclosing the true value of a masked field. A request is created pending,
// transitions exactly once to approved, rejected, or expired, and only an
// approved request lets its own requester read the value — through a
// synchronous, durable audit write.
package unmask

import (
	"time"

	id "bigoffice/pkg/domain"
)

// Status is the request lifecycle state. Pending is the only non-terminal
// state; a request never re-enters it.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// terminal reports whether no further transition is allowed.
func (s Status) terminal() bool {
	return s != StatusPending
}

// Request is one unmask request row. MFACodeHash holds a bcrypt hash of the
// second-factor code; the plaintext exists only in the delivery channel and
// the optional short-TTL code store.
type Request struct {
	ID               id.UnmaskRequestID `json:"request_id"`
	UserID           id.UserID          `json:"user_id"`
	OfficerID        id.OfficerID       `json:"officer_id"`
	Field            id.Field           `json:"field_name"`
	Status           Status             `json:"status"`
	RequiresMFA      bool               `json:"requires_mfa"`
	RequiresApproval bool               `json:"requires_approval"`
	MFACodeHash      string             `json:"-"`
	MFACodeExpiresAt time.Time          `json:"mfa_code_expires_at,omitzero"`
	MFAVerified      bool               `json:"mfa_verified"`
	DecidedBy        id.UserID          `json:"decided_by,omitzero"`
	DecidedAt        time.Time          `json:"decided_at,omitzero"`
	CreatedAt        time.Time          `json:"created_at"`
}

// Clone returns an independent copy.
func (r *Request) Clone() *Request {
	cp := *r
	return &cp
}
