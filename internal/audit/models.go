// Package audit records every disclosure of a sensitive field: who saw which
// field of whose record, in what form, from where. Rows are append-only; the
// core never updates or deletes them.
package audit

import (
	"time"

	id "bigoffice/pkg/domain"
)

// AccessType distinguishes a masked read from a full unmask disclosure.
type AccessType string

const (
	AccessView   AccessType = "view"
	AccessUnmask AccessType = "unmask"
)

// AccessRecord is one disclosure. MaskedValue holds exactly what the viewer
// was shown; for AccessView that is always the masked form, never the
// original.
type AccessRecord struct {
	ID           id.AuditRecordID `json:"id"`
	UserID       id.UserID        `json:"user_id"`
	UserRole     id.Role          `json:"user_role"`
	UserName     string           `json:"user_name"`
	OfficerID    id.OfficerID     `json:"officer_id"`
	OfficerName  string           `json:"officer_name"`
	Field        id.Field         `json:"field_name"`
	MaskedValue  string           `json:"field_value_masked"`
	AccessType   AccessType       `json:"access_type"`
	AccessReason string           `json:"access_reason,omitempty"`
	IPAddress    string           `json:"ip_address,omitempty"`
	UserAgent    string           `json:"user_agent,omitempty"`
	RequestID    string           `json:"request_id,omitempty"`
	MFAVerified  bool             `json:"mfa_verified"`
	CreatedAt    time.Time        `json:"created_at"`
}
