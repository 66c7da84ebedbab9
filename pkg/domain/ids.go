// Package domain provides type-safe identifiers and shared value types so the
// compiler prevents mixing up IDs across the personnel records modules.
package domain

import (
	"github.com/google/uuid"

	dErrors "bigoffice/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where an OfficerID is expected.
type (
	UserID           uuid.UUID
	OfficerID        uuid.UUID
	OfficeID         uuid.UUID
	DesignationID    uuid.UUID
	UnmaskRequestID  uuid.UUID
	AuditRecordID    uuid.UUID
	ActivityID       uuid.UUID
	TransferEventID  uuid.UUID
	PromotionEventID uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseOfficerID(s string) (OfficerID, error) {
	id, err := parseUUID(s, "officer ID")
	return OfficerID(id), err
}

func ParseOfficeID(s string) (OfficeID, error) {
	id, err := parseUUID(s, "office ID")
	return OfficeID(id), err
}

func ParseDesignationID(s string) (DesignationID, error) {
	id, err := parseUUID(s, "designation ID")
	return DesignationID(id), err
}

func ParseUnmaskRequestID(s string) (UnmaskRequestID, error) {
	id, err := parseUUID(s, "unmask request ID")
	return UnmaskRequestID(id), err
}

// String methods - for logging and debugging.

func (id UserID) String() string           { return uuid.UUID(id).String() }
func (id OfficerID) String() string        { return uuid.UUID(id).String() }
func (id OfficeID) String() string         { return uuid.UUID(id).String() }
func (id DesignationID) String() string    { return uuid.UUID(id).String() }
func (id UnmaskRequestID) String() string  { return uuid.UUID(id).String() }
func (id AuditRecordID) String() string    { return uuid.UUID(id).String() }
func (id ActivityID) String() string       { return uuid.UUID(id).String() }
func (id TransferEventID) String() string  { return uuid.UUID(id).String() }
func (id PromotionEventID) String() string { return uuid.UUID(id).String() }

// Text encoding - IDs travel as canonical UUID strings in JSON bodies and
// anywhere else encoding.TextMarshaler is honored. Defined types do not
// inherit the underlying uuid.UUID methods, so each delegates explicitly.

func (id UserID) MarshalText() ([]byte, error)           { return uuid.UUID(id).MarshalText() }
func (id OfficerID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id OfficeID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id DesignationID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id UnmaskRequestID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id AuditRecordID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id ActivityID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id TransferEventID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id PromotionEventID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error           { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *OfficerID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *OfficeID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DesignationID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *UnmaskRequestID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *AuditRecordID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ActivityID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TransferEventID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *PromotionEventID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id OfficerID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id OfficeID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id DesignationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UnmaskRequestID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AuditRecordID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ActivityID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id TransferEventID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id PromotionEventID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
