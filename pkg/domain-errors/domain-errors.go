package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_failed"
	CodeInternal           Code = "internal_error"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"

	// Field-level data security codes. PermissionDenied means the viewer lacks
	// the capability tier or field policy for a value; the record filter omits
	// the field silently, so this code only surfaces on explicit disclosure
	// paths (unmask requests, admin reads).
	// CodeQuotaExceeded: the per-day unmask request limit is spent.
	// CodeSecondFactor: missing, expired, or mismatched verification code.
	// CodeReferentialIntegrity: a referenced officer/office/designation row
	// does not exist; surfaced by stores inside a transaction.
	// CodeTransactionFailure: the engine itself failed to begin or commit;
	// handler errors pass through with their own codes after rollback.
	CodePermissionDenied     Code = "permission_denied"
	CodeQuotaExceeded        Code = "quota_exceeded"
	CodeSecondFactor         Code = "second_factor_failed"
	CodeReferentialIntegrity Code = "referential_integrity"
	CodeTransactionFailure   Code = "transaction_failure"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
