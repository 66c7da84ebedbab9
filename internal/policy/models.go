// Package policy holds the field access policy table: the administrative
// override layered on top of a record's declared visibility level. A policy
// row answers, for one (role, field) pair, whether the field may be viewed or
// unmasked, what the unmask workflow demands (second factor, approval), and
// how many unmask requests the role may make per day.
//
// Policies are read-only at request time; only the admin surface mutates them.
package policy

import (
	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
)

// FieldAccessPolicy is one (role, field) override row.
type FieldAccessPolicy struct {
	Role              id.Role  `yaml:"role" json:"role"`
	Field             id.Field `yaml:"field" json:"field_name"`
	CanView           bool     `yaml:"can_view" json:"can_view"`
	CanUnmask         bool     `yaml:"can_unmask" json:"can_unmask"`
	RequiresMFA       bool     `yaml:"requires_mfa" json:"requires_mfa"`
	RequiresApproval  bool     `yaml:"requires_approval" json:"requires_approval"`
	MaxRequestsPerDay int      `yaml:"max_requests_per_day" json:"max_requests_per_day"`
}

// Validate rejects rows that could never be matched or that would disable the
// quota entirely.
func (p *FieldAccessPolicy) Validate() error {
	if !p.Role.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown role in field access policy")
	}
	if !p.Field.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown field in field access policy")
	}
	if p.MaxRequestsPerDay < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "max_requests_per_day cannot be negative")
	}
	return nil
}
