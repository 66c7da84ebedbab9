package officer

import (
	"bigoffice/internal/platform/privacy"
	id "bigoffice/pkg/domain"
)

// SensitivityGroup clusters fields that share one visibility decision.
type SensitivityGroup string

const (
	GroupPhone      SensitivityGroup = "phone"
	GroupEmail      SensitivityGroup = "email"
	GroupIdentifier SensitivityGroup = "identifier"
	GroupPersonal   SensitivityGroup = "personal"
	GroupFinancial  SensitivityGroup = "financial"
	GroupInternal   SensitivityGroup = "internal"
)

// groupFields assigns every policy-governed field to exactly one group.
// Internal-metadata fields (created-by, visibility settings) are not
// policy-governed fields; the filter handles them under GroupInternal.
var groupFields = map[SensitivityGroup][]id.Field{
	GroupPhone:      {id.FieldPersonalMobile, id.FieldOfficePhone},
	GroupEmail:      {id.FieldPersonalEmail, id.FieldOfficialEmail},
	GroupIdentifier: {id.FieldNationalID, id.FieldPassportNo, id.FieldTIN},
	GroupPersonal:   {id.FieldDateOfBirth, id.FieldBloodGroup, id.FieldMaritalStatus, id.FieldPermanentAddress},
	GroupFinancial:  {id.FieldBankAccount, id.FieldSalary},
}

// filterGroups is the evaluation order; deterministic output depends on it.
var filterGroups = []SensitivityGroup{
	GroupPhone, GroupEmail, GroupIdentifier, GroupPersonal, GroupFinancial,
}

// GroupFor returns the sensitivity group a field belongs to.
func GroupFor(field id.Field) SensitivityGroup {
	for g, fields := range groupFields {
		for _, f := range fields {
			if f == field {
				return g
			}
		}
	}
	return GroupInternal
}

// defaultGroupLevels documents the fallback level per group, used when the
// record carries no (or an invalid) setting for the group.
var defaultGroupLevels = map[SensitivityGroup]id.VisibilityLevel{
	GroupPhone:      id.VisibilityInternal,
	GroupEmail:      id.VisibilityInternal,
	GroupIdentifier: id.VisibilityRestricted,
	GroupPersonal:   id.VisibilityRestricted,
	GroupFinancial:  id.VisibilityRestricted,
	GroupInternal:   id.VisibilityPrivate,
}

// GroupLevel resolves the declared visibility level of a group on this
// record. Phone, email, and identifier groups carry per-record settings; the
// rest use the documented defaults. Invalid stored settings fall back to the
// group default rather than failing open.
func (o *Officer) GroupLevel(g SensitivityGroup) id.VisibilityLevel {
	var declared id.VisibilityLevel
	switch g {
	case GroupPhone:
		declared = o.PhoneVisibility
	case GroupEmail:
		declared = o.EmailVisibility
	case GroupIdentifier:
		declared = o.NIDVisibility
	}
	if declared.IsValid() {
		return declared
	}
	return defaultGroupLevels[g]
}

// maskable reports whether a group's values are redacted (rather than shown
// whole) when masking is requested.
func (g SensitivityGroup) maskable() bool {
	switch g {
	case GroupPhone, GroupEmail, GroupIdentifier:
		return true
	}
	return false
}

// MaskValue applies the group-appropriate one-way transform. Fields outside
// the maskable groups are returned unchanged.
func MaskValue(field id.Field, value string) string {
	switch GroupFor(field) {
	case GroupPhone:
		return privacy.MaskPhone(value)
	case GroupEmail:
		return privacy.MaskEmail(value)
	case GroupIdentifier:
		return privacy.MaskIdentifier(value)
	}
	return value
}
