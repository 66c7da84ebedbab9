package officer

import (
	id "bigoffice/pkg/domain"
)

// UnmaskCapability summarizes whether the current viewer may request an
// unmask of one masked field. It never carries the unmasked value.
type UnmaskCapability struct {
	Allowed          bool `json:"allowed"`
	RequiresMFA      bool `json:"requires_mfa"`
	RequiresApproval bool `json:"requires_approval"`
	RemainingToday   int  `json:"remaining_today"`
}

// View is a role-appropriate projection of an Officer. Absent fields were
// withheld; fields listed in MaskedFields carry redacted values.
type View struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`

	OfficeID      string `json:"office_id,omitempty"`
	DesignationID string `json:"designation_id,omitempty"`
	Grade         int    `json:"grade,omitempty"`

	PersonalMobile   *string `json:"personal_mobile,omitempty"`
	OfficePhone      *string `json:"office_phone,omitempty"`
	PersonalEmail    *string `json:"personal_email,omitempty"`
	OfficialEmail    *string `json:"official_email,omitempty"`
	NationalID       *string `json:"national_id,omitempty"`
	PassportNo       *string `json:"passport_no,omitempty"`
	TIN              *string `json:"tin,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	BloodGroup       *string `json:"blood_group,omitempty"`
	MaritalStatus    *string `json:"marital_status,omitempty"`
	PermanentAddress *string `json:"permanent_address,omitempty"`
	BankAccount      *string `json:"bank_account,omitempty"`
	Salary           *int64  `json:"salary,omitempty"`

	// Internal metadata, private tier only.
	CreatedBy        *string `json:"created_by,omitempty"`
	PhoneVisibility  *string `json:"phone_visibility,omitempty"`
	EmailVisibility  *string `json:"email_visibility,omitempty"`
	NIDVisibility    *string `json:"nid_visibility,omitempty"`
	ProfilePublished *bool   `json:"profile_published,omitempty"`

	MaskedFields []string                    `json:"masked_fields,omitempty"`
	UnmaskHints  map[string]UnmaskCapability `json:"unmask_hints,omitempty"`
}

// setField places a string value into the view slot for the field. Salary is
// carried as its numeric form when unmasked.
func (v *View) setField(field id.Field, value string, salary int64) {
	switch field {
	case id.FieldPersonalMobile:
		v.PersonalMobile = &value
	case id.FieldOfficePhone:
		v.OfficePhone = &value
	case id.FieldPersonalEmail:
		v.PersonalEmail = &value
	case id.FieldOfficialEmail:
		v.OfficialEmail = &value
	case id.FieldNationalID:
		v.NationalID = &value
	case id.FieldPassportNo:
		v.PassportNo = &value
	case id.FieldTIN:
		v.TIN = &value
	case id.FieldDateOfBirth:
		v.DateOfBirth = &value
	case id.FieldBloodGroup:
		v.BloodGroup = &value
	case id.FieldMaritalStatus:
		v.MaritalStatus = &value
	case id.FieldPermanentAddress:
		v.PermanentAddress = &value
	case id.FieldBankAccount:
		v.BankAccount = &value
	case id.FieldSalary:
		v.Salary = &salary
	}
}

// FieldValue returns the value the view exposes for a field, or false when
// the field was withheld. Test helper for asserting absence.
func (v *View) FieldValue(field id.Field) (string, bool) {
	var p *string
	switch field {
	case id.FieldPersonalMobile:
		p = v.PersonalMobile
	case id.FieldOfficePhone:
		p = v.OfficePhone
	case id.FieldPersonalEmail:
		p = v.PersonalEmail
	case id.FieldOfficialEmail:
		p = v.OfficialEmail
	case id.FieldNationalID:
		p = v.NationalID
	case id.FieldPassportNo:
		p = v.PassportNo
	case id.FieldTIN:
		p = v.TIN
	case id.FieldDateOfBirth:
		p = v.DateOfBirth
	case id.FieldBloodGroup:
		p = v.BloodGroup
	case id.FieldMaritalStatus:
		p = v.MaritalStatus
	case id.FieldPermanentAddress:
		p = v.PermanentAddress
	case id.FieldBankAccount:
		p = v.BankAccount
	}
	if p == nil {
		return "", false
	}
	return *p, true
}
