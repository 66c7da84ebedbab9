// Package officer holds the personnel record and the record filter that
// produces role-appropriate views of it. Raw Officer structs never leave this
// package toward the HTTP layer; handlers serialize Views.
package officer

import (
	"strconv"
	"time"

	id "bigoffice/pkg/domain"
)

// Officer is the full personnel record as stored. Mutated only by HR/admin
// actors and by the transition use cases; never deleted while history rows
// reference it.
type Officer struct {
	ID       id.OfficerID `json:"id"`
	FullName string       `json:"full_name"`

	// Phone group.
	PersonalMobile string `json:"personal_mobile,omitempty"`
	OfficePhone    string `json:"office_phone,omitempty"`

	// Email group.
	PersonalEmail string `json:"personal_email,omitempty"`
	OfficialEmail string `json:"official_email,omitempty"`

	// Identifier group.
	NationalID string `json:"national_id,omitempty"`
	PassportNo string `json:"passport_no,omitempty"`
	TIN        string `json:"tin,omitempty"`

	// Personal/demographic group.
	DateOfBirth      time.Time `json:"date_of_birth,omitzero"`
	BloodGroup       string    `json:"blood_group,omitempty"`
	MaritalStatus    string    `json:"marital_status,omitempty"`
	PermanentAddress string    `json:"permanent_address,omitempty"`

	// Financial group.
	BankAccount string `json:"bank_account,omitempty"`
	Salary      int64  `json:"salary,omitempty"`

	// Current posting, kept in lockstep with the latest effective
	// transfer/promotion event.
	OfficeID      id.OfficeID      `json:"office_id"`
	DesignationID id.DesignationID `json:"designation_id"`
	Grade         int              `json:"grade"`

	// Per-record visibility settings and publication flag.
	PhoneVisibility  id.VisibilityLevel `json:"phone_visibility"`
	EmailVisibility  id.VisibilityLevel `json:"email_visibility"`
	NIDVisibility    id.VisibilityLevel `json:"nid_visibility"`
	ProfilePublished bool               `json:"profile_published"`

	CreatedBy id.UserID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldValue returns the raw value of a policy-governed field as a string.
// The second return is false when the field is empty or unknown.
func (o *Officer) FieldValue(field id.Field) (string, bool) {
	var v string
	switch field {
	case id.FieldPersonalMobile:
		v = o.PersonalMobile
	case id.FieldOfficePhone:
		v = o.OfficePhone
	case id.FieldPersonalEmail:
		v = o.PersonalEmail
	case id.FieldOfficialEmail:
		v = o.OfficialEmail
	case id.FieldNationalID:
		v = o.NationalID
	case id.FieldPassportNo:
		v = o.PassportNo
	case id.FieldTIN:
		v = o.TIN
	case id.FieldDateOfBirth:
		if !o.DateOfBirth.IsZero() {
			v = o.DateOfBirth.Format("2006-01-02")
		}
	case id.FieldBloodGroup:
		v = o.BloodGroup
	case id.FieldMaritalStatus:
		v = o.MaritalStatus
	case id.FieldPermanentAddress:
		v = o.PermanentAddress
	case id.FieldBankAccount:
		v = o.BankAccount
	case id.FieldSalary:
		if o.Salary != 0 {
			v = strconv.FormatInt(o.Salary, 10)
		}
	default:
		return "", false
	}
	return v, v != ""
}

// Clone returns an independent copy.
func (o *Officer) Clone() *Officer {
	cp := *o
	return &cp
}
