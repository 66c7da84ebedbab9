package domain

import dErrors "bigoffice/pkg/domain-errors"

// Field names a single policy-governed profile attribute on an officer
// record. Field access policies and unmask requests are keyed by these names.
type Field string

const (
	FieldPersonalMobile   Field = "personal_mobile"
	FieldOfficePhone      Field = "office_phone"
	FieldPersonalEmail    Field = "personal_email"
	FieldOfficialEmail    Field = "official_email"
	FieldNationalID       Field = "national_id"
	FieldPassportNo       Field = "passport_no"
	FieldTIN              Field = "tin"
	FieldDateOfBirth      Field = "date_of_birth"
	FieldBloodGroup       Field = "blood_group"
	FieldMaritalStatus    Field = "marital_status"
	FieldPermanentAddress Field = "permanent_address"
	FieldBankAccount      Field = "bank_account"
	FieldSalary           Field = "salary"
)

var knownFields = map[Field]struct{}{
	FieldPersonalMobile:   {},
	FieldOfficePhone:      {},
	FieldPersonalEmail:    {},
	FieldOfficialEmail:    {},
	FieldNationalID:       {},
	FieldPassportNo:       {},
	FieldTIN:              {},
	FieldDateOfBirth:      {},
	FieldBloodGroup:       {},
	FieldMaritalStatus:    {},
	FieldPermanentAddress: {},
	FieldBankAccount:      {},
	FieldSalary:           {},
}

// IsValid reports whether the field is a known policy-governed attribute.
func (f Field) IsValid() bool {
	_, ok := knownFields[f]
	return ok
}

func (f Field) String() string { return string(f) }

// ParseField validates a field name at a trust boundary.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !f.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown field name")
	}
	return f, nil
}
