package testutil

import (
	"time"

	"github.com/google/uuid"

	"bigoffice/internal/office"
	"bigoffice/internal/officer"
	id "bigoffice/pkg/domain"
)

// TestIDs provides pre-generated IDs for deterministic test data.
var TestIDs = struct {
	UserID1       id.UserID
	UserID2       id.UserID
	OfficerID1    id.OfficerID
	OfficerID2    id.OfficerID
	OfficeID1     id.OfficeID
	OfficeID2     id.OfficeID
	DesignationID id.DesignationID
}{
	UserID1:       id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:       id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	OfficerID1:    id.OfficerID(uuid.MustParse("0f1c0000-0000-0000-0000-000000000001")),
	OfficerID2:    id.OfficerID(uuid.MustParse("0f1c0000-0000-0000-0000-000000000002")),
	OfficeID1:     id.OfficeID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	OfficeID2:     id.OfficeID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
	DesignationID: id.DesignationID(uuid.MustParse("dddd0000-0000-0000-0000-000000000001")),
}

// OfficerBuilder provides a fluent interface for building test officers.
type OfficerBuilder struct {
	officer *officer.Officer
}

// NewOfficer starts a builder with a published officer carrying typical
// contact and identifier values.
func NewOfficer() *OfficerBuilder {
	now := time.Now().UTC()
	return &OfficerBuilder{officer: &officer.Officer{
		ID:               id.OfficerID(uuid.New()),
		FullName:         "Test Officer",
		PersonalMobile:   "01712345678",
		PersonalEmail:    "test.officer@example.com",
		NationalID:       "19876543210987",
		OfficeID:         TestIDs.OfficeID1,
		DesignationID:    TestIDs.DesignationID,
		Grade:            5,
		PhoneVisibility:  id.VisibilityInternal,
		EmailVisibility:  id.VisibilityInternal,
		NIDVisibility:    id.VisibilityRestricted,
		ProfilePublished: true,
		CreatedBy:        TestIDs.UserID1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}}
}

func (b *OfficerBuilder) WithID(officerID id.OfficerID) *OfficerBuilder {
	b.officer.ID = officerID
	return b
}

func (b *OfficerBuilder) WithName(name string) *OfficerBuilder {
	b.officer.FullName = name
	return b
}

func (b *OfficerBuilder) WithOffice(officeID id.OfficeID) *OfficerBuilder {
	b.officer.OfficeID = officeID
	return b
}

func (b *OfficerBuilder) WithDesignation(designationID id.DesignationID) *OfficerBuilder {
	b.officer.DesignationID = designationID
	return b
}

func (b *OfficerBuilder) WithGrade(grade int) *OfficerBuilder {
	b.officer.Grade = grade
	return b
}

func (b *OfficerBuilder) WithPhoneVisibility(level id.VisibilityLevel) *OfficerBuilder {
	b.officer.PhoneVisibility = level
	return b
}

func (b *OfficerBuilder) Unpublished() *OfficerBuilder {
	b.officer.ProfilePublished = false
	return b
}

func (b *OfficerBuilder) Build() *officer.Officer {
	return b.officer.Clone()
}

// NewTestOffice returns an office row with a unique code.
func NewTestOffice(name string) *office.Office {
	return &office.Office{
		ID:        id.OfficeID(uuid.New()),
		Name:      name,
		Code:      uuid.NewString()[:8],
		District:  "Dhaka",
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestDesignation returns a designation row at the given grade level.
func NewTestDesignation(title string, gradeLevel int) *office.Designation {
	return &office.Designation{
		ID:         id.DesignationID(uuid.New()),
		Title:      title,
		GradeLevel: gradeLevel,
		CreatedAt:  time.Now().UTC(),
	}
}

// Actor returns an authenticated actor with the given role.
func Actor(role id.Role) *id.Actor {
	return &id.Actor{
		ID:       id.UserID(uuid.New()),
		Role:     role,
		Username: "test." + string(role),
	}
}
