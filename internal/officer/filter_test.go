package officer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigoffice/internal/audit"
	"bigoffice/internal/policy"
	"bigoffice/internal/visibility"
	id "bigoffice/pkg/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleOfficer() *Officer {
	return &Officer{
		ID:               id.OfficerID(uuid.New()),
		FullName:         "Officer Karim",
		PersonalMobile:   "01712345678",
		OfficePhone:      "029556677",
		PersonalEmail:    "karim.personal@example.com",
		OfficialEmail:    "karim@records.gov.bd",
		NationalID:       "19876543210987",
		PassportNo:       "BP1234567",
		TIN:              "123456789012",
		DateOfBirth:      time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC),
		BloodGroup:       "O+",
		MaritalStatus:    "married",
		PermanentAddress: "House 7, Road 2, Dhanmondi, Dhaka",
		BankAccount:      "0012345678901",
		Salary:           85000,
		OfficeID:         id.OfficeID(uuid.New()),
		DesignationID:    id.DesignationID(uuid.New()),
		Grade:            6,
		PhoneVisibility:  id.VisibilityInternal,
		EmailVisibility:  id.VisibilityInternal,
		NIDVisibility:    id.VisibilityRestricted,
		ProfilePublished: true,
		CreatedBy:        id.UserID(uuid.New()),
	}
}

func actorWith(role id.Role) *id.Actor {
	return &id.Actor{ID: id.UserID(uuid.New()), Role: role, Username: "viewer"}
}

func newFilter(t *testing.T, opts ...FilterServiceOption) *FilterService {
	t.Helper()
	resolver := visibility.NewResolver(nil, testLogger())
	return NewFilterService(resolver, testLogger(), opts...)
}

// TestFilter_RestrictedPhoneHiddenFromUser is the core tier scenario: a
// record with phone_visibility=restricted must not expose the mobile number
// to the plain user role, however lax the record's other settings are.
func TestFilter_RestrictedPhoneHiddenFromUser(t *testing.T) {
	svc := newFilter(t)
	o := sampleOfficer()
	o.PhoneVisibility = id.VisibilityRestricted

	view := svc.Filter(context.Background(), o, actorWith(id.RoleUser), FilterOptions{Mask: true})
	require.NotNil(t, view)

	_, present := view.FieldValue(id.FieldPersonalMobile)
	assert.False(t, present, "restricted phone must be absent for role user")
	_, present = view.FieldValue(id.FieldOfficePhone)
	assert.False(t, present)
}

// TestFilter_HRSeesMaskedPhone verifies the masked form is shown and the
// original digits never appear anywhere in the serialized response.
func TestFilter_HRSeesMaskedPhone(t *testing.T) {
	svc := newFilter(t)
	o := sampleOfficer()
	o.PhoneVisibility = id.VisibilityRestricted

	view := svc.Filter(context.Background(), o, actorWith(id.RoleHR), FilterOptions{Mask: true})
	require.NotNil(t, view)

	require.NotNil(t, view.PersonalMobile)
	assert.Equal(t, "017*****678", *view.PersonalMobile)
	assert.Contains(t, view.MaskedFields, "personal_mobile")

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "01712345678", "original value must never appear in the response")
	assert.NotContains(t, string(raw), "19876543210987")
}

// TestFilter_UnpublishedHiddenFromAnonymous verifies rule one: the whole
// record disappears for anonymous viewers when unpublished.
func TestFilter_UnpublishedHiddenFromAnonymous(t *testing.T) {
	svc := newFilter(t)
	o := sampleOfficer()
	o.ProfilePublished = false

	assert.Nil(t, svc.Filter(context.Background(), o, nil, FilterOptions{Mask: true}))
	assert.NotNil(t, svc.Filter(context.Background(), o, actorWith(id.RoleUser), FilterOptions{Mask: true}),
		"authenticated viewers still get the filtered record")
}

// TestFilter_AnonymousSeesPublicOnly verifies anonymous viewers of a
// published profile get identity fields but nothing sensitive.
func TestFilter_AnonymousSeesPublicOnly(t *testing.T) {
	svc := newFilter(t)
	o := sampleOfficer()

	view := svc.Filter(context.Background(), o, nil, FilterOptions{Mask: true})
	require.NotNil(t, view)
	assert.Equal(t, o.FullName, view.FullName)
	for field := range map[id.Field]struct{}{
		id.FieldPersonalMobile: {}, id.FieldPersonalEmail: {}, id.FieldNationalID: {},
		id.FieldDateOfBirth: {}, id.FieldBankAccount: {},
	} {
		_, present := view.FieldValue(field)
		assert.False(t, present, "field %s must be hidden from anonymous viewers", field)
	}
	assert.Nil(t, view.Salary)
}

// TestFilter_InternalMetadataAdminOnly verifies raw visibility settings and
// provenance are private-tier regardless of per-record settings.
func TestFilter_InternalMetadataAdminOnly(t *testing.T) {
	svc := newFilter(t)
	o := sampleOfficer()

	hrView := svc.Filter(context.Background(), o, actorWith(id.RoleHR), FilterOptions{Mask: true})
	require.NotNil(t, hrView)
	assert.Nil(t, hrView.CreatedBy)
	assert.Nil(t, hrView.PhoneVisibility)
	assert.Nil(t, hrView.ProfilePublished)

	adminView := svc.Filter(context.Background(), o, actorWith(id.RoleAdmin), FilterOptions{Mask: true})
	require.NotNil(t, adminView)
	require.NotNil(t, adminView.CreatedBy)
	assert.Equal(t, o.CreatedBy.String(), *adminView.CreatedBy)
	require.NotNil(t, adminView.ProfilePublished)
	assert.True(t, *adminView.ProfilePublished)
}

// TestFilter_PolicyDenyRemovesField verifies an explicit (role, field) deny
// row removes a field the tier alone would allow.
func TestFilter_PolicyDenyRemovesField(t *testing.T) {
	ctx := context.Background()
	store := policy.NewInMemoryStore()
	require.NoError(t, store.Upsert(ctx, &policy.FieldAccessPolicy{
		Role: id.RoleHR, Field: id.FieldNationalID, CanView: false,
	}))
	policies, err := policy.NewService(store, testLogger())
	require.NoError(t, err)
	svc := NewFilterService(visibility.NewResolver(policies, testLogger()), testLogger())

	view := svc.Filter(ctx, sampleOfficer(), actorWith(id.RoleHR), FilterOptions{Mask: true})
	require.NotNil(t, view)

	_, present := view.FieldValue(id.FieldNationalID)
	assert.False(t, present, "policy deny must override the tier grant")
	_, present = view.FieldValue(id.FieldPassportNo)
	assert.True(t, present, "deny is per-field, not per-group")
}

// TestFilter_NeverMutatesInput verifies repeated calls are deterministic and
// the raw record is untouched.
func TestFilter_NeverMutatesInput(t *testing.T) {
	svc := newFilter(t)
	o := sampleOfficer()
	before := *o

	actor := actorWith(id.RoleHR)
	first := svc.Filter(context.Background(), o, actor, FilterOptions{Mask: true})
	second := svc.Filter(context.Background(), o, actor, FilterOptions{Mask: true})

	assert.Equal(t, before, *o, "filter must not mutate its input")
	assert.Equal(t, first, second, "same record and actor must yield identical views")
}

// TestFilter_AuditsMaskedExposures verifies one view record per masked field
// actually shown, and none for withheld fields.
func TestFilter_AuditsMaskedExposures(t *testing.T) {
	auditStore := audit.NewInMemoryStore()
	recorder := audit.NewRecorder(auditStore, testLogger())
	svc := newFilter(t, WithAuditSink(recorder))

	o := sampleOfficer()
	o.PhoneVisibility = id.VisibilityRestricted
	actor := actorWith(id.RoleUser) // phone withheld, email masked

	view := svc.Filter(context.Background(), o, actor, FilterOptions{Mask: true, Audit: true})
	require.NotNil(t, view)
	recorder.Close()

	records, err := auditStore.ListByOfficer(context.Background(), o.ID, 0)
	require.NoError(t, err)
	require.Len(t, records, len(view.MaskedFields), "exactly one record per masked exposure")
	for _, rec := range records {
		assert.Equal(t, audit.AccessView, rec.AccessType)
		assert.NotEqual(t, id.Field("personal_mobile"), rec.Field, "withheld fields are not audited")
		assert.Contains(t, rec.MaskedValue, "***")
	}
}

type stubAdvisor struct{}

func (stubAdvisor) CanRequest(context.Context, *id.Actor, id.Field) (*UnmaskCapability, error) {
	return &UnmaskCapability{Allowed: true, RequiresMFA: true, RemainingToday: 4}, nil
}

// TestFilter_UnmaskHints verifies hints appear only for masked fields and
// never carry values.
func TestFilter_UnmaskHints(t *testing.T) {
	svc := newFilter(t, WithUnmaskAdvisor(stubAdvisor{}))
	o := sampleOfficer()

	view := svc.Filter(context.Background(), o, actorWith(id.RoleAdmin), FilterOptions{Mask: true, UnmaskHints: true})
	require.NotNil(t, view)
	require.NotEmpty(t, view.UnmaskHints)
	for field := range view.UnmaskHints {
		assert.Contains(t, view.MaskedFields, field, "hints only accompany masked fields")
	}
	hint := view.UnmaskHints["personal_mobile"]
	assert.True(t, hint.Allowed)
	assert.Equal(t, 4, hint.RemainingToday)
}

// TestFilterList_DropsHiddenRecords verifies list filtering preserves order
// and drops fully hidden entries.
func TestFilterList_DropsHiddenRecords(t *testing.T) {
	svc := newFilter(t)
	published := sampleOfficer()
	hidden := sampleOfficer()
	hidden.ProfilePublished = false

	views := svc.FilterList(context.Background(), []*Officer{published, hidden}, nil, FilterOptions{Mask: true})
	require.Len(t, views, 1)
	assert.Equal(t, published.ID.String(), views[0].ID)
}
