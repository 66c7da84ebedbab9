package unmask_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bigoffice/internal/audit"
	"bigoffice/internal/officer"
	"bigoffice/internal/platform/database"
	"bigoffice/internal/policy"
	"bigoffice/internal/unmask"
	"bigoffice/internal/unmask/mocks"
	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/requestcontext"
	"bigoffice/pkg/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureDispatcher records the last delivered code instead of sending it.
type captureDispatcher struct {
	lastCode string
}

func (d *captureDispatcher) Deliver(_ context.Context, _ *id.Actor, _ id.UnmaskRequestID, code string) error {
	d.lastCode = code
	return nil
}

type fixture struct {
	store      *unmask.InMemoryStore
	policies   *policy.InMemoryStore
	officers   *officer.InMemoryStore
	auditStore *audit.InMemoryStore
	recorder   *audit.Recorder
	dispatcher *captureDispatcher
	svc        *unmask.Service
	officer    *officer.Officer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      unmask.NewInMemoryStore(),
		policies:   policy.NewInMemoryStore(),
		officers:   officer.NewInMemoryStore(),
		auditStore: audit.NewInMemoryStore(),
		dispatcher: &captureDispatcher{},
	}
	f.recorder = audit.NewRecorder(f.auditStore, testLogger())
	t.Cleanup(f.recorder.Close)

	policySvc, err := policy.NewService(f.policies, testLogger())
	require.NoError(t, err)

	engine := database.NewMemManager(testLogger(), f.store)
	f.svc, err = unmask.NewService(
		f.store, policySvc, f.officers, engine, f.recorder, f.dispatcher, testLogger(),
	)
	require.NoError(t, err)

	f.officer = testutil.NewOfficer().
		WithName("Officer Karim").
		WithPhoneVisibility(id.VisibilityRestricted).
		Build()
	require.NoError(t, f.officers.Create(context.Background(), f.officer))
	return f
}

func (f *fixture) allowPolicy(t *testing.T, role id.Role, field id.Field, mfa, approval bool, maxPerDay int) {
	t.Helper()
	require.NoError(t, f.policies.Upsert(context.Background(), &policy.FieldAccessPolicy{
		Role: role, Field: field,
		CanView: true, CanUnmask: true,
		RequiresMFA: mfa, RequiresApproval: approval,
		MaxRequestsPerDay: maxPerDay,
	}))
}

func hrActor() *id.Actor {
	return &id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleHR, Username: "rahim"}
}

// TestRequest_QuotaEnforced is the daily-limit scenario: with a maximum of
// five, the sixth request from the same (actor, field) pair in one day is
// denied even though the role qualifies.
func TestRequest_QuotaEnforced(t *testing.T) {
	f := newFixture(t)
	f.allowPolicy(t, id.RoleHR, id.FieldPersonalMobile, false, false, 5)
	actor := hrActor()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Request(ctx, actor, f.officer.ID, id.FieldPersonalMobile)
		require.NoError(t, err, "request %d within quota must succeed", i+1)
	}

	_, err := f.svc.Request(ctx, actor, f.officer.ID, id.FieldPersonalMobile)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeQuotaExceeded), "got %v", err)

	capability, err := f.svc.CanRequest(ctx, actor, id.FieldPersonalMobile)
	require.NoError(t, err)
	assert.False(t, capability.Allowed)
	assert.Zero(t, capability.RemainingToday)
}

// TestRequest_QuotaHoldsUnderConcurrentRequests fires many simultaneous
// requests for one (actor, field) pair. The count and the insert share a
// transaction, so exactly the daily maximum may be admitted no matter how
// the goroutines interleave.
func TestRequest_QuotaHoldsUnderConcurrentRequests(t *testing.T) {
	f := newFixture(t)
	f.allowPolicy(t, id.RoleHR, id.FieldPersonalMobile, false, false, 5)
	actor := hrActor()
	ctx := context.Background()

	result := testutil.RunConcurrent(20, func(int) error {
		_, err := f.svc.Request(ctx, actor, f.officer.ID, id.FieldPersonalMobile)
		return err
	})
	assert.Equal(t, int32(5), result.Successes)
	assert.Equal(t, int32(15), result.Errors)

	capability, err := f.svc.CanRequest(ctx, actor, id.FieldPersonalMobile)
	require.NoError(t, err)
	assert.False(t, capability.Allowed)
	assert.Zero(t, capability.RemainingToday)
}

// TestCanRequest_AbsentPolicyDefaultsToAdminOnly verifies the fallback when
// no (role, field) row exists.
func TestCanRequest_AbsentPolicyDefaultsToAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hrCap, err := f.svc.CanRequest(ctx, hrActor(), id.FieldNationalID)
	require.NoError(t, err)
	assert.False(t, hrCap.Allowed, "non-admin roles are denied without an explicit policy")

	admin := &id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleAdmin, Username: "root"}
	adminCap, err := f.svc.CanRequest(ctx, admin, id.FieldNationalID)
	require.NoError(t, err)
	assert.True(t, adminCap.Allowed)
	assert.True(t, adminCap.RequiresMFA)
	assert.True(t, adminCap.RequiresApproval)
	assert.Equal(t, 5, adminCap.RemainingToday)
}

// TestUnmaskFlow_MFAAndApproval walks the full second-factor-plus-approval
// path through to disclosure, checking every gate on the way.
func TestUnmaskFlow_MFAAndApproval(t *testing.T) {
	f := newFixture(t)
	f.allowPolicy(t, id.RoleHR, id.FieldNationalID, true, true, 5)
	requester := hrActor()
	approver := hrActor()
	ctx := context.Background()

	req, err := f.svc.Request(ctx, requester, f.officer.ID, id.FieldNationalID)
	require.NoError(t, err)
	assert.Equal(t, unmask.StatusPending, req.Status)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), f.dispatcher.lastCode)
	assert.Empty(t, req.MFACodeHash, "code hash must not serialize") // json:"-" on the hash

	// Disclosure before approval is refused.
	_, err = f.svc.Disclose(ctx, requester, req.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied), "got %v", err)

	// Approval before verification is refused.
	_, err = f.svc.Approve(ctx, approver, req.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactor), "got %v", err)

	// Wrong code.
	_, err = f.svc.VerifyCode(ctx, requester, req.ID, "000000")
	if f.dispatcher.lastCode == "000000" {
		t.Skip("generated code collided with the test's wrong guess")
	}
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactor), "got %v", err)

	// Only the requester may verify.
	_, err = f.svc.VerifyCode(ctx, approver, req.ID, f.dispatcher.lastCode)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied), "got %v", err)

	verified, err := f.svc.VerifyCode(ctx, requester, req.ID, f.dispatcher.lastCode)
	require.NoError(t, err)
	assert.True(t, verified.MFAVerified)
	assert.Equal(t, unmask.StatusPending, verified.Status, "approval is still outstanding")

	// Requester cannot approve their own request.
	_, err = f.svc.Approve(ctx, requester, req.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied), "got %v", err)

	approved, err := f.svc.Approve(ctx, approver, req.ID)
	require.NoError(t, err)
	assert.Equal(t, unmask.StatusApproved, approved.Status)
	assert.Equal(t, approver.ID, approved.DecidedBy)

	// A decided request cannot be decided again.
	_, err = f.svc.Reject(ctx, approver, req.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict), "got %v", err)

	// Only the requester may read the value.
	_, err = f.svc.Disclose(ctx, approver, req.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied), "got %v", err)

	disclosure, err := f.svc.Disclose(ctx, requester, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "19876543210987", disclosure.Value)

	// The disclosure left a durable trail holding only the masked form.
	records, err := f.auditStore.ListByOfficer(ctx, f.officer.ID, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, audit.AccessUnmask, records[0].AccessType)
	assert.True(t, records[0].MFAVerified)
	assert.NotEqual(t, disclosure.Value, records[0].MaskedValue)
	assert.Contains(t, records[0].MaskedValue, "*")
}

// TestVerifyCode_Expired verifies a lapsed code expires the request and the
// expiry is terminal.
func TestVerifyCode_Expired(t *testing.T) {
	f := newFixture(t)
	f.allowPolicy(t, id.RoleHR, id.FieldNationalID, true, true, 5)
	requester := hrActor()

	t0 := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), t0)
	req, err := f.svc.Request(ctx, requester, f.officer.ID, id.FieldNationalID)
	require.NoError(t, err)

	late := requestcontext.WithTime(context.Background(), t0.Add(10*time.Minute))
	_, err = f.svc.VerifyCode(late, requester, req.ID, f.dispatcher.lastCode)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSecondFactor), "got %v", err)

	expired, err := f.svc.Get(late, requester, req.ID)
	require.NoError(t, err)
	assert.Equal(t, unmask.StatusExpired, expired.Status)

	approver := hrActor()
	_, err = f.svc.Approve(late, approver, req.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict), "expired is terminal, got %v", err)
}

// TestRequest_UnknownOfficer verifies the reference is validated before any
// row is written.
func TestRequest_UnknownOfficer(t *testing.T) {
	f := newFixture(t)
	f.allowPolicy(t, id.RoleHR, id.FieldNationalID, false, false, 5)

	_, err := f.svc.Request(context.Background(), hrActor(), id.OfficerID(uuid.New()), id.FieldNationalID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
}

// TestRequest_RoleNotPermitted verifies a policy row with can_unmask=false
// denies before creating anything.
func TestRequest_RoleNotPermitted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.policies.Upsert(context.Background(), &policy.FieldAccessPolicy{
		Role: id.RoleHR, Field: id.FieldNationalID, CanView: true, CanUnmask: false,
	}))

	_, err := f.svc.Request(context.Background(), hrActor(), f.officer.ID, id.FieldNationalID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied), "got %v", err)
}

// TestCanRequest_StoreFailure verifies a failing request store surfaces as an
// internal error, not as a silent allow.
func TestCanRequest_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		CountActiveSince(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, errors.New("connection refused"))

	policies := policy.NewInMemoryStore()
	require.NoError(t, policies.Upsert(context.Background(), &policy.FieldAccessPolicy{
		Role: id.RoleHR, Field: id.FieldNationalID, CanView: true, CanUnmask: true, MaxRequestsPerDay: 5,
	}))
	policySvc, err := policy.NewService(policies, testLogger())
	require.NoError(t, err)

	officers := officer.NewInMemoryStore()
	auditStore := audit.NewInMemoryStore()
	recorder := audit.NewRecorder(auditStore, testLogger())
	t.Cleanup(recorder.Close)

	svc, err := unmask.NewService(
		store, policySvc, officers, database.NewMemManager(testLogger()),
		recorder, &captureDispatcher{}, testLogger(),
	)
	require.NoError(t, err)

	_, err = svc.CanRequest(context.Background(), hrActor(), id.FieldNationalID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal), "got %v", err)
}
