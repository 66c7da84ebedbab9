package transition

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigoffice/internal/activity"
	"bigoffice/internal/office"
	"bigoffice/internal/officer"
	"bigoffice/internal/platform/database"
	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/testutil"
)

type fixture struct {
	officers     *officer.InMemoryStore
	offices      *office.InMemoryOfficeStore
	designations *office.InMemoryDesignationStore
	store        *InMemoryStore
	activities   activity.Store
	svc          *Service

	officer   *officer.Officer
	officeA   *office.Office
	officeB   *office.Office
	juniorDes *office.Designation
	seniorDes *office.Designation
}

// failingActivityStore fails every append; snapshots delegate so the
// engine can still roll back.
type failingActivityStore struct {
	inner *activity.InMemoryStore
}

func (f *failingActivityStore) Append(context.Context, *activity.Entry) error {
	return errors.New("activity store down")
}

func (f *failingActivityStore) ListByEntity(ctx context.Context, entityType, entityID string) ([]*activity.Entry, error) {
	return f.inner.ListByEntity(ctx, entityType, entityID)
}

func newFixture(t *testing.T, activities activity.Store, snapshotActivities database.Snapshotter) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		officers:     officer.NewInMemoryStore(),
		offices:      office.NewInMemoryOfficeStore(),
		designations: office.NewInMemoryDesignationStore(),
		store:        NewInMemoryStore(),
		activities:   activities,
	}
	engine := database.NewMemManager(logger, f.officers, f.store, snapshotActivities)

	f.officeA = testutil.NewTestOffice("Dhaka HQ")
	f.officeB = testutil.NewTestOffice("Chattogram Division")
	require.NoError(t, f.offices.Create(context.Background(), f.officeA))
	require.NoError(t, f.offices.Create(context.Background(), f.officeB))

	f.juniorDes = testutil.NewTestDesignation("Assistant Director", 9)
	f.seniorDes = testutil.NewTestDesignation("Deputy Director", 6)
	require.NoError(t, f.designations.Create(context.Background(), f.juniorDes))
	require.NoError(t, f.designations.Create(context.Background(), f.seniorDes))

	f.officer = testutil.NewOfficer().
		WithName("Nazmul Karim").
		WithOffice(f.officeA.ID).
		WithDesignation(f.juniorDes.ID).
		WithGrade(5).
		Build()
	require.NoError(t, f.officers.Create(context.Background(), f.officer))

	svc, err := NewService(f.officers, f.offices, f.designations, f.store, f.activities, engine, logger)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func newHealthyFixture(t *testing.T) *fixture {
	t.Helper()
	activities := activity.NewInMemoryStore()
	return newFixture(t, activities, activities)
}

func hrActor() *id.Actor {
	return testutil.Actor(id.RoleHR)
}

func yesterday() time.Time {
	return time.Now().AddDate(0, 0, -1)
}

func TestTransfer_MovesOfficerAndLogsActivity(t *testing.T) {
	f := newHealthyFixture(t)
	ctx := context.Background()

	event, err := f.svc.Transfer(ctx, hrActor(), TransferInput{
		OfficerID:     f.officer.ID,
		ToOfficeID:    f.officeB.ID,
		EffectiveDate: yesterday(),
		OrderRef:      "ORDER-2026-117",
	})
	require.NoError(t, err)
	assert.Equal(t, f.officeA.ID, event.FromOfficeID)
	assert.Equal(t, f.officeB.ID, event.ToOfficeID)

	got, err := f.officers.Get(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.officeB.ID, got.OfficeID)

	entries, err := f.activities.ListByEntity(ctx, activity.EntityOfficer, f.officer.ID.String())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionOfficerTransferred, entries[0].Action)

	history, err := f.svc.Transfers(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTransfer_WithDesignationUpdatesBoth(t *testing.T) {
	f := newHealthyFixture(t)
	ctx := context.Background()

	event, err := f.svc.Transfer(ctx, hrActor(), TransferInput{
		OfficerID:       f.officer.ID,
		ToOfficeID:      f.officeB.ID,
		ToDesignationID: f.seniorDes.ID,
		EffectiveDate:   yesterday(),
	})
	require.NoError(t, err)
	assert.Equal(t, f.seniorDes.ID, event.ToDesignationID)

	got, err := f.officers.Get(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.officeB.ID, got.OfficeID)
	assert.Equal(t, f.seniorDes.ID, got.DesignationID)
}

func TestTransfer_RejectsUnknownDesignation(t *testing.T) {
	f := newHealthyFixture(t)
	ctx := context.Background()

	_, err := f.svc.Transfer(ctx, hrActor(), TransferInput{
		OfficerID:       f.officer.ID,
		ToOfficeID:      f.officeB.ID,
		ToDesignationID: id.DesignationID(uuid.New()),
		EffectiveDate:   yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeReferentialIntegrity))

	// Rolled back along with the event insert.
	got, err := f.officers.Get(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.officeA.ID, got.OfficeID)

	history, err := f.store.ListTransfers(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransfer_RollsBackAllWritesWhenActivityInsertFails(t *testing.T) {
	inner := activity.NewInMemoryStore()
	f := newFixture(t, &failingActivityStore{inner: inner}, inner)
	ctx := context.Background()

	_, err := f.svc.Transfer(ctx, hrActor(), TransferInput{
		OfficerID:     f.officer.ID,
		ToOfficeID:    f.officeB.ID,
		EffectiveDate: yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	// No partial state: office unchanged, zero history rows, zero activity rows.
	got, err := f.officers.Get(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.officeA.ID, got.OfficeID)

	history, err := f.store.ListTransfers(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	entries, err := inner.ListByEntity(ctx, activity.EntityOfficer, f.officer.ID.String())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransfer_RejectsFutureEffectiveDate(t *testing.T) {
	f := newHealthyFixture(t)

	_, err := f.svc.Transfer(context.Background(), hrActor(), TransferInput{
		OfficerID:     f.officer.ID,
		ToOfficeID:    f.officeB.ID,
		EffectiveDate: time.Now().AddDate(0, 0, 7),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	history, err := f.store.ListTransfers(context.Background(), f.officer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransfer_RejectsSameOffice(t *testing.T) {
	f := newHealthyFixture(t)

	_, err := f.svc.Transfer(context.Background(), hrActor(), TransferInput{
		OfficerID:     f.officer.ID,
		ToOfficeID:    f.officeA.ID,
		EffectiveDate: yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestTransfer_RejectsUnknownDestinationOffice(t *testing.T) {
	f := newHealthyFixture(t)

	_, err := f.svc.Transfer(context.Background(), hrActor(), TransferInput{
		OfficerID:     f.officer.ID,
		ToOfficeID:    id.OfficeID(uuid.New()),
		EffectiveDate: yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeReferentialIntegrity))

	history, err := f.store.ListTransfers(context.Background(), f.officer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransfer_RequiresHROrAdmin(t *testing.T) {
	f := newHealthyFixture(t)

	for _, role := range []id.Role{id.RoleUser, id.RoleManager} {
		actor := &id.Actor{ID: id.UserID(uuid.New()), Role: role}
		_, err := f.svc.Transfer(context.Background(), actor, TransferInput{
			OfficerID:     f.officer.ID,
			ToOfficeID:    f.officeB.ID,
			EffectiveDate: yesterday(),
		})
		require.Error(t, err, "role %s", role)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied))
	}
}

func TestPromote_UpdatesPostingAndHistory(t *testing.T) {
	f := newHealthyFixture(t)
	ctx := context.Background()

	event, err := f.svc.Promote(ctx, hrActor(), PromotionInput{
		OfficerID:       f.officer.ID,
		ToDesignationID: f.seniorDes.ID,
		FromGrade:       5,
		ToGrade:         6,
		NewSalary:       95000,
		EffectiveDate:   yesterday(),
	})
	require.NoError(t, err)
	assert.Equal(t, f.juniorDes.ID, event.FromDesignationID)

	got, err := f.officers.Get(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.seniorDes.ID, got.DesignationID)
	assert.Equal(t, 6, got.Grade)
	assert.Equal(t, int64(95000), got.Salary)

	entries, err := f.activities.ListByEntity(ctx, activity.EntityOfficer, f.officer.ID.String())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionOfficerPromoted, entries[0].Action)
}

func TestPromote_RejectsNonUpwardDesignation(t *testing.T) {
	f := newHealthyFixture(t)
	ctx := context.Background()

	// Move the officer to the senior post first, then attempt a "promotion"
	// back down to the junior one.
	promoted := f.officer.Clone()
	promoted.DesignationID = f.seniorDes.ID
	require.NoError(t, f.officers.Update(ctx, promoted))

	_, err := f.svc.Promote(ctx, hrActor(), PromotionInput{
		OfficerID:       f.officer.ID,
		ToDesignationID: f.juniorDes.ID,
		EffectiveDate:   yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	history, err := f.store.ListPromotions(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPromote_RejectsNonIncreasingExplicitGrades(t *testing.T) {
	f := newHealthyFixture(t)

	// to_grade 3 <= from_grade 5: explicit grade numbers count upward.
	_, err := f.svc.Promote(context.Background(), hrActor(), PromotionInput{
		OfficerID:       f.officer.ID,
		ToDesignationID: f.seniorDes.ID,
		FromGrade:       5,
		ToGrade:         3,
		EffectiveDate:   yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	history, err := f.store.ListPromotions(context.Background(), f.officer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPromote_RejectsUnknownDesignation(t *testing.T) {
	f := newHealthyFixture(t)

	_, err := f.svc.Promote(context.Background(), hrActor(), PromotionInput{
		OfficerID:       f.officer.ID,
		ToDesignationID: id.DesignationID(uuid.New()),
		EffectiveDate:   yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeReferentialIntegrity))
}

func TestPromote_RollsBackAllWritesWhenActivityInsertFails(t *testing.T) {
	inner := activity.NewInMemoryStore()
	f := newFixture(t, &failingActivityStore{inner: inner}, inner)
	ctx := context.Background()

	_, err := f.svc.Promote(ctx, hrActor(), PromotionInput{
		OfficerID:       f.officer.ID,
		ToDesignationID: f.seniorDes.ID,
		ToGrade:         6,
		EffectiveDate:   yesterday(),
	})
	require.Error(t, err)

	got, err := f.officers.Get(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.juniorDes.ID, got.DesignationID)
	assert.Equal(t, 5, got.Grade)

	history, err := f.store.ListPromotions(ctx, f.officer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransfer_UnknownOfficer(t *testing.T) {
	f := newHealthyFixture(t)

	_, err := f.svc.Transfer(context.Background(), hrActor(), TransferInput{
		OfficerID:     id.OfficerID(uuid.New()),
		ToOfficeID:    f.officeB.ID,
		EffectiveDate: yesterday(),
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeReferentialIntegrity))
}
