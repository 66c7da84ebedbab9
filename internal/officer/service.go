package officer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"bigoffice/internal/activity"
	"bigoffice/internal/platform/database"
	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/platform/sentinel"
	"bigoffice/pkg/requestcontext"
)

// Service owns officer record mutations. Creates and updates run inside the
// transaction engine so the record write and its activity log entry are one
// atomic unit. Reads bypass the engine.
type Service struct {
	store      Store
	activities activity.Store
	engine     database.Engine
	logger     *slog.Logger
}

func NewService(store Store, activities activity.Store, engine database.Engine, logger *slog.Logger) (*Service, error) {
	if store == nil || activities == nil || engine == nil {
		return nil, errors.New("officer service requires store, activity store, and engine")
	}
	return &Service{store: store, activities: activities, engine: engine, logger: logger}, nil
}

// canMutate limits record mutations to HR and admin actors.
func canMutate(actor *id.Actor) bool {
	return actor != nil && (actor.Role == id.RoleAdmin || actor.Role == id.RoleHR)
}

// Create persists a new officer record with its activity entry.
func (s *Service) Create(ctx context.Context, actor *id.Actor, o *Officer) (*Officer, error) {
	if !canMutate(actor) {
		return nil, dErrors.New(dErrors.CodePermissionDenied, "only hr or admin may create officer records")
	}
	if o.FullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "full name is required")
	}

	now := requestcontext.Now(ctx)
	rec := o.Clone()
	if rec.ID.IsNil() {
		rec.ID = id.OfficerID(uuid.New())
	}
	rec.CreatedBy = actor.ID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	err := s.engine.WithTransaction(ctx, database.TxOptions{
		CorrelationID: requestcontext.RequestID(ctx),
		Operation:     "officer.create",
	}, func(ctx context.Context) error {
		if err := s.store.Create(ctx, rec); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "officer already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create officer")
		}
		return s.activities.Append(ctx, &activity.Entry{
			ID:            id.ActivityID(uuid.New()),
			ActorID:       actor.ID,
			ActorRole:     actor.Role,
			Action:        activity.ActionOfficerCreated,
			EntityType:    activity.EntityOfficer,
			EntityID:      rec.ID.String(),
			CorrelationID: requestcontext.RequestID(ctx),
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "officer created",
		"officer_id", rec.ID,
		"actor_id", actor.ID,
	)
	return rec, nil
}

// Get loads the raw record. Callers must pass the result through the filter
// before it reaches a viewer.
func (s *Service) Get(ctx context.Context, officerID id.OfficerID) (*Officer, error) {
	if officerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "officer ID is required")
	}
	o, err := s.store.Get(ctx, officerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "officer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get officer")
	}
	return o, nil
}

// Update replaces the mutable profile fields of an existing record.
func (s *Service) Update(ctx context.Context, actor *id.Actor, o *Officer) (*Officer, error) {
	if !canMutate(actor) {
		return nil, dErrors.New(dErrors.CodePermissionDenied, "only hr or admin may update officer records")
	}
	if o.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "officer ID is required")
	}

	now := requestcontext.Now(ctx)
	rec := o.Clone()
	rec.UpdatedAt = now

	err := s.engine.WithTransaction(ctx, database.TxOptions{
		CorrelationID: requestcontext.RequestID(ctx),
		Operation:     "officer.update",
	}, func(ctx context.Context) error {
		current, err := s.store.Get(ctx, rec.ID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeNotFound, "officer not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
		}
		// Posting and provenance change only through the transition engine.
		rec.OfficeID = current.OfficeID
		rec.DesignationID = current.DesignationID
		rec.Grade = current.Grade
		rec.Salary = current.Salary
		rec.CreatedBy = current.CreatedBy
		rec.CreatedAt = current.CreatedAt

		if err := s.store.Update(ctx, rec); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update officer")
		}
		return s.activities.Append(ctx, &activity.Entry{
			ID:            id.ActivityID(uuid.New()),
			ActorID:       actor.ID,
			ActorRole:     actor.Role,
			Action:        activity.ActionOfficerUpdated,
			EntityType:    activity.EntityOfficer,
			EntityID:      rec.ID.String(),
			CorrelationID: requestcontext.RequestID(ctx),
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
