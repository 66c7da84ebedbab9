package transition

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bigoffice/internal/activity"
	"bigoffice/internal/office"
	"bigoffice/internal/officer"
	"bigoffice/internal/platform/database"
	"bigoffice/internal/platform/tracer"
	"bigoffice/internal/transition/metrics"
	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/platform/sentinel"
	"bigoffice/pkg/requestcontext"
)

// Service executes transfers and promotions. Validation that needs no
// transactional read happens before the engine is entered; once inside, any
// error rolls back every write.
type Service struct {
	officers     officer.Store
	offices      office.OfficeStore
	designations office.DesignationStore
	store        Store
	activities   activity.Store
	engine       database.Engine
	tracer       tracer.Tracer
	logger       *slog.Logger
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithTracer replaces the default no-op tracer.
func WithTracer(t tracer.Tracer) ServiceOption {
	return func(s *Service) { s.tracer = t }
}

func NewService(
	officers officer.Store,
	offices office.OfficeStore,
	designations office.DesignationStore,
	store Store,
	activities activity.Store,
	engine database.Engine,
	logger *slog.Logger,
	opts ...ServiceOption,
) (*Service, error) {
	if officers == nil || offices == nil || designations == nil || store == nil || activities == nil || engine == nil {
		return nil, errors.New("transition service requires all stores and the engine")
	}
	s := &Service{
		officers:     officers,
		offices:      offices,
		designations: designations,
		store:        store,
		activities:   activities,
		engine:       engine,
		tracer:       tracer.NewNoop(),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func canTransition(actor *id.Actor) bool {
	return actor != nil && (actor.Role == id.RoleAdmin || actor.Role == id.RoleHR)
}

// sameDayOrPast reports whether the effective date is today or earlier,
// comparing calendar dates, not instants.
func sameDayOrPast(effective, now time.Time) bool {
	ey, em, ed := effective.Date()
	ny, nm, nd := now.Date()
	return time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).
		Compare(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)) <= 0
}

func (s *Service) loadOfficer(ctx context.Context, officerID id.OfficerID) (*officer.Officer, error) {
	o, err := s.officers.Get(ctx, officerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeReferentialIntegrity, "officer does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
	}
	return o, nil
}

// Transfer moves an officer to a new office: one history insert, one
// conditional current-state update, one activity entry — atomically.
func (s *Service) Transfer(ctx context.Context, actor *id.Actor, input TransferInput) (*TransferEvent, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanTransfer,
		tracer.String(tracer.AttrOfficerID, input.OfficerID.String()),
	)
	var retErr error
	defer func() {
		span.End(retErr)
		metrics.TransitionDuration.WithLabelValues("transfer").Observe(time.Since(start).Seconds())
	}()

	if !canTransition(actor) {
		metrics.TransitionsRejected.WithLabelValues("transfer", "permission").Inc()
		retErr = dErrors.New(dErrors.CodePermissionDenied, "only hr or admin may transfer officers")
		return nil, retErr
	}
	if input.OfficerID.IsNil() || input.ToOfficeID.IsNil() {
		retErr = dErrors.New(dErrors.CodeValidation, "officer and destination office are required")
		return nil, retErr
	}

	now := requestcontext.Now(ctx)
	effective := sameDayOrPast(input.EffectiveDate, now)
	if !effective {
		metrics.TransitionsRejected.WithLabelValues("transfer", "future_date").Inc()
		retErr = dErrors.New(dErrors.CodeValidation, "effective date cannot be in the future")
		return nil, retErr
	}

	current, err := s.loadOfficer(ctx, input.OfficerID)
	if err != nil {
		metrics.TransitionsRejected.WithLabelValues("transfer", "referential").Inc()
		retErr = err
		return nil, retErr
	}
	if current.OfficeID == input.ToOfficeID {
		metrics.TransitionsRejected.WithLabelValues("transfer", "same_office").Inc()
		retErr = dErrors.New(dErrors.CodeValidation, "destination office equals current office")
		return nil, retErr
	}

	event := &TransferEvent{
		ID:              id.TransferEventID(uuid.New()),
		OfficerID:       input.OfficerID,
		FromOfficeID:    current.OfficeID,
		ToOfficeID:      input.ToOfficeID,
		ToDesignationID: input.ToDesignationID,
		EffectiveDate:   input.EffectiveDate,
		OrderRef:        input.OrderRef,
		Remarks:         input.Remarks,
		CreatedBy:       actor.ID,
		CreatedAt:       now,
	}
	span.SetAttributes(tracer.Bool(tracer.AttrEffective, effective))

	retErr = s.engine.WithTransaction(ctx, database.TxOptions{
		CorrelationID: requestcontext.RequestID(ctx),
		Operation:     "transition.transfer",
	}, func(ctx context.Context) error {
		// The destination must exist; a dangling reference rolls everything back.
		if _, err := s.offices.Get(ctx, input.ToOfficeID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeReferentialIntegrity, "destination office does not exist")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load destination office")
		}
		if !input.ToDesignationID.IsNil() {
			if _, err := s.designations.Get(ctx, input.ToDesignationID); err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return dErrors.Wrap(err, dErrors.CodeReferentialIntegrity, "destination designation does not exist")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load destination designation")
			}
		}
		if err := s.store.InsertTransfer(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert transfer event")
		}
		if effective {
			updated := current.Clone()
			updated.OfficeID = input.ToOfficeID
			if !input.ToDesignationID.IsNil() {
				updated.DesignationID = input.ToDesignationID
			}
			updated.UpdatedAt = now
			if err := s.officers.Update(ctx, updated); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update officer office")
			}
		}
		return s.activities.Append(ctx, &activity.Entry{
			ID:            id.ActivityID(uuid.New()),
			ActorID:       actor.ID,
			ActorRole:     actor.Role,
			Action:        activity.ActionOfficerTransferred,
			EntityType:    activity.EntityOfficer,
			EntityID:      input.OfficerID.String(),
			Details:       "to office " + input.ToOfficeID.String(),
			CorrelationID: requestcontext.RequestID(ctx),
			CreatedAt:     now,
		})
	})
	if retErr != nil {
		metrics.TransitionsRejected.WithLabelValues("transfer", "transaction").Inc()
		return nil, retErr
	}

	metrics.Transitions.WithLabelValues("transfer").Inc()
	s.logger.InfoContext(ctx, "officer transferred",
		"officer_id", input.OfficerID,
		"from_office", current.OfficeID,
		"to_office", input.ToOfficeID,
		"effective", effective,
	)
	return event, nil
}

// Promote moves an officer to a higher designation. Grade levels follow the
// civil-service convention: a numerically lower grade level is the higher
// rank, so the target designation's level must be strictly below the
// current one. Explicit grade numbers, when supplied, must strictly
// increase.
func (s *Service) Promote(ctx context.Context, actor *id.Actor, input PromotionInput) (*PromotionEvent, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanPromotion,
		tracer.String(tracer.AttrOfficerID, input.OfficerID.String()),
	)
	var retErr error
	defer func() {
		span.End(retErr)
		metrics.TransitionDuration.WithLabelValues("promotion").Observe(time.Since(start).Seconds())
	}()

	if !canTransition(actor) {
		metrics.TransitionsRejected.WithLabelValues("promotion", "permission").Inc()
		retErr = dErrors.New(dErrors.CodePermissionDenied, "only hr or admin may promote officers")
		return nil, retErr
	}
	if input.OfficerID.IsNil() || input.ToDesignationID.IsNil() {
		retErr = dErrors.New(dErrors.CodeValidation, "officer and target designation are required")
		return nil, retErr
	}

	now := requestcontext.Now(ctx)
	effective := sameDayOrPast(input.EffectiveDate, now)
	if !effective {
		metrics.TransitionsRejected.WithLabelValues("promotion", "future_date").Inc()
		retErr = dErrors.New(dErrors.CodeValidation, "effective date cannot be in the future")
		return nil, retErr
	}
	if input.FromGrade > 0 && input.ToGrade > 0 && input.ToGrade <= input.FromGrade {
		metrics.TransitionsRejected.WithLabelValues("promotion", "grade").Inc()
		retErr = dErrors.New(dErrors.CodeValidation, "new grade must be strictly higher than the current grade")
		return nil, retErr
	}

	current, err := s.loadOfficer(ctx, input.OfficerID)
	if err != nil {
		metrics.TransitionsRejected.WithLabelValues("promotion", "referential").Inc()
		retErr = err
		return nil, retErr
	}

	target, err := s.designations.Get(ctx, input.ToDesignationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			metrics.TransitionsRejected.WithLabelValues("promotion", "referential").Inc()
			retErr = dErrors.Wrap(err, dErrors.CodeReferentialIntegrity, "target designation does not exist")
		} else {
			retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load target designation")
		}
		return nil, retErr
	}
	if !current.DesignationID.IsNil() {
		from, err := s.designations.Get(ctx, current.DesignationID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				retErr = dErrors.Wrap(err, dErrors.CodeReferentialIntegrity, "current designation does not exist")
			} else {
				retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load current designation")
			}
			return nil, retErr
		}
		if target.GradeLevel >= from.GradeLevel {
			metrics.TransitionsRejected.WithLabelValues("promotion", "grade").Inc()
			retErr = dErrors.New(dErrors.CodeValidation, "target designation is not a higher rank")
			return nil, retErr
		}
	}

	event := &PromotionEvent{
		ID:                id.PromotionEventID(uuid.New()),
		OfficerID:         input.OfficerID,
		FromDesignationID: current.DesignationID,
		ToDesignationID:   input.ToDesignationID,
		FromGrade:         input.FromGrade,
		ToGrade:           input.ToGrade,
		NewSalary:         input.NewSalary,
		EffectiveDate:     input.EffectiveDate,
		OrderRef:          input.OrderRef,
		Remarks:           input.Remarks,
		CreatedBy:         actor.ID,
		CreatedAt:         now,
	}
	if event.FromGrade == 0 {
		event.FromGrade = current.Grade
	}
	span.SetAttributes(tracer.Bool(tracer.AttrEffective, effective))

	retErr = s.engine.WithTransaction(ctx, database.TxOptions{
		CorrelationID: requestcontext.RequestID(ctx),
		Operation:     "transition.promotion",
	}, func(ctx context.Context) error {
		if err := s.store.InsertPromotion(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert promotion event")
		}
		if effective {
			updated := current.Clone()
			updated.DesignationID = input.ToDesignationID
			if input.ToGrade > 0 {
				updated.Grade = input.ToGrade
			}
			if input.NewSalary > 0 {
				updated.Salary = input.NewSalary
			}
			updated.UpdatedAt = now
			if err := s.officers.Update(ctx, updated); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update officer designation")
			}
		}
		return s.activities.Append(ctx, &activity.Entry{
			ID:            id.ActivityID(uuid.New()),
			ActorID:       actor.ID,
			ActorRole:     actor.Role,
			Action:        activity.ActionOfficerPromoted,
			EntityType:    activity.EntityOfficer,
			EntityID:      input.OfficerID.String(),
			Details:       "to designation " + target.Title,
			CorrelationID: requestcontext.RequestID(ctx),
			CreatedAt:     now,
		})
	})
	if retErr != nil {
		metrics.TransitionsRejected.WithLabelValues("promotion", "transaction").Inc()
		return nil, retErr
	}

	metrics.Transitions.WithLabelValues("promotion").Inc()
	s.logger.InfoContext(ctx, "officer promoted",
		"officer_id", input.OfficerID,
		"to_designation", input.ToDesignationID,
		"effective", effective,
	)
	return event, nil
}

// Transfers returns an officer's transfer history, newest effective first.
func (s *Service) Transfers(ctx context.Context, officerID id.OfficerID) ([]*TransferEvent, error) {
	events, err := s.store.ListTransfers(ctx, officerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transfer events")
	}
	return events, nil
}

// Promotions returns an officer's promotion history.
func (s *Service) Promotions(ctx context.Context, officerID id.OfficerID) ([]*PromotionEvent, error) {
	events, err := s.store.ListPromotions(ctx, officerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list promotion events")
	}
	return events, nil
}
