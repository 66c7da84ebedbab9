package unmask

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bigoffice/internal/audit"
	"bigoffice/internal/officer"
	"bigoffice/internal/platform/database"
	"bigoffice/internal/platform/tracer"
	"bigoffice/internal/policy"
	"bigoffice/internal/unmask/metrics"
	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/platform/sentinel"
	"bigoffice/pkg/requestcontext"
)

// PolicyLookup resolves the (role, field) policy row. Must return
// sentinel.ErrNotFound when no row exists.
type PolicyLookup interface {
	Lookup(ctx context.Context, role id.Role, field id.Field) (*policy.FieldAccessPolicy, error)
}

// effectivePolicy is the resolved unmask policy for one (role, field) pair.
// Absent rows default to admin-only with both second factor and approval
// required — the most restrictive posture.
type effectivePolicy struct {
	canUnmask        bool
	requiresMFA      bool
	requiresApproval bool
	maxPerDay        int
}

// Service runs the unmask workflow. The quota check and the request insert
// share one engine transaction, so concurrent requests from the same actor
// cannot slip past the daily maximum.
type Service struct {
	store      Store
	policies   PolicyLookup
	officers   officer.Store
	engine     database.Engine
	recorder   *audit.Recorder
	dispatcher Dispatcher
	codes      CodeStore
	tracer     tracer.Tracer
	logger     *slog.Logger

	codeTTL         time.Duration
	defaultDailyMax int
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithCodeStore enables the short-TTL code mirror.
func WithCodeStore(cs CodeStore) ServiceOption {
	return func(s *Service) { s.codes = cs }
}

// WithTracer replaces the default no-op tracer.
func WithTracer(t tracer.Tracer) ServiceOption {
	return func(s *Service) { s.tracer = t }
}

// WithCodeTTL overrides the second-factor code validity window.
func WithCodeTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.codeTTL = ttl
		}
	}
}

// WithDefaultDailyMax overrides the quota applied when a policy row carries
// no explicit maximum.
func WithDefaultDailyMax(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.defaultDailyMax = n
		}
	}
}

func NewService(
	store Store,
	policies PolicyLookup,
	officers officer.Store,
	engine database.Engine,
	recorder *audit.Recorder,
	dispatcher Dispatcher,
	logger *slog.Logger,
	opts ...ServiceOption,
) (*Service, error) {
	if store == nil || policies == nil || officers == nil || engine == nil || recorder == nil || dispatcher == nil {
		return nil, errors.New("unmask service requires store, policies, officers, engine, recorder, and dispatcher")
	}
	s := &Service{
		store:           store,
		policies:        policies,
		officers:        officers,
		engine:          engine,
		recorder:        recorder,
		dispatcher:      dispatcher,
		tracer:          tracer.NewNoop(),
		logger:          logger,
		codeTTL:         5 * time.Minute,
		defaultDailyMax: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var _ officer.UnmaskAdvisor = (*Service)(nil)

func (s *Service) resolvePolicy(ctx context.Context, role id.Role, field id.Field) (effectivePolicy, error) {
	p, err := s.policies.Lookup(ctx, role, field)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return effectivePolicy{
				canUnmask:        role == id.RoleAdmin,
				requiresMFA:      true,
				requiresApproval: true,
				maxPerDay:        s.defaultDailyMax,
			}, nil
		}
		// Unlike the view path, unmask fails closed on a policy store outage.
		return effectivePolicy{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve unmask policy")
	}
	max := p.MaxRequestsPerDay
	if max <= 0 {
		max = s.defaultDailyMax
	}
	return effectivePolicy{
		canUnmask:        p.CanUnmask,
		requiresMFA:      p.RequiresMFA,
		requiresApproval: p.RequiresApproval,
		maxPerDay:        max,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CanRequest implements officer.UnmaskAdvisor: the capability summary shown
// next to masked fields. It never reveals the value.
func (s *Service) CanRequest(ctx context.Context, actor *id.Actor, field id.Field) (*officer.UnmaskCapability, error) {
	if actor == nil {
		return &officer.UnmaskCapability{}, nil
	}
	p, err := s.resolvePolicy(ctx, actor.Role, field)
	if err != nil {
		return nil, err
	}
	if !p.canUnmask {
		return &officer.UnmaskCapability{}, nil
	}

	now := requestcontext.Now(ctx)
	count, err := s.store.CountActiveSince(ctx, actor.ID, field, startOfDay(now))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count unmask requests")
	}
	remaining := p.maxPerDay - count
	if remaining < 0 {
		remaining = 0
	}
	return &officer.UnmaskCapability{
		Allowed:          remaining > 0,
		RequiresMFA:      p.requiresMFA,
		RequiresApproval: p.requiresApproval,
		RemainingToday:   remaining,
	}, nil
}

// Request creates a pending unmask request. When neither a second factor nor
// an approval is required the request is approved on creation; it still never
// re-enters pending.
func (s *Service) Request(ctx context.Context, actor *id.Actor, officerID id.OfficerID, field id.Field) (*Request, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanUnmaskRequest,
		tracer.String(tracer.AttrOfficerID, officerID.String()),
		tracer.String(tracer.AttrField, string(field)),
	)
	var retErr error
	defer func() { span.End(retErr) }()

	if actor == nil {
		retErr = dErrors.New(dErrors.CodeUnauthorized, "authentication required")
		return nil, retErr
	}
	if _, err := s.officers.Get(ctx, officerID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			retErr = dErrors.Wrap(err, dErrors.CodeNotFound, "officer not found")
		} else {
			retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
		}
		return nil, retErr
	}

	p, err := s.resolvePolicy(ctx, actor.Role, field)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	if !p.canUnmask {
		metrics.RequestsDenied.WithLabelValues("not_permitted").Inc()
		retErr = dErrors.New(dErrors.CodePermissionDenied, "role may not unmask this field")
		return nil, retErr
	}

	now := requestcontext.Now(ctx)
	req := &Request{
		ID:               id.UnmaskRequestID(uuid.New()),
		UserID:           actor.ID,
		OfficerID:        officerID,
		Field:            field,
		Status:           StatusPending,
		RequiresMFA:      p.requiresMFA,
		RequiresApproval: p.requiresApproval,
		CreatedAt:        now,
	}
	if !p.requiresMFA && !p.requiresApproval {
		req.Status = StatusApproved
		req.DecidedAt = now
	}

	var code string
	if p.requiresMFA {
		code, err = generateCode()
		if err != nil {
			retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate second-factor code")
			return nil, retErr
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to protect second-factor code")
			return nil, retErr
		}
		req.MFACodeHash = string(hash)
		req.MFACodeExpiresAt = now.Add(s.codeTTL)
	}

	// Quota count and insert share one transaction: concurrent requests from
	// the same actor serialize here and cannot both pass the check.
	retErr = s.engine.WithTransaction(ctx, database.TxOptions{
		CorrelationID: requestcontext.RequestID(ctx),
		Operation:     "unmask.request",
	}, func(ctx context.Context) error {
		count, err := s.store.CountActiveSince(ctx, actor.ID, field, startOfDay(now))
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count unmask requests")
		}
		if count >= p.maxPerDay {
			metrics.RequestsDenied.WithLabelValues("quota").Inc()
			return dErrors.New(dErrors.CodeQuotaExceeded, "daily unmask limit reached for this field")
		}
		if err := s.store.Insert(ctx, req); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create unmask request")
		}
		return nil
	})
	if retErr != nil {
		return nil, retErr
	}

	if p.requiresMFA {
		if s.codes != nil {
			if err := s.codes.Save(ctx, req.ID, code, s.codeTTL); err != nil {
				s.logger.WarnContext(ctx, "second-factor code mirror failed", "request_id", req.ID, "error", err)
			}
		}
		if err := s.dispatcher.Deliver(ctx, actor, req.ID, code); err != nil {
			s.logger.ErrorContext(ctx, "second-factor code delivery failed", "request_id", req.ID, "error", err)
		}
	}

	metrics.RequestsCreated.WithLabelValues(string(field)).Inc()
	s.logger.InfoContext(ctx, "unmask request created",
		"request_id", req.ID,
		"officer_id", officerID,
		"field", field,
		"status", req.Status,
	)
	return req, nil
}

// VerifyCode checks the second-factor code for a pending request. A correct
// code marks the request verified; when no approval is required it is
// approved in the same step.
func (s *Service) VerifyCode(ctx context.Context, actor *id.Actor, requestID id.UnmaskRequestID, code string) (*Request, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanUnmaskVerify)
	var retErr error
	defer func() { span.End(retErr) }()

	req, err := s.load(ctx, requestID)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	if actor == nil || req.UserID != actor.ID {
		retErr = dErrors.New(dErrors.CodePermissionDenied, "only the requester may verify the code")
		return nil, retErr
	}
	if !req.RequiresMFA {
		retErr = dErrors.New(dErrors.CodeValidation, "request does not use a second factor")
		return nil, retErr
	}
	if req.Status.terminal() {
		retErr = dErrors.New(dErrors.CodeConflict, "request already decided")
		return nil, retErr
	}

	now := requestcontext.Now(ctx)
	if now.After(req.MFACodeExpiresAt) {
		req.Status = StatusExpired
		req.DecidedAt = now
		if err := s.store.Update(ctx, req); err != nil {
			s.logger.ErrorContext(ctx, "failed to expire unmask request", "request_id", req.ID, "error", err)
		}
		metrics.Decisions.WithLabelValues(string(StatusExpired)).Inc()
		metrics.CodeVerifications.WithLabelValues("expired").Inc()
		retErr = dErrors.New(dErrors.CodeSecondFactor, "second-factor code expired")
		return nil, retErr
	}
	if err := bcrypt.CompareHashAndPassword([]byte(req.MFACodeHash), []byte(code)); err != nil {
		metrics.CodeVerifications.WithLabelValues("mismatch").Inc()
		retErr = dErrors.New(dErrors.CodeSecondFactor, "second-factor code mismatch")
		return nil, retErr
	}

	req.MFAVerified = true
	if !req.RequiresApproval {
		req.Status = StatusApproved
		req.DecidedAt = now
	}
	if err := s.store.Update(ctx, req); err != nil {
		retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to update unmask request")
		return nil, retErr
	}
	if s.codes != nil {
		if err := s.codes.Delete(ctx, req.ID); err != nil {
			s.logger.WarnContext(ctx, "second-factor code cleanup failed", "request_id", req.ID, "error", err)
		}
	}
	metrics.CodeVerifications.WithLabelValues("ok").Inc()
	if req.Status == StatusApproved {
		metrics.Decisions.WithLabelValues(string(StatusApproved)).Inc()
	}
	return req, nil
}

// Approve flips a pending request to approved. The approver must hold at
// least the restricted tier, must not be the requester, and a required second
// factor must already be verified.
func (s *Service) Approve(ctx context.Context, approver *id.Actor, requestID id.UnmaskRequestID) (*Request, error) {
	return s.decide(ctx, approver, requestID, StatusApproved)
}

// Reject flips a pending request to rejected.
func (s *Service) Reject(ctx context.Context, approver *id.Actor, requestID id.UnmaskRequestID) (*Request, error) {
	return s.decide(ctx, approver, requestID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, approver *id.Actor, requestID id.UnmaskRequestID, to Status) (*Request, error) {
	if approver == nil || approver.Tier() < id.TierRestricted {
		return nil, dErrors.New(dErrors.CodePermissionDenied, "approver lacks permission")
	}
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status.terminal() {
		return nil, dErrors.New(dErrors.CodeConflict, "request already decided")
	}
	if req.UserID == approver.ID {
		return nil, dErrors.New(dErrors.CodePermissionDenied, "requester cannot decide own request")
	}
	if to == StatusApproved && req.RequiresMFA && !req.MFAVerified {
		return nil, dErrors.New(dErrors.CodeSecondFactor, "second factor not verified")
	}

	now := requestcontext.Now(ctx)
	req.Status = to
	req.DecidedBy = approver.ID
	req.DecidedAt = now
	if err := s.store.Update(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update unmask request")
	}
	metrics.Decisions.WithLabelValues(string(to)).Inc()
	s.logger.InfoContext(ctx, "unmask request decided",
		"request_id", req.ID,
		"status", to,
		"decided_by", approver.ID,
	)
	return req, nil
}

// Disclosure carries an unmasked value to its requester.
type Disclosure struct {
	RequestID id.UnmaskRequestID `json:"request_id"`
	Field     id.Field           `json:"field_name"`
	Value     string             `json:"value"`
}

// Disclose hands the unmasked value to the requester of an approved request.
// The audit write is synchronous: if the trail cannot be recorded, the value
// is not disclosed.
func (s *Service) Disclose(ctx context.Context, actor *id.Actor, requestID id.UnmaskRequestID) (*Disclosure, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDisclose)
	var retErr error
	defer func() { span.End(retErr) }()

	req, err := s.load(ctx, requestID)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	if actor == nil || req.UserID != actor.ID {
		retErr = dErrors.New(dErrors.CodePermissionDenied, "only the requester may read the value")
		return nil, retErr
	}
	if req.Status != StatusApproved {
		retErr = dErrors.New(dErrors.CodePermissionDenied, "request is not approved")
		return nil, retErr
	}

	o, err := s.officers.Get(ctx, req.OfficerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			retErr = dErrors.Wrap(err, dErrors.CodeNotFound, "officer not found")
		} else {
			retErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
		}
		return nil, retErr
	}
	value, ok := o.FieldValue(req.Field)
	if !ok {
		retErr = dErrors.New(dErrors.CodeNotFound, "field has no value")
		return nil, retErr
	}

	// The audit row stores the masked form: the trail proves the disclosure
	// without duplicating the sensitive value.
	if _, err := s.recorder.Record(ctx, &audit.AccessRecord{
		UserID:      actor.ID,
		UserRole:    actor.Role,
		UserName:    actor.Username,
		OfficerID:   o.ID,
		OfficerName: o.FullName,
		Field:       req.Field,
		MaskedValue: officer.MaskValue(req.Field, value),
		AccessType:  audit.AccessUnmask,
		RequestID:   req.ID.String(),
		MFAVerified: req.MFAVerified,
	}); err != nil {
		retErr = err
		return nil, retErr
	}

	metrics.Disclosures.WithLabelValues(string(req.Field)).Inc()
	return &Disclosure{RequestID: req.ID, Field: req.Field, Value: value}, nil
}

// Get loads a request for its requester or any restricted-tier viewer.
func (s *Service) Get(ctx context.Context, actor *id.Actor, requestID id.UnmaskRequestID) (*Request, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor == nil || (req.UserID != actor.ID && actor.Tier() < id.TierRestricted) {
		return nil, dErrors.New(dErrors.CodePermissionDenied, "not allowed to view this request")
	}
	return req, nil
}

func (s *Service) load(ctx context.Context, requestID id.UnmaskRequestID) (*Request, error) {
	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unmask request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load unmask request")
	}
	return req, nil
}
