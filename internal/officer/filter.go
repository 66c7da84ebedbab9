package officer

import (
	"context"
	"log/slog"
	"strings"

	"bigoffice/internal/audit"
	"bigoffice/internal/officer/metrics"
	"bigoffice/internal/platform/tracer"
	"bigoffice/internal/visibility"
	id "bigoffice/pkg/domain"
)

// UnmaskAdvisor answers whether an actor may request an unmask of a field.
// Implemented by the unmask workflow service.
type UnmaskAdvisor interface {
	CanRequest(ctx context.Context, actor *id.Actor, field id.Field) (*UnmaskCapability, error)
}

// AuditSink receives disclosure records. Submissions must never block or
// fail the caller.
type AuditSink interface {
	Submit(ctx context.Context, rec *audit.AccessRecord)
}

// FilterOptions control the optional filter behaviors. The HTTP read path
// sets Mask and Audit; UnmaskHints is opt-in per request.
type FilterOptions struct {
	Mask        bool
	UnmaskHints bool
	Audit       bool
}

// FilterService turns raw officer records into role-appropriate views. It is
// the only path from an Officer to the HTTP layer.
type FilterService struct {
	resolver *visibility.Resolver
	advisor  UnmaskAdvisor
	auditor  AuditSink
	tracer   tracer.Tracer
	logger   *slog.Logger
}

// FilterServiceOption configures optional collaborators.
type FilterServiceOption func(*FilterService)

// WithUnmaskAdvisor enables unmask capability hints on masked fields.
func WithUnmaskAdvisor(a UnmaskAdvisor) FilterServiceOption {
	return func(s *FilterService) { s.advisor = a }
}

// WithAuditSink enables disclosure auditing of masked values.
func WithAuditSink(a AuditSink) FilterServiceOption {
	return func(s *FilterService) { s.auditor = a }
}

// WithTracer replaces the default no-op tracer.
func WithTracer(t tracer.Tracer) FilterServiceOption {
	return func(s *FilterService) { s.tracer = t }
}

func NewFilterService(resolver *visibility.Resolver, logger *slog.Logger, opts ...FilterServiceOption) *FilterService {
	s := &FilterService{
		resolver: resolver,
		tracer:   tracer.NewNoop(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filter produces the actor's view of one officer record, or nil when the
// whole record is hidden. The input record is never mutated; repeated calls
// with the same record and actor yield identical views.
func (s *FilterService) Filter(ctx context.Context, o *Officer, actor *id.Actor, opts FilterOptions) *View {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRecordFilter,
		tracer.String(tracer.AttrOfficerID, o.ID.String()),
		tracer.String(tracer.AttrActorRole, roleLabel(actor)),
	)
	defer span.End(nil)

	// Unpublished profiles do not exist for anonymous viewers.
	if !o.ProfilePublished && actor == nil {
		metrics.RecordsHidden.Inc()
		return nil
	}

	v := &View{
		ID:       o.ID.String(),
		FullName: o.FullName,
		Grade:    o.Grade,
	}
	if !o.OfficeID.IsNil() {
		v.OfficeID = o.OfficeID.String()
	}
	if !o.DesignationID.IsNil() {
		v.DesignationID = o.DesignationID.String()
	}

	for _, group := range filterGroups {
		level := o.GroupLevel(group)
		for _, field := range groupFields[group] {
			value, ok := o.FieldValue(field)
			if !ok {
				continue
			}
			if !s.resolver.CanView(ctx, actor, field, level) {
				metrics.FieldsWithheld.WithLabelValues(string(group)).Inc()
				continue
			}

			shown := value
			masked := false
			if opts.Mask && group.maskable() {
				shown = MaskValue(field, value)
				masked = true
			}
			v.setField(field, shown, o.Salary)

			if !masked {
				continue
			}
			v.MaskedFields = append(v.MaskedFields, string(field))
			metrics.FieldsMasked.WithLabelValues(string(group)).Inc()

			if opts.UnmaskHints {
				s.appendHint(ctx, v, actor, field)
			}
			if opts.Audit {
				s.auditExposure(ctx, o, actor, field, shown)
			}
		}
	}

	// Internal metadata is private-tier only, regardless of per-record
	// settings.
	if actor.Tier() == id.TierPrivate {
		createdBy := o.CreatedBy.String()
		phoneVis := string(o.GroupLevel(GroupPhone))
		emailVis := string(o.GroupLevel(GroupEmail))
		nidVis := string(o.GroupLevel(GroupIdentifier))
		published := o.ProfilePublished
		v.CreatedBy = &createdBy
		v.PhoneVisibility = &phoneVis
		v.EmailVisibility = &emailVis
		v.NIDVisibility = &nidVis
		v.ProfilePublished = &published
	}

	span.SetAttributes(tracer.String(tracer.AttrMaskedFields, strings.Join(v.MaskedFields, ",")))
	metrics.RecordsFiltered.Inc()
	return v
}

// FilterList applies Filter per element and drops hidden records.
func (s *FilterService) FilterList(ctx context.Context, officers []*Officer, actor *id.Actor, opts FilterOptions) []*View {
	views := make([]*View, 0, len(officers))
	for _, o := range officers {
		if v := s.Filter(ctx, o, actor, opts); v != nil {
			views = append(views, v)
		}
	}
	return views
}

func (s *FilterService) appendHint(ctx context.Context, v *View, actor *id.Actor, field id.Field) {
	if s.advisor == nil || actor == nil {
		return
	}
	capability, err := s.advisor.CanRequest(ctx, actor, field)
	if err != nil {
		s.logger.WarnContext(ctx, "unmask capability lookup failed",
			"field", field,
			"error", err,
		)
		return
	}
	if v.UnmaskHints == nil {
		v.UnmaskHints = make(map[string]UnmaskCapability)
	}
	v.UnmaskHints[string(field)] = *capability
}

// auditExposure submits one disclosure record for a masked value that was
// actually shown. Best effort: the sink never blocks or fails the read.
func (s *FilterService) auditExposure(ctx context.Context, o *Officer, actor *id.Actor, field id.Field, maskedValue string) {
	if s.auditor == nil || actor == nil {
		return
	}
	s.auditor.Submit(ctx, &audit.AccessRecord{
		UserID:      actor.ID,
		UserRole:    actor.Role,
		UserName:    actor.Username,
		OfficerID:   o.ID,
		OfficerName: o.FullName,
		Field:       field,
		MaskedValue: maskedValue,
		AccessType:  audit.AccessView,
	})
}

func roleLabel(actor *id.Actor) string {
	if actor == nil {
		return "anonymous"
	}
	return string(actor.Role)
}
