package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"bigoffice/internal/audit/metrics"
	"bigoffice/internal/platform/privacy"
	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/requestcontext"
)

const (
	defaultQueueSize = 256
	writeAttempts    = 3
	retryBackoff     = 50 * time.Millisecond
)

// Recorder writes access records. Two entry points with different guarantees:
//
//   - Record: synchronous durable write. Used where the disclosure must not
//     happen without a trail (unmask disclosure).
//   - Submit: asynchronous, never blocks the caller. Used by the record
//     filter so that audit trouble cannot slow or fail a legitimate read.
//     Failed writes are retried a bounded number of times; records dropped
//     after that are counted and logged, never silently discarded.
type Recorder struct {
	store  Store
	logger *slog.Logger

	queue chan *AccessRecord
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	queueSize int
}

// WithQueueSize overrides the async queue capacity.
func WithQueueSize(n int) RecorderOption {
	return func(c *recorderConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

func NewRecorder(store Store, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	cfg := recorderConfig{queueSize: defaultQueueSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Recorder{
		store:  store,
		logger: logger,
		queue:  make(chan *AccessRecord, cfg.queueSize),
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

// Record persists an access record synchronously and returns its ID.
// The record's client metadata is filled from the context; the IP is
// anonymized and the user agent reduced to a summary before storage.
func (r *Recorder) Record(ctx context.Context, rec *AccessRecord) (id.AuditRecordID, error) {
	r.prepare(ctx, rec)
	if err := r.store.Append(ctx, rec); err != nil {
		r.logger.ErrorContext(ctx, "audit record write failed",
			"officer_id", rec.OfficerID,
			"field", rec.Field,
			"access_type", rec.AccessType,
			"error", err,
		)
		return id.AuditRecordID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write audit record")
	}
	metrics.RecordsWritten.WithLabelValues(string(rec.AccessType)).Inc()
	return rec.ID, nil
}

// Submit enqueues an access record for asynchronous persistence. It never
// blocks: when the queue is full the record is dropped, counted, and logged.
func (r *Recorder) Submit(ctx context.Context, rec *AccessRecord) {
	r.prepare(ctx, rec)
	select {
	case r.queue <- rec:
		metrics.QueueDepth.Set(float64(len(r.queue)))
	default:
		metrics.RecordsDropped.WithLabelValues("queue_full").Inc()
		r.logger.Error("audit queue full, record dropped",
			"officer_id", rec.OfficerID,
			"field", rec.Field,
			"access_type", rec.AccessType,
		)
	}
}

// prepare stamps identity, client metadata, and timestamps. Values already
// set by the caller are kept.
func (r *Recorder) prepare(ctx context.Context, rec *AccessRecord) {
	if rec.ID.IsNil() {
		rec.ID = id.AuditRecordID(uuid.New())
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = requestcontext.Now(ctx)
	}
	if rec.IPAddress == "" {
		rec.IPAddress = privacy.AnonymizeIP(requestcontext.ClientIP(ctx))
	}
	if rec.UserAgent == "" {
		rec.UserAgent = SummarizeUserAgent(requestcontext.UserAgent(ctx))
	}
	if rec.RequestID == "" {
		rec.RequestID = requestcontext.RequestID(ctx)
	}
}

// drain is the single background writer for Submit'd records.
func (r *Recorder) drain() {
	defer r.wg.Done()
	for rec := range r.queue {
		metrics.QueueDepth.Set(float64(len(r.queue)))
		r.write(rec)
	}
}

func (r *Recorder) write(rec *AccessRecord) {
	// Detached from the request: the submitting request may be long gone.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err = r.store.Append(ctx, rec); err == nil {
			metrics.RecordsWritten.WithLabelValues(string(rec.AccessType)).Inc()
			return
		}
		if attempt < writeAttempts {
			metrics.WriteRetries.Inc()
			time.Sleep(retryBackoff * time.Duration(attempt))
		}
	}
	metrics.RecordsDropped.WithLabelValues("write_failed").Inc()
	r.logger.Error("audit record dropped after retries",
		"officer_id", rec.OfficerID,
		"field", rec.Field,
		"access_type", rec.AccessType,
		"attempts", writeAttempts,
		"error", err,
	)
}

// Close stops accepting submissions and waits for queued records to be
// written. Call during graceful shutdown.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

// ListByOfficer exposes the trail for the admin surface.
func (r *Recorder) ListByOfficer(ctx context.Context, officerID id.OfficerID, limit int) ([]*AccessRecord, error) {
	records, err := r.store.ListByOfficer(ctx, officerID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit records")
	}
	return records, nil
}
