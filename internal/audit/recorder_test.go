package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyStore fails the first n Append calls, then delegates to the wrapped
// store.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	inner    Store
}

func (f *flakyStore) Append(ctx context.Context, rec *AccessRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("store unavailable")
	}
	return f.inner.Append(ctx, rec)
}

func (f *flakyStore) ListByOfficer(ctx context.Context, officerID id.OfficerID, limit int) ([]*AccessRecord, error) {
	return f.inner.ListByOfficer(ctx, officerID, limit)
}

func sampleRecord() *AccessRecord {
	return &AccessRecord{
		UserID:      id.UserID(uuid.New()),
		UserRole:    id.RoleHR,
		UserName:    "rahim",
		OfficerID:   id.OfficerID(uuid.New()),
		OfficerName: "Officer Karim",
		Field:       id.FieldPersonalMobile,
		MaskedValue: "017*****678",
		AccessType:  AccessView,
	}
}

// TestRecorder_Record verifies the synchronous path assigns an ID, stamps
// client metadata in anonymized form, and persists immediately.
func TestRecorder_Record(t *testing.T) {
	store := NewInMemoryStore()
	r := NewRecorder(store, testLogger())
	defer r.Close()

	ctx := requestcontext.WithClientMetadata(context.Background(), "192.168.1.47", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	ctx = requestcontext.WithRequestID(ctx, "req-1")

	rec := sampleRecord()
	recordID, err := r.Record(ctx, rec)
	require.NoError(t, err)
	assert.False(t, recordID.IsNil())

	stored, err := store.ListByOfficer(ctx, rec.OfficerID, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "192.168.1.0", stored[0].IPAddress, "raw client IP must never be persisted")
	assert.NotContains(t, stored[0].UserAgent, "Mozilla", "raw user agent must be summarized")
	assert.Equal(t, "req-1", stored[0].RequestID)
	assert.False(t, stored[0].CreatedAt.IsZero())
}

// TestRecorder_Submit verifies the async path eventually persists without
// blocking the caller.
func TestRecorder_Submit(t *testing.T) {
	store := NewInMemoryStore()
	r := NewRecorder(store, testLogger())

	rec := sampleRecord()
	r.Submit(context.Background(), rec)
	r.Close()

	stored, err := store.ListByOfficer(context.Background(), rec.OfficerID, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

// TestRecorder_SubmitRetriesTransientFailure verifies a transient store
// failure does not lose the record.
func TestRecorder_SubmitRetriesTransientFailure(t *testing.T) {
	inner := NewInMemoryStore()
	store := &flakyStore{failures: 2, inner: inner}
	r := NewRecorder(store, testLogger())

	rec := sampleRecord()
	r.Submit(context.Background(), rec)
	r.Close()

	stored, err := inner.ListByOfficer(context.Background(), rec.OfficerID, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1, "record must survive transient store failures")
}

// TestRecorder_SubmitNeverBlocks verifies a full queue drops instead of
// stalling the read path.
func TestRecorder_SubmitNeverBlocks(t *testing.T) {
	// Store that blocks until released, forcing the queue to fill.
	release := make(chan struct{})
	blocking := &blockingStore{release: release}
	r := NewRecorder(blocking, testLogger(), WithQueueSize(1))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			r.Submit(context.Background(), sampleRecord())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	close(release)
	r.Close()
}

type blockingStore struct {
	release chan struct{}
}

func (b *blockingStore) Append(context.Context, *AccessRecord) error {
	<-b.release
	return nil
}

func (b *blockingStore) ListByOfficer(context.Context, id.OfficerID, int) ([]*AccessRecord, error) {
	return nil, nil
}

// TestSummarizeUserAgent spot-checks the reduction.
func TestSummarizeUserAgent(t *testing.T) {
	assert.Equal(t, "unknown", SummarizeUserAgent(""))
	summary := SummarizeUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Contains(t, summary, "Chrome")
	assert.NotContains(t, summary, "AppleWebKit")
}
