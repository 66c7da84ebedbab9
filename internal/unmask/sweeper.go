package unmask

import (
	"context"
	"log/slog"
	"time"

	"bigoffice/internal/unmask/metrics"
)

const sweepBatchSize = 100

// Sweeper expires pending requests whose second-factor code lapsed without
// verification. Requests already verified and awaiting approval are left
// alone; their code no longer matters.
type Sweeper struct {
	store    Store
	logger   *slog.Logger
	interval time.Duration
}

func NewSweeper(store Store, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{store: store, logger: logger, interval: interval}
}

// Run sweeps until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one expiry pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now()
	pending, err := s.store.ListPendingBefore(ctx, now, sweepBatchSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "unmask expiry sweep failed", "error", err)
		return
	}
	for _, req := range pending {
		if req.MFAVerified {
			continue
		}
		req.Status = StatusExpired
		req.DecidedAt = now
		if err := s.store.Update(ctx, req); err != nil {
			s.logger.ErrorContext(ctx, "failed to expire unmask request",
				"request_id", req.ID,
				"error", err,
			)
			continue
		}
		metrics.Decisions.WithLabelValues(string(StatusExpired)).Inc()
		s.logger.InfoContext(ctx, "unmask request expired",
			"request_id", req.ID,
			"field", req.Field,
		)
	}
}
