package unmask

import (
	"context"
	"log/slog"

	id "bigoffice/pkg/domain"
)

// Dispatcher delivers a second-factor code to the requesting actor out of
// band. Delivery is best effort; a failed delivery leaves the request
// pending until its code expires.
type Dispatcher interface {
	Deliver(ctx context.Context, actor *id.Actor, requestID id.UnmaskRequestID, code string) error
}

// LogDispatcher writes the code to the application log. Development and
// single-instance deployments only; production wires an SMS/email gateway.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Deliver(ctx context.Context, actor *id.Actor, requestID id.UnmaskRequestID, code string) error {
	d.logger.InfoContext(ctx, "second-factor code issued",
		"request_id", requestID,
		"user_id", actor.ID,
		"code", code,
	)
	return nil
}
