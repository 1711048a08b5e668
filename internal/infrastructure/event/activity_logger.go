package event

import (
	"context"

	"github.com/sokohub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler records marketplace activity by logging every domain
// event published on the bus. It subscribes as a wildcard handler.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new activity log handler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger}
}

// Handle logs the event with its identifying fields
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("marketplace activity",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
