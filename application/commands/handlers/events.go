package handlers

import (
	"context"

	"fillai-backend/application/ports"
	"fillai-backend/application/services"
	"fillai-backend/domain/events"

	"go.uber.org/zap"
)

// publishPending sends the session's queued events plus extra. Publishing
// failures are logged and never fail the command.
func publishPending(ctx context.Context, session *services.GraphSession, publisher ports.EventPublisher, logger *zap.Logger, extra ...events.DomainEvent) {
	pending := append(session.DrainEvents(), extra...)
	if len(pending) == 0 || publisher == nil {
		return
	}
	if err := publisher.PublishBatch(ctx, pending); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
	}
}
