// Package logging is the event publisher used when no bus is configured.
package logging

import (
	"context"

	"fillai-backend/domain/events"

	"go.uber.org/zap"
)

// Publisher writes each event to the log at debug level.
type Publisher struct {
	logger *zap.Logger
}

// NewPublisher creates a logging publisher.
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger.Named("events")}
}

func (p *Publisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.logger.Debug("Domain event",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Time("at", event.GetTimestamp()),
	)
	return nil
}

func (p *Publisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, e := range batch {
		_ = p.Publish(ctx, e)
	}
	return nil
}
