package ports

import (
	"context"
	"time"

	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/events"
)

// CourseGenerator produces a course from generation settings.
type CourseGenerator interface {
	Generate(ctx context.Context, settings entities.GenerationSettings) (*entities.Course, error)
	// Health reports whether the generator can currently serve requests.
	Health(ctx context.Context) error
}

// EventPublisher publishes domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// FrameSink receives simulation frames, typically to push them to clients.
type FrameSink interface {
	PublishFrame(frame Frame)
}

// Metrics is what the application layer records. A nil Metrics is allowed
// wherever one is accepted.
type Metrics interface {
	ObserveTick(d time.Duration, nodes int, maxDisplacement float64)
	FramePublished()
	GeneratorCall(outcome string)
}

// Generator outcomes recorded through Metrics.
const (
	GeneratorOutcomeSuccess  = "success"
	GeneratorOutcomeFallback = "fallback"
	GeneratorOutcomeFailure  = "failure"
)
