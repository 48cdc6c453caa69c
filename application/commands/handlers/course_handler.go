package handlers

import (
	"context"
	"strings"
	"time"

	"fillai-backend/application/commands"
	"fillai-backend/application/ports"
	"fillai-backend/application/services"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	pkgerrors "fillai-backend/pkg/errors"

	"go.uber.org/zap"
)

// CourseHandler handles catalog commands.
type CourseHandler struct {
	session      *services.GraphSession
	catalogRepo  ports.CatalogRepository
	progressRepo ports.ProgressRepository
	generator    ports.CourseGenerator
	fallback     ports.CourseGenerator
	publisher    ports.EventPublisher
	metrics      ports.Metrics
	baseURL      string
	logger       *zap.Logger
}

// NewCourseHandler creates a course command handler. fallback may be nil,
// in which case generator failures are returned to the caller.
func NewCourseHandler(
	session *services.GraphSession,
	catalogRepo ports.CatalogRepository,
	progressRepo ports.ProgressRepository,
	generator ports.CourseGenerator,
	fallback ports.CourseGenerator,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	baseURL string,
	logger *zap.Logger,
) *CourseHandler {
	return &CourseHandler{
		session:      session,
		catalogRepo:  catalogRepo,
		progressRepo: progressRepo,
		generator:    generator,
		fallback:     fallback,
		publisher:    publisher,
		metrics:      metrics,
		baseURL:      baseURL,
		logger:       logger,
	}
}

// HandleGenerateCourse generates a course, falling back to the local
// generator when the remote one fails, and files it in the catalog.
func (h *CourseHandler) HandleGenerateCourse(ctx context.Context, cmd commands.GenerateCourseCommand) error {
	origin := aggregates.OriginGenerated
	course, err := h.generator.Generate(ctx, cmd.Settings)
	if err != nil {
		if h.fallback == nil {
			h.recordGenerator(ports.GeneratorOutcomeFailure)
			return err
		}
		h.logger.Warn("Course generator failed, using fallback",
			zap.String("topic", cmd.Settings.Topic),
			zap.Error(err),
		)
		h.recordGenerator(ports.GeneratorOutcomeFallback)
		if course, err = h.fallback.Generate(ctx, cmd.Settings); err != nil {
			return pkgerrors.Wrap(err, "fallback generator failed")
		}
		origin = aggregates.OriginFallback
	} else {
		h.recordGenerator(ports.GeneratorOutcomeSuccess)
	}

	course.ID = cmd.CourseID
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}

	err = h.session.UpdateCatalog(func(c *aggregates.Catalog) error {
		return c.AddCourse(course, generatedCategory(cmd.Settings, course), origin)
	})
	if err != nil {
		return err
	}
	h.persist(ctx, course)
	publishPending(ctx, h.session, h.publisher, h.logger)

	h.logger.Info("Course added",
		zap.String("courseID", course.ID),
		zap.String("category", course.Category),
		zap.Bool("fallback", origin == aggregates.OriginFallback),
	)
	return nil
}

func (h *CourseHandler) HandleCreateCourse(ctx context.Context, cmd commands.CreateCourseCommand) error {
	var course *entities.Course
	err := h.session.UpdateCatalog(func(c *aggregates.Catalog) error {
		var err error
		course, err = c.CreateUserCourse(cmd.CourseID, cmd.Input, h.baseURL, time.Now())
		return err
	})
	if err != nil {
		return err
	}
	h.persist(ctx, course)
	publishPending(ctx, h.session, h.publisher, h.logger)
	return nil
}

func (h *CourseHandler) HandleShareCourse(ctx context.Context, cmd commands.ShareCourseCommand) error {
	var course *entities.Course
	err := h.session.EditCatalog(func(c *aggregates.Catalog) error {
		var err error
		course, _, err = c.ShareCourse(cmd.CourseID, time.Now())
		return err
	})
	if err != nil {
		return err
	}
	h.persist(ctx, course)
	publishPending(ctx, h.session, h.publisher, h.logger)
	return nil
}

// HandleDeleteCourse removes the course and everything stored about it.
func (h *CourseHandler) HandleDeleteCourse(ctx context.Context, cmd commands.DeleteCourseCommand) error {
	err := h.session.UpdateCatalog(func(c *aggregates.Catalog) error {
		return c.RemoveCourse(cmd.CourseID)
	})
	if err != nil {
		return err
	}
	if err := h.catalogRepo.Delete(ctx, cmd.CourseID); err != nil {
		h.logger.Warn("Failed to delete stored course", zap.String("courseID", cmd.CourseID), zap.Error(err))
	}
	if err := h.progressRepo.DeleteCourse(ctx, cmd.CourseID); err != nil {
		h.logger.Warn("Failed to delete course progress", zap.String("courseID", cmd.CourseID), zap.Error(err))
	}
	publishPending(ctx, h.session, h.publisher, h.logger)
	return nil
}

// persist stores a course. The in-memory catalog stays authoritative, so a
// failed write is logged only.
func (h *CourseHandler) persist(ctx context.Context, course *entities.Course) {
	if err := h.catalogRepo.Save(ctx, course); err != nil {
		h.logger.Warn("Failed to store course",
			zap.String("courseID", course.ID),
			zap.Error(err),
		)
	}
}

func (h *CourseHandler) recordGenerator(outcome string) {
	if h.metrics != nil {
		h.metrics.GeneratorCall(outcome)
	}
}

// generatedCategory picks the category a generated course is filed under:
// the user's choice first, then whatever the generator suggested.
func generatedCategory(settings entities.GenerationSettings, course *entities.Course) string {
	if name := settings.CategoryName(); name != entities.UncategorizedName {
		return name
	}
	for _, name := range []string{course.CategoryLabel, course.Category} {
		if n := strings.TrimSpace(name); n != "" {
			return n
		}
	}
	return entities.UncategorizedName
}
