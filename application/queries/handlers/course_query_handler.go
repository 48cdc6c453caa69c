package handlers

import (
	"context"

	"fillai-backend/application/ports"
	"fillai-backend/application/queries"
	"fillai-backend/application/services"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	domainservices "fillai-backend/domain/services"

	"go.uber.org/zap"
)

// CourseQueryHandler serves catalog and progress reads.
type CourseQueryHandler struct {
	session  *services.GraphSession
	progress ports.ProgressRepository
	logger   *zap.Logger
}

// NewCourseQueryHandler creates a new course query handler
func NewCourseQueryHandler(session *services.GraphSession, progress ports.ProgressRepository, logger *zap.Logger) *CourseQueryHandler {
	return &CourseQueryHandler{
		session:  session,
		progress: progress,
		logger:   logger,
	}
}

func (h *CourseQueryHandler) HandleListCategories(_ context.Context, q queries.ListCategoriesQuery) ([]queries.CategorySummary, error) {
	var result []queries.CategorySummary
	err := h.session.ViewCatalog(func(c *aggregates.Catalog) error {
		cats := c.WithCoursesOnly()
		if q.IncludeEmpty {
			cats = c.Categories()
		}
		result = make([]queries.CategorySummary, 0, len(cats))
		for _, cat := range cats {
			result = append(result, queries.CategorySummary{
				ID:          cat.ID,
				Label:       cat.Label,
				CourseCount: len(cat.Courses),
			})
		}
		return nil
	})
	return result, err
}

func (h *CourseQueryHandler) HandleListCourses(_ context.Context, q queries.ListCoursesQuery) ([]queries.CourseSummary, error) {
	var result []queries.CourseSummary
	err := h.session.ViewCatalog(func(c *aggregates.Catalog) error {
		courses := c.Courses()
		result = make([]queries.CourseSummary, 0, len(courses))
		for _, course := range courses {
			if q.CategoryID != "" && course.Category != q.CategoryID {
				continue
			}
			if q.PublicOnly && !course.IsPublic {
				continue
			}
			result = append(result, summarize(course))
		}
		return nil
	})
	return result, err
}

// HandleGetCourse returns a copy of the course so callers cannot mutate the
// catalog outside the session lock.
func (h *CourseQueryHandler) HandleGetCourse(_ context.Context, q queries.GetCourseQuery) (*entities.Course, error) {
	var result *entities.Course
	err := h.session.ViewCatalog(func(c *aggregates.Catalog) error {
		course, err := c.Course(q.CourseID)
		if err != nil {
			return err
		}
		cp := *course
		result = &cp
		return nil
	})
	return result, err
}

func (h *CourseQueryHandler) HandleGetCourseProgress(ctx context.Context, q queries.GetCourseProgressQuery) (*queries.CourseProgressResult, error) {
	course, err := h.HandleGetCourse(ctx, queries.GetCourseQuery{CourseID: q.CourseID})
	if err != nil {
		return nil, err
	}

	completed := h.progress.CompletedLessons(ctx, q.CourseID)
	notes := h.progress.Notes(ctx, q.CourseID)
	bookmarks := h.progress.Bookmarks(ctx, q.CourseID)
	if completed == nil {
		completed = []string{}
	}
	if notes == nil {
		notes = map[string]string{}
	}
	if bookmarks == nil {
		bookmarks = []string{}
	}

	return &queries.CourseProgressResult{
		CourseID:         q.CourseID,
		Progress:         domainservices.CalculateProgress(course, completed),
		CompletedCount:   domainservices.CompletedCount(course, completed),
		TotalLessons:     course.TotalLessons(),
		CompletedLessons: completed,
		Notes:            notes,
		Bookmarks:        bookmarks,
	}, nil
}

func summarize(c *entities.Course) queries.CourseSummary {
	return queries.CourseSummary{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		CategoryLabel: c.CategoryLabel,
		Level:         c.Level,
		Duration:      c.Duration,
		IsPaid:        c.IsPaid,
		Price:         c.Price,
		IsPublic:      c.IsPublic,
		Views:         c.Views,
		TotalLessons:  c.TotalLessons(),
		CreatedAt:     c.CreatedAt,
		PublishedAt:   c.PublishedAt,
		Tags:          c.Tags,
	}
}
