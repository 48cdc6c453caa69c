package queries

import (
	"time"

	pkgerrors "fillai-backend/pkg/errors"
)

// ListCategoriesQuery lists catalog categories in creation order.
type ListCategoriesQuery struct {
	// IncludeEmpty also lists categories whose courses were all removed.
	IncludeEmpty bool
}

func (q ListCategoriesQuery) Validate() error { return nil }

// CategorySummary is a category without its course bodies.
type CategorySummary struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	CourseCount int    `json:"courseCount"`
}

// ListCoursesQuery lists courses, optionally filtered.
type ListCoursesQuery struct {
	CategoryID string
	PublicOnly bool
}

func (q ListCoursesQuery) Validate() error { return nil }

// CourseSummary is a course card.
type CourseSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	CategoryLabel string     `json:"categoryLabel"`
	Level         string     `json:"level"`
	Duration      string     `json:"duration"`
	IsPaid        bool       `json:"isPaid"`
	Price         float64    `json:"price,omitempty"`
	IsPublic      bool       `json:"isPublic"`
	Views         int        `json:"views"`
	TotalLessons  int        `json:"totalLessons"`
	CreatedAt     time.Time  `json:"createdAt"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}

// GetCourseQuery fetches a full course.
type GetCourseQuery struct {
	CourseID string
}

func (q GetCourseQuery) Validate() error {
	if q.CourseID == "" {
		return pkgerrors.NewValidationError("course ID is required")
	}
	return nil
}

// GetCourseProgressQuery fetches the learning state of a course.
type GetCourseProgressQuery struct {
	CourseID string
}

func (q GetCourseProgressQuery) Validate() error {
	if q.CourseID == "" {
		return pkgerrors.NewValidationError("course ID is required")
	}
	return nil
}

// CourseProgressResult is the learning state of one course.
type CourseProgressResult struct {
	CourseID         string            `json:"courseId"`
	Progress         int               `json:"progress"`
	CompletedCount   int               `json:"completedCount"`
	TotalLessons     int               `json:"totalLessons"`
	CompletedLessons []string          `json:"completedLessons"`
	Notes            map[string]string `json:"notes"`
	Bookmarks        []string          `json:"bookmarks"`
}
