package aggregates

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/events"
	pkgerrors "fillai-backend/pkg/errors"
)

// CourseOrigin records how a course entered the catalog.
type CourseOrigin int

const (
	OriginManual CourseOrigin = iota
	OriginGenerated
	OriginFallback
	// OriginRestored is used when loading persisted courses. No event is raised.
	OriginRestored
)

// Catalog holds the user's categories and courses in creation order.
type Catalog struct {
	categories []*entities.Category
	byID       map[string]*entities.Category
	courses    map[string]*entities.Course
	order      []string
	events     []events.DomainEvent
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:    make(map[string]*entities.Category),
		courses: make(map[string]*entities.Course),
	}
}

// AddCourse files a course under categoryName, creating the category when
// it does not exist yet. An empty name falls back to Uncategorized.
func (c *Catalog) AddCourse(course *entities.Course, categoryName string, origin CourseOrigin) error {
	if course == nil {
		return pkgerrors.NewValidationError("course cannot be nil")
	}
	if err := course.Validate(); err != nil {
		return err
	}
	if _, exists := c.courses[course.ID]; exists {
		return pkgerrors.NewConflictError(fmt.Sprintf("course %s already exists", course.ID))
	}

	name := strings.TrimSpace(categoryName)
	if name == "" {
		name = entities.UncategorizedName
	}
	cat := c.ensureCategory(name)
	course.Category = cat.ID
	course.CategoryLabel = cat.Label

	cat.Courses = append(cat.Courses, course)
	c.courses[course.ID] = course
	c.order = append(c.order, course.ID)

	if origin != OriginRestored {
		c.events = append(c.events, events.NewCourseAdded(
			course.ID, cat.ID, course.Title,
			origin == OriginGenerated || origin == OriginFallback,
			origin == OriginFallback,
			time.Now(),
		))
	}
	return nil
}

func (c *Catalog) ensureCategory(name string) *entities.Category {
	id := entities.Slugify(name)
	if cat, ok := c.byID[id]; ok {
		return cat
	}
	cat := &entities.Category{ID: id, Label: name}
	c.byID[id] = cat
	c.categories = append(c.categories, cat)
	return cat
}

// Categories returns every category in creation order.
func (c *Catalog) Categories() []*entities.Category {
	out := make([]*entities.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// WithCoursesOnly returns the categories that would appear in the graph.
func (c *Catalog) WithCoursesOnly() []*entities.Category {
	out := make([]*entities.Category, 0, len(c.categories))
	for _, cat := range c.categories {
		if cat.HasCourses() {
			out = append(out, cat)
		}
	}
	return out
}

// Category returns a category by slug.
func (c *Catalog) Category(id string) (*entities.Category, error) {
	cat, ok := c.byID[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("category " + id)
	}
	return cat, nil
}

// Course returns a course by id.
func (c *Catalog) Course(id string) (*entities.Course, error) {
	course, ok := c.courses[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("course " + id)
	}
	return course, nil
}

// Courses returns every course in insertion order.
func (c *Catalog) Courses() []*entities.Course {
	out := make([]*entities.Course, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.courses[id])
	}
	return out
}

// Len is the number of courses.
func (c *Catalog) Len() int { return len(c.order) }

// RemoveCourse deletes a course. Its category stays, possibly empty.
func (c *Catalog) RemoveCourse(id string) error {
	course, err := c.Course(id)
	if err != nil {
		return err
	}
	delete(c.courses, id)
	for i, cid := range c.order {
		if cid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if cat, ok := c.byID[course.Category]; ok {
		for i, cc := range cat.Courses {
			if cc.ID == id {
				cat.Courses = append(cat.Courses[:i], cat.Courses[i+1:]...)
				break
			}
		}
	}
	c.events = append(c.events, events.NewCourseRemoved(id, course.Category, time.Now()))
	return nil
}

// ShareCourse publishes a course to the community. Sharing twice keeps the
// first publication time and view count; the bool reports a first share.
func (c *Catalog) ShareCourse(id string, now time.Time) (*entities.Course, bool, error) {
	course, err := c.Course(id)
	if err != nil {
		return nil, false, err
	}
	if course.IsPublic && course.PublishedAt != nil {
		return course, false, nil
	}
	published := now.UTC()
	course.IsPublic = true
	course.IsPrivate = false
	course.PublishedAt = &published
	course.Views = 0
	c.events = append(c.events, events.NewCourseShared(id, now))
	return course, true, nil
}

// CreateUserCourse builds a hand-authored course with an overview module and
// adds it to the catalog. An empty id is replaced with a new one. Private
// courses get a share link under baseURL.
func (c *Catalog) CreateUserCourse(id string, in entities.CourseInput, baseURL string, now time.Time) (*entities.Course, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, pkgerrors.NewValidationError("course title cannot be empty")
	}
	if id == "" {
		id = uuid.New().String()
	}
	level, duration := in.Level, in.Duration
	if level == "" {
		level = "Beginner"
	}
	if duration == "" {
		duration = "4 weeks"
	}
	intensity := "Self-paced"
	if in.IsPaid {
		intensity = "Standard"
	}
	course := &entities.Course{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Format:      "Online",
		Level:       level,
		Duration:    duration,
		Intensity:   intensity,
		Goal:        "Community course",
		CreatedAt:   now.UTC(),
		IsPaid:      in.IsPaid,
		Price:       in.Price,
		IsPrivate:   in.IsPrivate,
		IsPublic:    !in.IsPrivate,
		Tags:        in.TagList(),
		CreatedBy:   "You",
		Modules: []entities.Module{{
			ID:          uuid.New().String(),
			Title:       "Course overview",
			Description: "General description and structure of the course.",
			Lessons: []entities.Lesson{{
				ID:      uuid.New().String(),
				Title:   "Overview",
				Content: "The author has not added detailed lessons yet. You can already use this course as a study outline.",
			}},
		}},
	}
	if !course.IsPaid {
		course.Price = 0
	}
	if course.IsPrivate {
		course.ShareLink = strings.TrimRight(baseURL, "/") + "/course/" + course.ID
	}
	if err := c.AddCourse(course, in.CategoryName, OriginManual); err != nil {
		return nil, err
	}
	return course, nil
}

// GetUncommittedEvents returns events raised since the last commit.
func (c *Catalog) GetUncommittedEvents() []events.DomainEvent {
	return c.events
}

// MarkEventsAsCommitted clears recorded events.
func (c *Catalog) MarkEventsAsCommitted() {
	c.events = nil
}
