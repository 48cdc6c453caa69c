package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	pkgerrors "fillai-backend/pkg/errors"
)

// PracticeExercise is a hands-on task attached to a lesson.
type PracticeExercise struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	EstimatedTime string `json:"estimated_time,omitempty"`
	SolutionHint  string `json:"solution_hint,omitempty"`
}

// VideoMaterial is an external video recommended by a lesson.
type VideoMaterial struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Channel     string `json:"channel,omitempty"`
}

// AdditionalMaterial is a reading or other resource.
type AdditionalMaterial struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// TermExplanation is a glossary entry inside a lesson.
type TermExplanation struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// Lesson is the smallest unit of progress.
type Lesson struct {
	ID                  string               `json:"id"`
	Title               string               `json:"title"`
	Content             string               `json:"content"`
	DurationMinutes     int                  `json:"duration_minutes,omitempty"`
	PracticeExercises   []PracticeExercise   `json:"practice_exercises,omitempty"`
	Videos              []VideoMaterial      `json:"videos,omitempty"`
	AdditionalMaterials []AdditionalMaterial `json:"additional_materials,omitempty"`
	Terms               []TermExplanation    `json:"terms,omitempty"`
}

// Module groups lessons.
type Module struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Lessons     []Lesson `json:"lessons"`
}

// Course is a generated or user-authored course. Category holds the
// category slug; CategoryLabel the human name it was created with.
type Course struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	CategoryLabel string     `json:"category_label"`
	Format        string     `json:"format"`
	Level         string     `json:"level"`
	Duration      string     `json:"duration"`
	Intensity     string     `json:"intensity"`
	Goal          string     `json:"goal"`
	CreatedAt     time.Time  `json:"created_at"`
	IsPaid        bool       `json:"is_paid"`
	Price         float64    `json:"price,omitempty"`
	IsPublic      bool       `json:"is_public"`
	IsPrivate     bool       `json:"is_private"`
	ShareLink     string     `json:"share_link,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Language      string     `json:"language,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	Views         int        `json:"views"`
	Modules       []Module   `json:"modules"`
}

// Validate checks the fields a course cannot live without.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return pkgerrors.NewValidationError("course id cannot be empty")
	}
	if strings.TrimSpace(c.Title) == "" {
		return pkgerrors.NewValidationError("course title cannot be empty")
	}
	if c.Price < 0 {
		return pkgerrors.NewValidationError("course price cannot be negative")
	}
	return nil
}

// TotalLessons counts lessons across all modules.
func (c *Course) TotalLessons() int {
	total := 0
	for _, m := range c.Modules {
		total += len(m.Lessons)
	}
	return total
}

// LessonKey identifies a lesson by module and lesson index.
func LessonKey(moduleIdx, lessonIdx int) string {
	return fmt.Sprintf("%d-%d", moduleIdx, lessonIdx)
}

var lessonKeyPattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// ParseLessonKey splits a "{module}-{lesson}" key.
func ParseLessonKey(key string) (moduleIdx, lessonIdx int, err error) {
	m := lessonKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, 0, pkgerrors.NewValidationError(fmt.Sprintf("invalid lesson key %q", key))
	}
	moduleIdx, _ = strconv.Atoi(m[1])
	lessonIdx, _ = strconv.Atoi(m[2])
	return moduleIdx, lessonIdx, nil
}

// HasLesson reports whether key addresses a lesson of this course.
func (c *Course) HasLesson(key string) bool {
	mi, li, err := ParseLessonKey(key)
	if err != nil || mi >= len(c.Modules) {
		return false
	}
	return li < len(c.Modules[mi].Lessons)
}

// Lesson returns the lesson addressed by key.
func (c *Course) Lesson(key string) (*Lesson, error) {
	if !c.HasLesson(key) {
		return nil, pkgerrors.NewNotFoundError("lesson " + key)
	}
	mi, li, _ := ParseLessonKey(key)
	return &c.Modules[mi].Lessons[li], nil
}

// LessonKeys lists every lesson key in module order.
func (c *Course) LessonKeys() []string {
	keys := make([]string, 0, c.TotalLessons())
	for mi, m := range c.Modules {
		for li := range m.Lessons {
			keys = append(keys, LessonKey(mi, li))
		}
	}
	return keys
}
