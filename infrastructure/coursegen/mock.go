package coursegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fillai-backend/domain/core/entities"

	"github.com/google/uuid"
)

// MockGenerator builds a small placeholder course locally. It never fails.
type MockGenerator struct {
	now func() time.Time
}

// NewMockGenerator creates the local fallback generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{now: time.Now}
}

func (g *MockGenerator) Generate(_ context.Context, s entities.GenerationSettings) (*entities.Course, error) {
	topic := strings.TrimSpace(s.Topic)
	lesson := func(title, content string) entities.Lesson {
		return entities.Lesson{ID: uuid.NewString(), Title: title, Content: content}
	}

	return &entities.Course{
		ID:            uuid.NewString(),
		Title:         "Course on " + topic,
		Description:   strings.TrimSpace("An automatically generated demo course. " + s.Preferences),
		CategoryLabel: s.CategoryName(),
		Format:        orDefault(s.Format, "Mixed"),
		Level:         orDefault(s.Level, "Beginner"),
		Duration:      orDefault(s.Duration, "4 weeks"),
		Intensity:     orDefault(s.Intensity, "Medium"),
		Goal:          orDefault(s.Goal, "General knowledge"),
		CreatedAt:     g.now().UTC(),
		IsPublic:      true,
		Tags:          s.Tags,
		Language:      orDefault(s.Language, "en"),
		CreatedBy:     "Fill AI",
		Modules: []entities.Module{
			{
				ID:    uuid.NewString(),
				Title: "Introduction",
				Lessons: []entities.Lesson{
					lesson("What is "+topic, fmt.Sprintf("In this lesson we cover the basics of %q and its key concepts.", topic)),
					lesson("Use cases", fmt.Sprintf("Practical examples of %q in real situations.", topic)),
				},
			},
			{
				ID:    uuid.NewString(),
				Title: "Practice",
				Lessons: []entities.Lesson{
					lesson("Exercises", fmt.Sprintf("Work through the exercises to consolidate %q.", topic)),
					lesson("Test", "Take the test to check what you have learned."),
				},
			},
		},
	}, nil
}

// Health always succeeds.
func (g *MockGenerator) Health(context.Context) error { return nil }

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
