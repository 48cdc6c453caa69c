package aggregates

import (
	"testing"
	"time"

	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/events"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course(id, title string) *entities.Course {
	return &entities.Course{ID: id, Title: title, Modules: []entities.Module{{Title: "m", Lessons: []entities.Lesson{{Title: "l"}}}}}
}

func TestCatalog_AddCourse(t *testing.T) {
	c := NewCatalog()

	require.NoError(t, c.AddCourse(course("c1", "React"), "Web Development", OriginGenerated))
	require.NoError(t, c.AddCourse(course("c2", "Vue"), "Web  Development", OriginManual))
	require.NoError(t, c.AddCourse(course("c3", "Misc"), "  ", OriginFallback))

	cats := c.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "web-development", cats[0].ID)
	assert.Equal(t, "Web Development", cats[0].Label)
	assert.Len(t, cats[0].Courses, 2)
	assert.Equal(t, "uncategorized", cats[1].ID)

	c2, err := c.Course("c2")
	require.NoError(t, err)
	assert.Equal(t, "web-development", c2.Category)

	assert.True(t, pkgerrors.IsConflict(c.AddCourse(course("c1", "Again"), "x", OriginManual)))
	assert.True(t, pkgerrors.IsValidation(c.AddCourse(course("c9", ""), "x", OriginManual)))

	evts := c.GetUncommittedEvents()
	require.Len(t, evts, 3)
	added := evts[2].(events.CourseAdded)
	assert.True(t, added.Generated)
	assert.True(t, added.Fallback)

	require.NoError(t, c.AddCourse(course("c4", "Old"), "Archive", OriginRestored))
	assert.Len(t, c.GetUncommittedEvents(), 3)
}

func TestCatalog_RemoveCourse(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.AddCourse(course("c1", "React"), "Frontend", OriginManual))
	require.NoError(t, c.AddCourse(course("c2", "SQL"), "Data", OriginManual))

	require.NoError(t, c.RemoveCourse("c1"))
	assert.True(t, pkgerrors.IsNotFound(c.RemoveCourse("c1")))

	assert.Len(t, c.Categories(), 2)
	onlyFull := c.WithCoursesOnly()
	require.Len(t, onlyFull, 1)
	assert.Equal(t, "data", onlyFull[0].ID)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "c2", c.Courses()[0].ID)
}

func TestCatalog_ShareCourse(t *testing.T) {
	c := NewCatalog()
	cc := course("c1", "React")
	cc.IsPrivate = true
	cc.Views = 7
	require.NoError(t, c.AddCourse(cc, "Frontend", OriginManual))

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	shared, isNew, err := c.ShareCourse("c1", first)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, shared.IsPublic)
	assert.False(t, shared.IsPrivate)
	assert.Equal(t, 0, shared.Views)
	require.NotNil(t, shared.PublishedAt)

	shared.Views = 3
	again, isNew, err := c.ShareCourse("c1", first.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first, *again.PublishedAt)
	assert.Equal(t, 3, again.Views)

	_, _, err = c.ShareCourse("nope", first)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCatalog_CreateUserCourse(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		input     entities.CourseInput
		wantLink  bool
		wantPrice float64
		wantErr   bool
	}{
		{
			name:     "private course gets share link",
			input:    entities.CourseInput{Title: "Go", CategoryName: "Backend", IsPrivate: true, Tags: "go, web"},
			wantLink: true,
		},
		{
			name:      "paid public course",
			input:     entities.CourseInput{Title: "Rust", CategoryName: "Backend", IsPaid: true, Price: 9.5},
			wantPrice: 9.5,
		},
		{
			name:  "free course drops price",
			input: entities.CourseInput{Title: "C", CategoryName: "Backend", Price: 4},
		},
		{
			name:    "missing title",
			input:   entities.CourseInput{Title: " ", CategoryName: "Backend"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			got, err := c.CreateUserCourse("", tt.input, "https://fill.ai/", now)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "backend", got.Category)
			assert.Equal(t, tt.wantPrice, got.Price)
			assert.Equal(t, !tt.input.IsPrivate, got.IsPublic)
			if tt.wantLink {
				assert.Equal(t, "https://fill.ai/course/"+got.ID, got.ShareLink)
				assert.Equal(t, []string{"go", "web"}, got.Tags)
			} else {
				assert.Empty(t, got.ShareLink)
			}
		})
	}
}
