package handlers

import (
	"context"
	"testing"
	"time"

	"fillai-backend/application/queries"
	"fillai-backend/application/services"
	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	domainservices "fillai-backend/domain/services"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSession(t *testing.T, mode config.LayoutMode) *services.GraphSession {
	t.Helper()
	s, err := services.NewGraphSession(domainservices.NewLayoutBuilder(config.DefaultLayoutConfig()), mode, zap.NewNop())
	require.NoError(t, err)

	course := func(id, title string, public bool) *entities.Course {
		return &entities.Course{
			ID:        id,
			Title:     title,
			IsPublic:  public,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Modules: []entities.Module{{
				Title:   "Basics",
				Lessons: []entities.Lesson{{Title: "A"}, {Title: "B"}, {Title: "C"}},
			}},
		}
	}
	require.NoError(t, s.UpdateCatalog(func(c *aggregates.Catalog) error {
		for _, add := range []struct {
			course   *entities.Course
			category string
		}{
			{course("c1", "React", true), "Frontend"},
			{course("c2", "Vue", false), "Frontend"},
			{course("c3", "SQL", false), "Data Science"},
		} {
			if err := c.AddCourse(add.course, add.category, aggregates.OriginManual); err != nil {
				return err
			}
		}
		return nil
	}))
	return s
}

type memProgressRepo struct {
	completed map[string][]string
	notes     map[string]map[string]string
	bookmarks map[string][]string
}

func (m *memProgressRepo) CompletedLessons(_ context.Context, id string) []string {
	return m.completed[id]
}
func (m *memProgressRepo) SaveCompletedLessons(context.Context, string, []string) error {
	return nil
}
func (m *memProgressRepo) Notes(_ context.Context, id string) map[string]string { return m.notes[id] }
func (m *memProgressRepo) SaveNotes(context.Context, string, map[string]string) error {
	return nil
}
func (m *memProgressRepo) Bookmarks(_ context.Context, id string) []string { return m.bookmarks[id] }
func (m *memProgressRepo) SaveBookmarks(context.Context, string, []string) error {
	return nil
}
func (m *memProgressRepo) DeleteCourse(context.Context, string) error { return nil }

func TestGraphQueryHandler_GetGraphData(t *testing.T) {
	tests := []struct {
		name        string
		expand      bool
		query       queries.GetGraphDataQuery
		wantVisible int
		wantLinks   int
		wantCamera  bool
	}{
		{name: "collapsed", wantVisible: 3, wantLinks: 2},
		{name: "expanded", expand: true, wantVisible: 5, wantLinks: 4},
		{
			name:        "with viewport",
			query:       queries.GetGraphDataQuery{ViewportWidth: 800, ViewportHeight: 600, Padding: 40},
			wantVisible: 3,
			wantLinks:   2,
			wantCamera:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, config.LayoutRadial)
			if tt.expand {
				require.NoError(t, s.Do(func(g *aggregates.Graph) error { return g.ExpandCategory("frontend") }))
			}
			h := NewGraphQueryHandler(s, zap.NewNop())

			res, err := h.HandleGetGraphData(context.Background(), tt.query)
			require.NoError(t, err)

			assert.Len(t, res.Nodes, tt.wantVisible)
			assert.Len(t, res.Links, tt.wantLinks)
			assert.Equal(t, 6, res.Stats.NodeCount)
			assert.Equal(t, 2, res.Stats.CategoryCount)
			assert.Equal(t, 3, res.Stats.CourseCount)
			assert.Equal(t, tt.wantVisible, res.Stats.VisibleNodeCount)
			assert.True(t, res.Stats.Settled, "a fresh layout has no velocity")
			assert.Equal(t, "radial", res.Mode)
			if tt.wantCamera {
				require.NotNil(t, res.Camera)
				assert.Greater(t, res.Camera.Scale, 0.0)
			} else {
				assert.Nil(t, res.Camera)
			}
		})
	}
}

func TestGetGraphDataQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.GetGraphDataQuery{}.Validate())
	assert.Error(t, queries.GetGraphDataQuery{ViewportWidth: 100}.Validate())
	assert.Error(t, queries.GetGraphDataQuery{ViewportWidth: -1, ViewportHeight: 5}.Validate())
}

func TestGraphQueryHandler_GetNode(t *testing.T) {
	s := newSession(t, config.LayoutTree)
	h := NewGraphQueryHandler(s, zap.NewNop())
	ctx := context.Background()

	cat, err := h.HandleGetNode(ctx, queries.GetNodeQuery{NodeID: "frontend"})
	require.NoError(t, err)
	assert.True(t, cat.Visible)
	assert.ElementsMatch(t, []string{"c1", "c2"}, cat.Children)
	assert.Equal(t, "primary", cat.Type)
	assert.Empty(t, cat.CourseID)

	course, err := h.HandleGetNode(ctx, queries.GetNodeQuery{NodeID: "c3"})
	require.NoError(t, err)
	assert.False(t, course.Visible)
	assert.Equal(t, "c3", course.CourseID)
	assert.Equal(t, "data-science", course.ParentID)

	_, err = h.HandleGetNode(ctx, queries.GetNodeQuery{NodeID: "missing"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCourseQueryHandler_Lists(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	h := NewCourseQueryHandler(s, &memProgressRepo{}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.UpdateCatalog(func(c *aggregates.Catalog) error { return c.RemoveCourse("c3") }))

	cats, err := h.HandleListCategories(ctx, queries.ListCategoriesQuery{})
	require.NoError(t, err)
	assert.Equal(t, []queries.CategorySummary{{ID: "frontend", Label: "Frontend", CourseCount: 2}}, cats)

	cats, err = h.HandleListCategories(ctx, queries.ListCategoriesQuery{IncludeEmpty: true})
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	tests := []struct {
		name  string
		query queries.ListCoursesQuery
		want  []string
	}{
		{name: "all", want: []string{"c1", "c2"}},
		{name: "by category", query: queries.ListCoursesQuery{CategoryID: "frontend"}, want: []string{"c1", "c2"}},
		{name: "unknown category", query: queries.ListCoursesQuery{CategoryID: "data-science"}, want: []string{}},
		{name: "public only", query: queries.ListCoursesQuery{PublicOnly: true}, want: []string{"c1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := h.HandleListCourses(ctx, tt.query)
			require.NoError(t, err)
			ids := make([]string, 0, len(courses))
			for _, c := range courses {
				ids = append(ids, c.ID)
				assert.Equal(t, 3, c.TotalLessons)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCourseQueryHandler_GetCourseReturnsCopy(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	h := NewCourseQueryHandler(s, &memProgressRepo{}, zap.NewNop())
	ctx := context.Background()

	c, err := h.HandleGetCourse(ctx, queries.GetCourseQuery{CourseID: "c1"})
	require.NoError(t, err)
	c.Title = "changed"

	again, err := h.HandleGetCourse(ctx, queries.GetCourseQuery{CourseID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "React", again.Title)

	_, err = h.HandleGetCourse(ctx, queries.GetCourseQuery{CourseID: "nope"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCourseQueryHandler_GetCourseProgress(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	repo := &memProgressRepo{
		completed: map[string][]string{"c1": {"0-0", "0-2", "9-9"}},
		notes:     map[string]map[string]string{"c1": {"0-0": "hooks"}},
		bookmarks: map[string][]string{"c1": {"0-1"}},
	}
	h := NewCourseQueryHandler(s, repo, zap.NewNop())
	ctx := context.Background()

	res, err := h.HandleGetCourseProgress(ctx, queries.GetCourseProgressQuery{CourseID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 67, res.Progress)
	assert.Equal(t, 2, res.CompletedCount)
	assert.Equal(t, 3, res.TotalLessons)
	assert.Equal(t, map[string]string{"0-0": "hooks"}, res.Notes)
	assert.Equal(t, []string{"0-1"}, res.Bookmarks)

	empty, err := h.HandleGetCourseProgress(ctx, queries.GetCourseProgressQuery{CourseID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Progress)
	assert.NotNil(t, empty.CompletedLessons)
	assert.NotNil(t, empty.Notes)
	assert.NotNil(t, empty.Bookmarks)
}
