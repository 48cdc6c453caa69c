package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fillai-backend/application/ports"
	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
	"fillai-backend/domain/events"
	domainservices "fillai-backend/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSession(t *testing.T, mode config.LayoutMode) *GraphSession {
	t.Helper()
	s, err := NewGraphSession(domainservices.NewLayoutBuilder(config.DefaultLayoutConfig()), mode, zap.NewNop())
	require.NoError(t, err)
	return s
}

func testCourse(id, title string) *entities.Course {
	return &entities.Course{
		ID:    id,
		Title: title,
		Modules: []entities.Module{{
			Title:   "Intro",
			Lessons: []entities.Lesson{{Title: "One"}, {Title: "Two"}},
		}},
	}
}

func addCourses(t *testing.T, s *GraphSession) {
	t.Helper()
	require.NoError(t, s.UpdateCatalog(func(c *aggregates.Catalog) error {
		if err := c.AddCourse(testCourse("c1", "React"), "Frontend", aggregates.OriginManual); err != nil {
			return err
		}
		return c.AddCourse(testCourse("c2", "SQL"), "Data", aggregates.OriginManual)
	}))
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []ports.Frame
}

func (r *frameRecorder) PublishFrame(f ports.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type memLayoutRepo struct {
	saved map[string]valueobjects.Position
}

func (m *memLayoutRepo) Load(context.Context) map[string]valueobjects.Position { return m.saved }
func (m *memLayoutRepo) Save(_ context.Context, p map[string]valueobjects.Position) error {
	m.saved = p
	return nil
}

type memCatalogRepo struct {
	courses []*entities.Course
	loadErr error
}

func (m *memCatalogRepo) LoadAll(context.Context) ([]*entities.Course, error) {
	return m.courses, m.loadErr
}
func (m *memCatalogRepo) Save(_ context.Context, c *entities.Course) error {
	m.courses = append(m.courses, c)
	return nil
}
func (m *memCatalogRepo) Delete(context.Context, string) error { return nil }

func TestGraphSession_UpdateCatalogRebuilds(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)

	require.NoError(t, s.View(func(g *aggregates.Graph) error {
		assert.Equal(t, 5, g.NodeCount())
		assert.NoError(t, g.Validate())
		return nil
	}))

	// Move a category, then add a course: the category keeps its place.
	require.NoError(t, s.Do(func(g *aggregates.Graph) error {
		x := 999.0
		return g.UpdateNode("frontend", aggregates.NodePatch{X: &x})
	}))
	require.NoError(t, s.Do(func(g *aggregates.Graph) error { return g.ExpandCategory("frontend") }))
	require.NoError(t, s.UpdateCatalog(func(c *aggregates.Catalog) error {
		return c.AddCourse(testCourse("c3", "Vue"), "Frontend", aggregates.OriginGenerated)
	}))

	require.NoError(t, s.View(func(g *aggregates.Graph) error {
		n, err := g.Node("frontend")
		require.NoError(t, err)
		assert.Equal(t, 999.0, n.Position().X())
		assert.True(t, g.IsExpanded("frontend"))
		assert.Len(t, g.VisibleNodes(), 5, "center, two categories, two frontend courses")
		return nil
	}))

	var types []string
	for _, e := range s.DrainEvents() {
		types = append(types, e.GetEventType())
	}
	assert.Contains(t, types, events.TypeCourseAdded)
	assert.Contains(t, types, events.TypeGraphRegenerated)
	assert.Contains(t, types, events.TypeCategoryToggled)
	assert.Empty(t, s.DrainEvents())
}

func TestGraphSession_FailedCatalogUpdateKeepsGraph(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)
	before := 0
	_ = s.View(func(g *aggregates.Graph) error { before = int(g.Version()); return nil })

	err := s.UpdateCatalog(func(c *aggregates.Catalog) error { return errors.New("boom") })
	require.Error(t, err)

	_ = s.View(func(g *aggregates.Graph) error {
		assert.Equal(t, before, int(g.Version()))
		return nil
	})
}

func TestGraphSession_ResetAndCenter(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)

	var initial map[string]valueobjects.Position
	_ = s.View(func(g *aggregates.Graph) error { initial = g.Positions(); return nil })

	require.NoError(t, s.Do(func(g *aggregates.Graph) error {
		if err := g.SelectNode("data"); err != nil {
			return err
		}
		if err := g.StartDrag("data"); err != nil {
			return err
		}
		return g.DragBy("data", 300, 300)
	}))

	s.Center()
	_ = s.View(func(g *aggregates.Graph) error {
		n, _ := g.Node("data")
		assert.True(t, n.Position().Equals(initial["data"]))
		assert.Equal(t, "data", g.SelectedNodeID())
		return nil
	})

	require.NoError(t, s.Reset())
	_ = s.View(func(g *aggregates.Graph) error {
		assert.Empty(t, g.SelectedNodeID())
		assert.False(t, g.IsDragging())
		return nil
	})

	require.NoError(t, s.Regenerate(config.LayoutTree, true))
	_ = s.View(func(g *aggregates.Graph) error {
		assert.Equal(t, config.LayoutTree, g.Mode())
		n, _ := g.Node("frontend")
		assert.Equal(t, 340.0, n.Position().X())
		return nil
	})
}

func TestSimulationService_Tick(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)
	sim := NewSimulationService(s, config.DefaultPhysicsConfig(), config.DefaultLayoutConfig(), nil, zap.NewNop())

	frame, changed := sim.Tick()
	require.True(t, changed)
	assert.Equal(t, uint64(1), frame.Tick)
	assert.Len(t, frame.Nodes, 3, "courses are collapsed")
	assert.Len(t, frame.Links, 2)
	assert.Equal(t, "radial", frame.Mode)

	for i := 0; i < 3000; i++ {
		sim.Tick()
	}
	_, changed = sim.Tick()
	assert.False(t, changed, "a settled graph publishes nothing")

	require.NoError(t, s.Do(func(g *aggregates.Graph) error { return g.SelectNode("frontend") }))
	frame, changed = sim.Tick()
	require.True(t, changed)
	assert.Equal(t, "frontend", frame.SelectedNodeID)
}

func TestGraphSession_RebuildKeepsDrag(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)

	require.NoError(t, s.Do(func(g *aggregates.Graph) error {
		if err := g.StartDrag("frontend"); err != nil {
			return err
		}
		return g.DragBy("frontend", 25, 25)
	}))
	var held valueobjects.Position
	_ = s.View(func(g *aggregates.Graph) error {
		n, _ := g.Node("frontend")
		held = n.Position()
		return nil
	})

	require.NoError(t, s.UpdateCatalog(func(c *aggregates.Catalog) error {
		return c.AddCourse(testCourse("c3", "Vue"), "Frontend", aggregates.OriginManual)
	}))

	require.NoError(t, s.Do(func(g *aggregates.Graph) error {
		assert.Equal(t, "frontend", g.DragNodeID())
		n, err := g.Node("frontend")
		require.NoError(t, err)
		assert.True(t, n.Position().Equals(held))
		return g.DragBy("frontend", 5, 0)
	}))

	require.NoError(t, s.Regenerate(config.LayoutTree, false))
	_ = s.View(func(g *aggregates.Graph) error {
		assert.Equal(t, "frontend", g.DragNodeID())
		n, _ := g.Node("frontend")
		assert.Equal(t, held.X()+5, n.Position().X())
		return nil
	})

	require.NoError(t, s.UpdateCatalog(func(c *aggregates.Catalog) error {
		for _, id := range []string{"c1", "c3"} {
			if err := c.RemoveCourse(id); err != nil {
				return err
			}
		}
		return nil
	}))
	_ = s.View(func(g *aggregates.Graph) error {
		assert.False(t, g.IsDragging(), "an emptied category is gone")
		return nil
	})
}

func TestSimulationService_SettleExpandedGraph(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)
	require.NoError(t, s.Do(func(g *aggregates.Graph) error {
		if err := g.ExpandCategory("frontend"); err != nil {
			return err
		}
		return g.ExpandCategory("data")
	}))
	sim := NewSimulationService(s, config.DefaultPhysicsConfig(), config.DefaultLayoutConfig(), nil, zap.NewNop())

	steps, converged := sim.Settle(20000)
	require.True(t, converged, "not settled after %d steps", steps)

	frame, changed := sim.Tick()
	require.True(t, changed)
	assert.Len(t, frame.Nodes, 5)
	for _, n := range frame.Nodes {
		assert.Zero(t, n.VX, n.ID)
		assert.Zero(t, n.VY, n.ID)
	}
	for i := 0; i < 100; i++ {
		_, changed = sim.Tick()
		require.False(t, changed, "frame published at tick %d", i)
	}
}

func TestSimulationService_SettleTreeIsImmediate(t *testing.T) {
	s := newSession(t, config.LayoutTree)
	addCourses(t, s)
	sim := NewSimulationService(s, config.DefaultPhysicsConfig(), config.DefaultLayoutConfig(), nil, zap.NewNop())

	steps, converged := sim.Settle(100)
	assert.Zero(t, steps)
	assert.True(t, converged)
}

func TestSimulationService_DraggedNodeHoldsPosition(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)
	sim := NewSimulationService(s, config.DefaultPhysicsConfig(), config.DefaultLayoutConfig(), nil, zap.NewNop())

	require.NoError(t, s.Do(func(g *aggregates.Graph) error {
		if err := g.StartDrag("frontend"); err != nil {
			return err
		}
		return g.DragBy("frontend", 50, 50)
	}))
	var held valueobjects.Position
	_ = s.View(func(g *aggregates.Graph) error {
		n, _ := g.Node("frontend")
		held = n.Position()
		return nil
	})

	for i := 0; i < 100; i++ {
		sim.Tick()
	}
	_ = s.View(func(g *aggregates.Graph) error {
		n, _ := g.Node("frontend")
		assert.True(t, n.Position().Equals(held))
		assert.True(t, g.Center().Position().IsOrigin())
		return nil
	})
}

func TestSimulationService_TreeModeIsStatic(t *testing.T) {
	s := newSession(t, config.LayoutTree)
	addCourses(t, s)
	sim := NewSimulationService(s, config.DefaultPhysicsConfig(), config.DefaultLayoutConfig(), nil, zap.NewNop())

	first, _ := sim.Tick()
	for i := 0; i < 10; i++ {
		_, changed := sim.Tick()
		assert.False(t, changed)
	}
	assert.Equal(t, 340.0, first.Nodes[1].X)
}

func TestSimulationService_Run(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	addCourses(t, s)
	layout := config.DefaultLayoutConfig()
	layout.FrameInterval = time.Millisecond
	sim := NewSimulationService(s, config.DefaultPhysicsConfig(), layout, nil, zap.NewNop())
	rec := &frameRecorder{}
	sim.SetFrameSink(rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.count() > 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("simulation did not stop")
	}
}

func TestSimulationService_UpdatePhysics(t *testing.T) {
	s := newSession(t, config.LayoutRadial)
	sim := NewSimulationService(s, config.DefaultPhysicsConfig(), config.DefaultLayoutConfig(), nil, zap.NewNop())

	cfg := config.DefaultPhysicsConfig()
	cfg.Damping = 0.5
	sim.UpdatePhysics(cfg)
	assert.Equal(t, 0.5, sim.Engine().Config().Damping)
}

func TestStateService_Load(t *testing.T) {
	t.Run("restores courses and positions", func(t *testing.T) {
		s := newSession(t, config.LayoutRadial)
		stored := testCourse("c1", "React")
		stored.Category = "frontend"
		stored.CategoryLabel = "Frontend"
		p, _ := valueobjects.NewPosition(12, 34)
		layoutRepo := &memLayoutRepo{saved: map[string]valueobjects.Position{"frontend": p}}
		svc := NewStateService(s, &memCatalogRepo{courses: []*entities.Course{stored}}, layoutRepo, true, zap.NewNop())

		require.NoError(t, svc.Load(context.Background()))
		_ = s.View(func(g *aggregates.Graph) error {
			n, err := g.Node("frontend")
			require.NoError(t, err)
			assert.True(t, n.Position().Equals(p))
			return nil
		})

		for _, e := range s.DrainEvents() {
			assert.NotEqual(t, events.TypeCourseAdded, e.GetEventType())
		}
	})

	t.Run("seeds demo courses into an empty catalog", func(t *testing.T) {
		s := newSession(t, config.LayoutRadial)
		catalogRepo := &memCatalogRepo{loadErr: errors.New("disk on fire")}
		svc := NewStateService(s, catalogRepo, &memLayoutRepo{}, true, zap.NewNop())

		require.NoError(t, svc.Load(context.Background()))
		assert.Len(t, catalogRepo.courses, 3)
		_ = s.ViewCatalog(func(c *aggregates.Catalog) error {
			ids := []string{}
			for _, cat := range c.Categories() {
				ids = append(ids, cat.ID)
			}
			assert.Equal(t, []string{"frontend", "english-it", "data-science"}, ids)
			return nil
		})
	})

	t.Run("saves layout", func(t *testing.T) {
		s := newSession(t, config.LayoutRadial)
		addCourses(t, s)
		layoutRepo := &memLayoutRepo{}
		svc := NewStateService(s, &memCatalogRepo{}, layoutRepo, false, zap.NewNop())

		require.NoError(t, svc.SaveLayout(context.Background()))
		assert.Len(t, layoutRepo.saved, 5)
	})
}
