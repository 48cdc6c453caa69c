package services

import (
	"math"
	"testing"

	"fillai-backend/domain/config"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(t *testing.T, id string, nodeType valueobjects.NodeType, x, y float64, parent string) *entities.Node {
	t.Helper()
	p, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	n, err := entities.NewNode(id, id, nodeType, p, entities.NodeStyle{Radius: 30}, parent)
	require.NoError(t, err)
	return n
}

func link(t *testing.T, source, target string, strength float64) *entities.Link {
	t.Helper()
	l, err := entities.NewLink(entities.LinkID(source, target), source, target, strength)
	require.NoError(t, err)
	return l
}

// triangle is a center with three categories at 120° steps, placed off their
// rest distance.
func triangle(t *testing.T) ([]*entities.Node, []*entities.Link) {
	t.Helper()
	nodes := []*entities.Node{node(t, "center", valueobjects.NodeTypeCenter, 0, 0, "")}
	var links []*entities.Link
	for i, r := range []float64{150, 260, 220} {
		a := 2 * math.Pi * float64(i) / 3
		id := []string{"a", "b", "c"}[i]
		nodes = append(nodes, node(t, id, valueobjects.NodeTypePrimary, r*math.Cos(a), r*math.Sin(a), ""))
		links = append(links, link(t, "center", id, 1))
	}
	return nodes, links
}

func TestPhysicsEngine_Converges(t *testing.T) {
	engine := NewPhysicsEngine(config.DefaultPhysicsConfig())
	nodes, links := triangle(t)

	steps, converged := engine.Settle(nodes, links, 2000, 1e-3)
	require.True(t, converged, "not settled after %d steps", steps)

	var res StepResult
	for i := 0; i < 2000; i++ {
		res = engine.Step(nodes, links, "")
	}
	assert.Zero(t, res.MaxDisplacement)

	// Spring rest length minus the small pull toward the origin, within the
	// distance at which the spring force drops under the velocity snap.
	for _, n := range nodes[1:] {
		d := n.Position().DistanceTo(valueobjects.Origin())
		assert.InDelta(t, 199.4, d, 2.0, n.ID())
	}
}

func TestPhysicsEngine_ExpandedGraphComesToRest(t *testing.T) {
	categories := []*entities.Category{
		{ID: "frontend", Label: "Frontend", Courses: []*entities.Course{{ID: "react", Title: "React"}}},
		{ID: "english-it", Label: "English IT", Courses: []*entities.Course{{ID: "english", Title: "English for IT"}}},
		{ID: "data-science", Label: "Data Science", Courses: []*entities.Course{{ID: "pandas", Title: "Pandas"}}},
	}

	tests := []struct {
		name      string
		expand    bool
		wantNodes int
	}{
		{name: "collapsed", expand: false, wantNodes: 4},
		{name: "every category expanded", expand: true, wantNodes: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewLayoutBuilder(config.DefaultLayoutConfig()).BuildGraph(categories, config.LayoutRadial)
			require.NoError(t, err)
			if tt.expand {
				for _, c := range categories {
					require.NoError(t, g.ExpandCategory(c.ID))
				}
			}
			nodes, links := g.VisibleNodes(), g.VisibleLinks()
			require.Len(t, nodes, tt.wantNodes)

			engine := NewPhysicsEngine(config.DefaultPhysicsConfig())
			steps, converged := engine.Settle(nodes, links, 20000, 1e-3)
			require.True(t, converged, "not settled after %d steps", steps)
			assert.Zero(t, KineticEnergy(nodes))
			assert.True(t, engine.Converged(nodes, 0))

			rest := g.Positions()
			for i := 0; i < 1000; i++ {
				res := engine.Step(nodes, links, "")
				require.Zero(t, res.MaxDisplacement, "moved at step %d", i)
			}
			for id, p := range g.Positions() {
				assert.True(t, p.Equals(rest[id]), id)
			}
		})
	}
}

func TestPhysicsEngine_SubThresholdForceDoesNotMove(t *testing.T) {
	engine := NewPhysicsEngine(config.DefaultPhysicsConfig())
	// Gravity alone at x=100 is 0.003, well under the velocity snap.
	a := node(t, "a", valueobjects.NodeTypePrimary, 100, 0, "")
	start := a.Position()

	for i := 0; i < 100; i++ {
		res := engine.Step([]*entities.Node{a}, nil, "")
		require.Zero(t, res.MaxDisplacement)
	}
	assert.True(t, a.Position().Equals(start))
	assert.True(t, a.Velocity().IsZero())
}

func TestPhysicsEngine_CenterPinned(t *testing.T) {
	engine := NewPhysicsEngine(config.DefaultPhysicsConfig())
	center := node(t, "center", valueobjects.NodeTypeCenter, 5, -5, "")
	near := node(t, "a", valueobjects.NodeTypePrimary, 40, 0, "")
	nodes := []*entities.Node{center, near}
	links := []*entities.Link{link(t, "center", "a", 1)}

	for i := 0; i < 50; i++ {
		engine.Step(nodes, links, "")
		require.True(t, center.Position().IsOrigin())
		require.True(t, center.Velocity().IsZero())
	}
	assert.Greater(t, near.Position().X(), 40.0)
}

func TestPhysicsEngine_DragOverridesSimulation(t *testing.T) {
	engine := NewPhysicsEngine(config.DefaultPhysicsConfig())
	nodes, links := triangle(t)
	dragged := nodes[1]
	other := nodes[2]
	start := dragged.Position()
	otherStart := other.Position()

	for i := 0; i < 20; i++ {
		engine.Step(nodes, links, dragged.ID())
	}
	assert.True(t, dragged.Position().Equals(start))
	assert.True(t, dragged.Velocity().IsZero())
	assert.False(t, other.Position().Equals(otherStart))

	// The pointer moves it; physics does not pull it back.
	dragged.MoveBy(30, 0)
	moved := dragged.Position()
	engine.Step(nodes, links, dragged.ID())
	assert.True(t, dragged.Position().Equals(moved))

	// Released, it rejoins the simulation.
	engine.Step(nodes, links, "")
	assert.False(t, dragged.Position().Equals(moved))
}

func TestPhysicsEngine_SkipsLinksToMissingNodes(t *testing.T) {
	engine := NewPhysicsEngine(config.DefaultPhysicsConfig())

	withGhost, links := triangle(t)
	ghostLinks := append([]*entities.Link{link(t, "a", "ghost", 1)}, links...)
	clean, cleanLinks := triangle(t)

	res := engine.Step(withGhost, ghostLinks, "")
	engine.Step(clean, cleanLinks, "")

	assert.Equal(t, 1, res.SkippedLinks)
	for i := range clean {
		assert.True(t, clean[i].Position().Equals(withGhost[i].Position()), clean[i].ID())
	}
}

func TestPhysicsEngine_Forces(t *testing.T) {
	engine := NewPhysicsEngine(config.DefaultPhysicsConfig())

	t.Run("repulsion inside cut-off", func(t *testing.T) {
		a := node(t, "a", valueobjects.NodeTypePrimary, -50, 300, "")
		b := node(t, "b", valueobjects.NodeTypePrimary, 50, 300, "")
		engine.Step([]*entities.Node{a, b}, nil, "")
		assert.Greater(t, a.Position().DistanceTo(b.Position()), 100.0)
	})

	t.Run("no repulsion beyond cut-off", func(t *testing.T) {
		// Far enough out that the pull toward the origin survives the snap.
		a := node(t, "a", valueobjects.NodeTypePrimary, -500, 0, "")
		b := node(t, "b", valueobjects.NodeTypePrimary, 500, 0, "")
		engine.Step([]*entities.Node{a, b}, nil, "")
		assert.Less(t, a.Position().DistanceTo(b.Position()), 1000.0)
	})

	t.Run("link strength scales the spring", func(t *testing.T) {
		travel := func(strength float64) float64 {
			c := node(t, "center", valueobjects.NodeTypeCenter, 0, 0, "")
			a := node(t, "a", valueobjects.NodeTypePrimary, 400, 0, "")
			engine.Step([]*entities.Node{c, a}, []*entities.Link{link(t, "center", "a", strength)}, "")
			return 400 - a.Position().X()
		}
		assert.Greater(t, travel(1), travel(0.5))
		assert.Greater(t, travel(0.5), 0.0)
	})

	t.Run("ideal distances", func(t *testing.T) {
		c := node(t, "center", valueobjects.NodeTypeCenter, 0, 0, "")
		p1 := node(t, "p1", valueobjects.NodeTypePrimary, 0, 0, "")
		p2 := node(t, "p2", valueobjects.NodeTypePrimary, 0, 0, "")
		s := node(t, "s", valueobjects.NodeTypeSub, 0, 0, "p1")
		assert.Equal(t, 200.0, engine.IdealDistance(c, p1))
		assert.Equal(t, 200.0, engine.IdealDistance(s, c))
		assert.Equal(t, 250.0, engine.IdealDistance(p1, p2))
		assert.Equal(t, 150.0, engine.IdealDistance(p1, s))
	})
}

func TestPhysicsEngine_CursorRepulsion(t *testing.T) {
	engine := NewPhysicsEngine(config.PhysicsConfig{})
	center := node(t, "center", valueobjects.NodeTypeCenter, 10, 0, "")
	near := node(t, "near", valueobjects.NodeTypePrimary, 50, 0, "")
	far := node(t, "far", valueobjects.NodeTypePrimary, 150, 0, "")
	held := node(t, "held", valueobjects.NodeTypePrimary, 0, 40, "")

	affected := engine.ApplyCursorRepulsion([]*entities.Node{center, near, far, held}, valueobjects.Origin(), "held")

	assert.Equal(t, 1, affected)
	assert.InDelta(t, 200.0/2500*0.005, near.Velocity().VX(), 1e-12)
	assert.True(t, far.Velocity().IsZero())
	assert.True(t, center.Velocity().IsZero())
	assert.True(t, held.Velocity().IsZero())
}

func TestPhysicsEngine_KineticEnergy(t *testing.T) {
	engine := NewPhysicsEngine(config.DefaultPhysicsConfig())
	a := node(t, "a", valueobjects.NodeTypePrimary, 0, 0, "")
	a.SetVelocity(valueobjects.NewVelocity(3, 4))

	assert.Equal(t, 12.5, KineticEnergy([]*entities.Node{a}))
	assert.False(t, engine.Converged([]*entities.Node{a}, 1))
	a.SetVelocity(valueobjects.ZeroVelocity())
	assert.True(t, engine.Converged([]*entities.Node{a}, 0))
}
