package services

import (
	"math"

	"fillai-backend/domain/config"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
)

// StepResult summarises one simulation tick.
type StepResult struct {
	// MaxDisplacement is the largest distance any node moved this tick.
	MaxDisplacement float64
	KineticEnergy   float64
	SkippedLinks    int
}

// PhysicsEngine advances a force-directed layout. It holds no node state;
// callers pass the nodes and links to simulate on every call.
type PhysicsEngine struct {
	cfg config.PhysicsConfig
}

// NewPhysicsEngine creates an engine. A zero config falls back to defaults.
func NewPhysicsEngine(cfg config.PhysicsConfig) *PhysicsEngine {
	if cfg == (config.PhysicsConfig{}) {
		cfg = config.DefaultPhysicsConfig()
	}
	return &PhysicsEngine{cfg: cfg}
}

// Config returns the constants the engine runs with.
func (e *PhysicsEngine) Config() config.PhysicsConfig {
	return e.cfg
}

// IdealDistance is the rest length of a link between a and b.
func (e *PhysicsEngine) IdealDistance(a, b *entities.Node) float64 {
	switch {
	case a.IsCenter() || b.IsCenter():
		return e.cfg.IdealCenterDistance
	case a.Type() == valueobjects.NodeTypePrimary && b.Type() == valueobjects.NodeTypePrimary:
		return e.cfg.IdealPrimaryDistance
	default:
		return e.cfg.IdealDefaultDistance
	}
}

// Step runs one tick over nodes and links.
//
// The center node is pinned at the origin. The node named by draggedID keeps
// its position and zero velocity, but still pushes and pulls the others.
// Links whose endpoints are not among nodes are skipped.
func (e *PhysicsEngine) Step(nodes []*entities.Node, links []*entities.Link, draggedID string) StepResult {
	var res StepResult
	n := len(nodes)
	if n == 0 {
		return res
	}

	index := make(map[string]int, n)
	for i, node := range nodes {
		index[node.ID()] = i
	}
	fx := make([]float64, n)
	fy := make([]float64, n)

	// Pull toward the origin.
	for i, node := range nodes {
		if node.IsCenter() || node.ID() == draggedID {
			continue
		}
		p := node.Position()
		fx[i] -= p.X() * e.cfg.CenterPull
		fy[i] -= p.Y() * e.cfg.CenterPull
	}

	// Pairwise repulsion inside the cut-off.
	cutoff := e.cfg.RepulsionCutoff()
	for i := 0; i < n; i++ {
		pi := nodes[i].Position()
		for j := i + 1; j < n; j++ {
			dx, dy := pi.Delta(nodes[j].Position())
			d := math.Hypot(dx, dy)
			if d <= 0 || d >= cutoff {
				continue
			}
			f := e.cfg.Repulsion / (d * d)
			ux, uy := dx/d*f, dy/d*f
			fx[i] -= ux
			fy[i] -= uy
			fx[j] += ux
			fy[j] += uy
		}
	}

	// Springs along links.
	for _, l := range links {
		si, ok1 := index[l.Source()]
		ti, ok2 := index[l.Target()]
		if !ok1 || !ok2 {
			res.SkippedLinks++
			continue
		}
		src, dst := nodes[si], nodes[ti]
		dx, dy := src.Position().Delta(dst.Position())
		d := math.Hypot(dx, dy)
		if d <= 0 {
			continue
		}
		f := e.cfg.SpringStrength * l.Strength() * (d - e.IdealDistance(src, dst))
		ux, uy := dx/d*f, dy/d*f
		fx[si] += ux
		fy[si] += uy
		fx[ti] -= ux
		fy[ti] -= uy
	}

	for i, node := range nodes {
		before := node.Position()
		switch {
		case node.IsCenter():
			node.Pin(valueobjects.Origin())
		case node.ID() == draggedID:
			node.SetVelocity(valueobjects.ZeroVelocity())
		default:
			// Snapping before integration leaves a node with only sub-eps
			// force exactly where it is, so the layout has a fixed point.
			node.Accelerate(fx[i], fy[i])
			node.Damp(e.cfg.Damping, e.cfg.VelocityEps)
			node.Integrate(e.cfg.TimeStep)
		}
		if moved := before.DistanceTo(node.Position()); moved > res.MaxDisplacement {
			res.MaxDisplacement = moved
		}
	}

	res.KineticEnergy = KineticEnergy(nodes)
	return res
}

// ApplyCursorRepulsion nudges nodes away from the pointer. It returns how
// many nodes were affected.
func (e *PhysicsEngine) ApplyCursorRepulsion(nodes []*entities.Node, cursor valueobjects.Position, draggedID string) int {
	affected := 0
	for _, node := range nodes {
		if node.IsCenter() || node.ID() == draggedID {
			continue
		}
		dx, dy := node.Position().Delta(cursor)
		d := math.Hypot(dx, dy)
		if d <= 0 || d >= e.cfg.CursorRadius {
			continue
		}
		f := e.cfg.CursorStrength / (d * d) * e.cfg.CursorScale
		node.Accelerate(-dx/d*f, -dy/d*f)
		affected++
	}
	return affected
}

// Settle steps until two consecutive ticks move no node more than eps, or
// maxSteps is reached. The second quiet tick starts from rest, so a
// converged layout stays put under further steps. It reports the number of
// steps taken and whether it converged.
func (e *PhysicsEngine) Settle(nodes []*entities.Node, links []*entities.Link, maxSteps int, eps float64) (int, bool) {
	quiet := 0
	for step := 1; step <= maxSteps; step++ {
		if res := e.Step(nodes, links, ""); res.MaxDisplacement <= eps {
			quiet++
		} else {
			quiet = 0
		}
		if quiet == 2 {
			return step, true
		}
	}
	return maxSteps, false
}

// Converged reports whether the total kinetic energy is at most eps.
func (e *PhysicsEngine) Converged(nodes []*entities.Node, eps float64) bool {
	return KineticEnergy(nodes) <= eps
}

// KineticEnergy sums ½|v|² over nodes.
func KineticEnergy(nodes []*entities.Node) float64 {
	total := 0.0
	for _, n := range nodes {
		m := n.Velocity().Magnitude()
		total += 0.5 * m * m
	}
	return total
}
