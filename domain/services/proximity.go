package services

import (
	"math"

	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
)

// GlowDistance is the cursor distance at which a node stops glowing.
const GlowDistance = 200.0

// Distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// FindNearestNode returns the node closest to p that is strictly nearer
// than maxDistance, or nil. Use math.Inf(1) for no limit.
func FindNearestNode(nodes []*entities.Node, p valueobjects.Position, maxDistance float64) *entities.Node {
	var nearest *entities.Node
	best := maxDistance
	for _, n := range nodes {
		if d := n.Position().DistanceTo(p); d < best {
			best = d
			nearest = n
		}
	}
	return nearest
}

// ProximityGlow maps a cursor distance to a glow intensity in [0, 1].
func ProximityGlow(d float64) float64 {
	return math.Max(0, 1-d/GlowDistance)
}

// NodesInRadius returns the nodes within radius of p, boundary included.
func NodesInRadius(nodes []*entities.Node, p valueobjects.Position, radius float64) []*entities.Node {
	var out []*entities.Node
	for _, n := range nodes {
		if n.Position().DistanceTo(p) <= radius {
			out = append(out, n)
		}
	}
	return out
}
