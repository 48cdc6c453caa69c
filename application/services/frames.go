package services

import (
	"fillai-backend/application/ports"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	domainservices "fillai-backend/domain/services"
)

// BuildFrame snapshots the visible part of g. Glow is computed from the last
// known cursor position and is zero when there is none.
func BuildFrame(g *aggregates.Graph, tick uint64) ports.Frame {
	visible := g.VisibleNodes()
	nodes := make([]ports.FrameNode, 0, len(visible))
	for _, n := range visible {
		nodes = append(nodes, NodeFrame(g, n))
	}

	visibleLinks := g.VisibleLinks()
	links := make([]ports.FrameLink, 0, len(visibleLinks))
	for _, l := range visibleLinks {
		links = append(links, ports.FrameLink{
			ID:       l.ID(),
			Source:   l.Source(),
			Target:   l.Target(),
			Strength: l.Strength(),
		})
	}

	return ports.Frame{
		Tick:               tick,
		Version:            g.Version(),
		Mode:               string(g.Mode()),
		Nodes:              nodes,
		Links:              links,
		SelectedNodeID:     g.SelectedNodeID(),
		DragNodeID:         g.DragNodeID(),
		ExpandedCategories: g.ExpandedCategories(),
	}
}

// NodeFrame renders a single node of g.
func NodeFrame(g *aggregates.Graph, n *entities.Node) ports.FrameNode {
	p, v, st := n.Position(), n.Velocity(), n.Style()
	fn := ports.FrameNode{
		ID:        n.ID(),
		Label:     n.Label(),
		Type:      n.Type().String(),
		ParentID:  n.ParentID(),
		X:         p.X(),
		Y:         p.Y(),
		VX:        v.VX(),
		VY:        v.VY(),
		Radius:    st.Radius,
		Color:     st.Color,
		GlowColor: st.GlowColor,
		Selected:  n.ID() == g.SelectedNodeID(),
		Dragging:  n.ID() == g.DragNodeID(),
		Expanded:  g.IsExpanded(n.ID()),
	}
	if cursor, ok := g.Cursor(); ok {
		fn.Glow = domainservices.ProximityGlow(p.DistanceTo(cursor))
	}
	return fn
}
