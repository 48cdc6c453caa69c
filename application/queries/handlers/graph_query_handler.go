package handlers

import (
	"context"

	"fillai-backend/application/queries"
	"fillai-backend/application/services"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/valueobjects"
	domainservices "fillai-backend/domain/services"

	"go.uber.org/zap"
)

// GraphQueryHandler serves read access to the knowledge graph.
type GraphQueryHandler struct {
	session *services.GraphSession
	logger  *zap.Logger
}

// NewGraphQueryHandler creates a new graph query handler
func NewGraphQueryHandler(session *services.GraphSession, logger *zap.Logger) *GraphQueryHandler {
	return &GraphQueryHandler{
		session: session,
		logger:  logger,
	}
}

// HandleGetGraphData snapshots the visible graph. The frame carries tick 0;
// clients order snapshots by version.
func (h *GraphQueryHandler) HandleGetGraphData(_ context.Context, q queries.GetGraphDataQuery) (*queries.GetGraphDataResult, error) {
	var result *queries.GetGraphDataResult
	err := h.session.View(func(g *aggregates.Graph) error {
		frame := services.BuildFrame(g, 0)
		visible := g.VisibleNodes()

		stats := queries.GraphStats{
			NodeCount:        g.NodeCount(),
			LinkCount:        g.LinkCount(),
			VisibleNodeCount: len(frame.Nodes),
			VisibleLinkCount: len(frame.Links),
			ExpandedCount:    len(frame.ExpandedCategories),
			KineticEnergy:    domainservices.KineticEnergy(visible),
		}
		// Velocities snap to zero before they move a node, so zero energy
		// means nothing moves on the next tick.
		stats.Settled = stats.KineticEnergy == 0
		for _, n := range g.Nodes() {
			switch n.Type() {
			case valueobjects.NodeTypePrimary:
				stats.CategoryCount++
			case valueobjects.NodeTypeSub:
				stats.CourseCount++
			}
		}

		result = &queries.GetGraphDataResult{Frame: frame, Stats: stats}

		if q.ViewportWidth > 0 {
			vp, err := valueobjects.NewViewport(q.ViewportWidth, q.ViewportHeight)
			if err != nil {
				return err
			}
			positions := make([]valueobjects.Position, 0, len(visible))
			for _, n := range visible {
				positions = append(positions, n.Position())
			}
			cam := vp.Fit(valueobjects.BoundsOf(positions), q.Padding)
			result.Camera = &cam
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Graph data retrieved",
		zap.Uint64("version", result.Version),
		zap.Int("visibleNodes", result.Stats.VisibleNodeCount),
		zap.Int("visibleLinks", result.Stats.VisibleLinkCount),
	)
	return result, nil
}

func (h *GraphQueryHandler) HandleGetNode(_ context.Context, q queries.GetNodeQuery) (*queries.GetNodeResult, error) {
	var result *queries.GetNodeResult
	err := h.session.View(func(g *aggregates.Graph) error {
		n, err := g.Node(q.NodeID)
		if err != nil {
			return err
		}
		result = &queries.GetNodeResult{
			FrameNode: services.NodeFrame(g, n),
			Visible:   g.IsVisible(n),
		}
		if n.Type() == valueobjects.NodeTypeSub {
			result.CourseID = n.ID()
		}
		for _, child := range g.Nodes() {
			if child.ParentID() == n.ID() {
				result.Children = append(result.Children, child.ID())
			}
		}
		return nil
	})
	return result, err
}
