package handlers

import (
	"context"

	"fillai-backend/application/commands"
	"fillai-backend/application/ports"
	"fillai-backend/application/services"
	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// GraphHandler handles the interaction commands on the knowledge graph.
type GraphHandler struct {
	session   *services.GraphSession
	state     *services.StateService
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewGraphHandler creates a new graph command handler
func NewGraphHandler(
	session *services.GraphSession,
	state *services.StateService,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *GraphHandler {
	return &GraphHandler{
		session:   session,
		state:     state,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *GraphHandler) HandleSelectNode(ctx context.Context, cmd commands.SelectNodeCommand) error {
	err := h.session.Do(func(g *aggregates.Graph) error {
		return g.SelectNode(cmd.NodeID)
	})
	publishPending(ctx, h.session, h.publisher, h.logger)
	return err
}

func (h *GraphHandler) HandleStartDrag(_ context.Context, cmd commands.StartDragCommand) error {
	return h.session.Do(func(g *aggregates.Graph) error {
		return g.StartDrag(cmd.NodeID)
	})
}

func (h *GraphHandler) HandleDragNode(_ context.Context, cmd commands.DragNodeCommand) error {
	return h.session.Do(func(g *aggregates.Graph) error {
		return g.DragBy(cmd.NodeID, cmd.DX, cmd.DY)
	})
}

// HandleStopDrag releases the node and persists the layout. A failed save
// is logged; the drag is stopped either way.
func (h *GraphHandler) HandleStopDrag(ctx context.Context, _ commands.StopDragCommand) error {
	var released string
	_ = h.session.Do(func(g *aggregates.Graph) error {
		released = g.StopDrag()
		return nil
	})
	if released == "" {
		return nil
	}
	if err := h.state.SaveLayout(ctx); err != nil {
		h.logger.Warn("Failed to save layout after drag",
			zap.String("nodeID", released),
			zap.Error(err),
		)
	}
	publishPending(ctx, h.session, h.publisher, h.logger)
	return nil
}

func (h *GraphHandler) HandleToggleCategory(ctx context.Context, cmd commands.ToggleCategoryCommand) error {
	err := h.session.Do(func(g *aggregates.Graph) error {
		_, err := g.ToggleCategory(cmd.CategoryID)
		return err
	})
	publishPending(ctx, h.session, h.publisher, h.logger)
	return err
}

func (h *GraphHandler) HandleCenterGraph(ctx context.Context, _ commands.CenterGraphCommand) error {
	h.session.Center()
	return h.state.SaveLayout(ctx)
}

func (h *GraphHandler) HandleRegenerateGraph(ctx context.Context, _ commands.RegenerateGraphCommand) error {
	err := h.session.Regenerate(h.currentMode(), true)
	publishPending(ctx, h.session, h.publisher, h.logger)
	return err
}

func (h *GraphHandler) HandleResetGraph(ctx context.Context, _ commands.ResetGraphCommand) error {
	err := h.session.Reset()
	publishPending(ctx, h.session, h.publisher, h.logger)
	return err
}

// HandleSetCursor stores the pointer in graph space. Screen coordinates are
// converted relative to the viewport centre.
func (h *GraphHandler) HandleSetCursor(_ context.Context, cmd commands.SetCursorCommand) error {
	if cmd.Clear {
		return h.session.Do(func(g *aggregates.Graph) error {
			g.ClearCursor()
			return nil
		})
	}

	var p valueobjects.Position
	if cmd.ViewportWidth > 0 {
		vp, err := valueobjects.NewViewport(cmd.ViewportWidth, cmd.ViewportHeight)
		if err != nil {
			return err
		}
		p = vp.ToGraph(cmd.X, cmd.Y)
	} else {
		var err error
		if p, err = valueobjects.NewPosition(cmd.X, cmd.Y); err != nil {
			return err
		}
	}
	return h.session.Do(func(g *aggregates.Graph) error {
		g.SetCursor(p)
		return nil
	})
}

func (h *GraphHandler) HandleSetLayoutMode(ctx context.Context, cmd commands.SetLayoutModeCommand) error {
	if cmd.Mode == h.currentMode() {
		return nil
	}
	err := h.session.Regenerate(cmd.Mode, false)
	publishPending(ctx, h.session, h.publisher, h.logger)
	if err == nil {
		h.logger.Info("Layout mode changed", zap.String("mode", string(cmd.Mode)))
	}
	return err
}

func (h *GraphHandler) currentMode() (mode config.LayoutMode) {
	_ = h.session.View(func(g *aggregates.Graph) error {
		mode = g.Mode()
		return nil
	})
	return mode
}
