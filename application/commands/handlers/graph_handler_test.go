package handlers

import (
	"context"
	"testing"

	"fillai-backend/application/commands"
	"fillai-backend/application/services"
	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/valueobjects"
	"fillai-backend/domain/events"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type graphFixture struct {
	session   *services.GraphSession
	layout    *memLayoutRepo
	publisher *recordingPublisher
	handler   *GraphHandler
}

func newGraphFixture(t *testing.T) *graphFixture {
	t.Helper()
	s := newSession(t)
	seed(t, s)
	layout := &memLayoutRepo{}
	pub := &recordingPublisher{}
	state := services.NewStateService(s, newMemCatalogRepo(), layout, false, zap.NewNop())
	return &graphFixture{
		session:   s,
		layout:    layout,
		publisher: pub,
		handler:   NewGraphHandler(s, state, pub, zap.NewNop()),
	}
}

func (f *graphFixture) graph(t *testing.T, fn func(g *aggregates.Graph)) {
	t.Helper()
	require.NoError(t, f.session.View(func(g *aggregates.Graph) error {
		fn(g)
		return nil
	}))
}

func TestGraphHandler_SelectNode(t *testing.T) {
	tests := []struct {
		name    string
		nodeID  string
		wantErr func(error) bool
		want    string
	}{
		{name: "category", nodeID: "frontend", want: "frontend"},
		{name: "clear", nodeID: "", want: ""},
		{name: "unknown", nodeID: "nope", wantErr: pkgerrors.IsNotFound},
		{name: "hidden course", nodeID: "c1", wantErr: pkgerrors.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGraphFixture(t)
			err := f.handler.HandleSelectNode(context.Background(), commands.SelectNodeCommand{NodeID: tt.nodeID})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			f.graph(t, func(g *aggregates.Graph) {
				assert.Equal(t, tt.want, g.SelectedNodeID())
			})
		})
	}
}

func TestGraphHandler_DragLifecycle(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()

	var start valueobjects.Position
	f.graph(t, func(g *aggregates.Graph) {
		n, err := g.Node("frontend")
		require.NoError(t, err)
		start = n.Position()
	})

	require.NoError(t, f.handler.HandleStartDrag(ctx, commands.StartDragCommand{NodeID: "frontend"}))
	require.NoError(t, f.handler.HandleDragNode(ctx, commands.DragNodeCommand{NodeID: "frontend", DX: 10, DY: -5}))

	err := f.handler.HandleDragNode(ctx, commands.DragNodeCommand{NodeID: "data", DX: 1})
	assert.True(t, pkgerrors.IsConflict(err), "dragging a node that was not grabbed")

	require.NoError(t, f.handler.HandleStopDrag(ctx, commands.StopDragCommand{}))

	f.graph(t, func(g *aggregates.Graph) {
		assert.False(t, g.IsDragging())
		n, err := g.Node("frontend")
		require.NoError(t, err)
		assert.InDelta(t, start.X()+10, n.Position().X(), 1e-9)
		assert.InDelta(t, start.Y()-5, n.Position().Y(), 1e-9)
	})

	assert.Equal(t, 1, f.layout.saves)
	require.Contains(t, f.layout.saved, "frontend")
	assert.Contains(t, f.publisher.types(), events.TypeNodeDragged)

	// Stopping again is a no-op.
	require.NoError(t, f.handler.HandleStopDrag(ctx, commands.StopDragCommand{}))
	assert.Equal(t, 1, f.layout.saves)
}

func TestGraphHandler_StopDragSurvivesSaveFailure(t *testing.T) {
	f := newGraphFixture(t)
	f.layout.saveErr = errBoom
	ctx := context.Background()

	require.NoError(t, f.handler.HandleStartDrag(ctx, commands.StartDragCommand{NodeID: "data"}))
	require.NoError(t, f.handler.HandleStopDrag(ctx, commands.StopDragCommand{}))
	f.graph(t, func(g *aggregates.Graph) { assert.False(t, g.IsDragging()) })
}

func TestGraphHandler_CenterCannotBeDragged(t *testing.T) {
	f := newGraphFixture(t)
	err := f.handler.HandleStartDrag(context.Background(), commands.StartDragCommand{NodeID: valueobjects.CenterNodeID})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGraphHandler_ToggleCategory(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handler.HandleToggleCategory(ctx, commands.ToggleCategoryCommand{CategoryID: "frontend"}))
	f.graph(t, func(g *aggregates.Graph) {
		assert.True(t, g.IsExpanded("frontend"))
		c1, err := g.Node("c1")
		require.NoError(t, err)
		c2, err := g.Node("c2")
		require.NoError(t, err)
		assert.True(t, g.IsVisible(c1))
		assert.False(t, g.IsVisible(c2))
	})

	require.NoError(t, f.handler.HandleToggleCategory(ctx, commands.ToggleCategoryCommand{CategoryID: "frontend"}))
	f.graph(t, func(g *aggregates.Graph) { assert.False(t, g.IsExpanded("frontend")) })

	err := f.handler.HandleToggleCategory(ctx, commands.ToggleCategoryCommand{CategoryID: "c1"})
	assert.Error(t, err, "courses are not categories")

	assert.Contains(t, f.publisher.types(), events.TypeCategoryToggled)
}

func TestGraphHandler_CenterGraphRestoresLayout(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()

	var initial valueobjects.Position
	f.graph(t, func(g *aggregates.Graph) {
		n, _ := g.Node("data")
		initial = n.Position()
	})
	require.NoError(t, f.session.Do(func(g *aggregates.Graph) error {
		x, y := 500.0, 500.0
		return g.UpdateNode("data", aggregates.NodePatch{X: &x, Y: &y})
	}))

	require.NoError(t, f.handler.HandleCenterGraph(ctx, commands.CenterGraphCommand{}))
	f.graph(t, func(g *aggregates.Graph) {
		n, _ := g.Node("data")
		assert.Equal(t, initial, n.Position())
	})
	assert.Equal(t, initial, f.layout.saved["data"])
}

func TestGraphHandler_SetCursor(t *testing.T) {
	tests := []struct {
		name  string
		cmd   commands.SetCursorCommand
		want  valueobjects.Position
		isSet bool
	}{
		{
			name:  "graph coordinates",
			cmd:   commands.SetCursorCommand{X: 12, Y: -4},
			want:  mustPos(t, 12, -4),
			isSet: true,
		},
		{
			name:  "screen coordinates",
			cmd:   commands.SetCursorCommand{X: 500, Y: 300, ViewportWidth: 800, ViewportHeight: 600},
			want:  mustPos(t, 100, 0),
			isSet: true,
		},
		{
			name: "clear",
			cmd:  commands.SetCursorCommand{Clear: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGraphFixture(t)
			require.NoError(t, f.handler.HandleSetCursor(context.Background(), tt.cmd))
			f.graph(t, func(g *aggregates.Graph) {
				p, ok := g.Cursor()
				assert.Equal(t, tt.isSet, ok)
				if tt.isSet {
					assert.Equal(t, tt.want, p)
				}
			})
		})
	}
}

func TestGraphHandler_SetLayoutMode(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()

	var before uint64
	f.graph(t, func(g *aggregates.Graph) { before = g.Version() })

	require.NoError(t, f.handler.HandleSetLayoutMode(ctx, commands.SetLayoutModeCommand{Mode: config.LayoutRadial}))
	f.graph(t, func(g *aggregates.Graph) { assert.Equal(t, before, g.Version(), "same mode is a no-op") })

	require.NoError(t, f.handler.HandleSetLayoutMode(ctx, commands.SetLayoutModeCommand{Mode: config.LayoutTree}))
	f.graph(t, func(g *aggregates.Graph) {
		assert.Equal(t, config.LayoutTree, g.Mode())
		assert.Greater(t, g.Version(), before)
		n, _ := g.Node("frontend")
		assert.Equal(t, 340.0, n.Position().X())
	})
	assert.Contains(t, f.publisher.types(), events.TypeGraphRegenerated)
}

func TestGraphHandler_ResetKeepsNothing(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handler.HandleToggleCategory(ctx, commands.ToggleCategoryCommand{CategoryID: "frontend"}))
	require.NoError(t, f.handler.HandleResetGraph(ctx, commands.ResetGraphCommand{}))

	f.graph(t, func(g *aggregates.Graph) {
		assert.False(t, g.IsExpanded("frontend"))
		assert.NoError(t, g.Validate())
	})
}

func TestGraphHandler_PublishFailureDoesNotFailCommand(t *testing.T) {
	f := newGraphFixture(t)
	f.publisher.err = errBoom
	require.NoError(t, f.handler.HandleSelectNode(context.Background(), commands.SelectNodeCommand{NodeID: "data"}))
}

func mustPos(t *testing.T, x, y float64) valueobjects.Position {
	t.Helper()
	p, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	return p
}
