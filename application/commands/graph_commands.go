package commands

import (
	"math"

	"fillai-backend/domain/config"
	pkgerrors "fillai-backend/pkg/errors"
)

// SelectNodeCommand selects a node. An empty NodeID clears the selection.
type SelectNodeCommand struct {
	NodeID string `json:"nodeId"`
}

func (c SelectNodeCommand) Validate() error { return nil }

// StartDragCommand grabs a node.
type StartDragCommand struct {
	NodeID string `json:"nodeId"`
}

func (c StartDragCommand) Validate() error {
	if c.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// MaxDragDelta bounds a single pointer delta in graph units.
const MaxDragDelta = 1e5

// DragNodeCommand moves the grabbed node by a pointer delta in graph units.
type DragNodeCommand struct {
	NodeID string  `json:"nodeId"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

func (c DragNodeCommand) Validate() error {
	if c.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	if !finite(c.DX) || !finite(c.DY) {
		return pkgerrors.NewValidationError("drag delta must be finite")
	}
	if math.Abs(c.DX) > MaxDragDelta || math.Abs(c.DY) > MaxDragDelta {
		return pkgerrors.NewValidationError("drag delta is out of range")
	}
	return nil
}

// StopDragCommand releases the grabbed node and saves the layout.
type StopDragCommand struct{}

func (c StopDragCommand) Validate() error { return nil }

// ToggleCategoryCommand expands or collapses a category.
type ToggleCategoryCommand struct {
	CategoryID string `json:"categoryId"`
}

func (c ToggleCategoryCommand) Validate() error {
	if c.CategoryID == "" {
		return pkgerrors.NewValidationError("category ID is required")
	}
	return nil
}

// CenterGraphCommand returns every node to its initial layout position.
type CenterGraphCommand struct{}

func (c CenterGraphCommand) Validate() error { return nil }

// RegenerateGraphCommand rebuilds the graph from the catalog, keeping
// interaction state and surviving positions.
type RegenerateGraphCommand struct{}

func (c RegenerateGraphCommand) Validate() error { return nil }

// ResetGraphCommand rebuilds the graph and drops all interaction state.
type ResetGraphCommand struct{}

func (c ResetGraphCommand) Validate() error { return nil }

// SetCursorCommand records the pointer. With a viewport the coordinates are
// screen pixels, otherwise graph units. Clear forgets the pointer.
type SetCursorCommand struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	ViewportWidth  float64 `json:"viewportWidth,omitempty"`
	ViewportHeight float64 `json:"viewportHeight,omitempty"`
	Clear          bool    `json:"clear,omitempty"`
}

func (c SetCursorCommand) Validate() error {
	if c.Clear {
		return nil
	}
	if !finite(c.X) || !finite(c.Y) {
		return pkgerrors.NewValidationError("cursor position must be finite")
	}
	if (c.ViewportWidth != 0 || c.ViewportHeight != 0) && (c.ViewportWidth <= 0 || c.ViewportHeight <= 0) {
		return pkgerrors.NewValidationError("viewport dimensions must both be positive")
	}
	return nil
}

// SetLayoutModeCommand switches between radial and tree layout.
type SetLayoutModeCommand struct {
	Mode config.LayoutMode `json:"mode"`
}

func (c SetLayoutModeCommand) Validate() error {
	if !c.Mode.IsValid() {
		return pkgerrors.NewValidationError("mode must be one of: radial tree")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
