package queries

import (
	"fillai-backend/application/ports"
	"fillai-backend/domain/core/valueobjects"
	pkgerrors "fillai-backend/pkg/errors"
)

// GetGraphDataQuery asks for the visible graph. When a viewport is given the
// result also carries a camera that fits the visible nodes into it.
type GetGraphDataQuery struct {
	ViewportWidth  float64
	ViewportHeight float64
	Padding        float64
}

// Validate validates the query
func (q GetGraphDataQuery) Validate() error {
	if q.ViewportWidth < 0 || q.ViewportHeight < 0 || q.Padding < 0 {
		return pkgerrors.NewValidationError("viewport dimensions cannot be negative")
	}
	if (q.ViewportWidth == 0) != (q.ViewportHeight == 0) {
		return pkgerrors.NewValidationError("viewport width and height go together")
	}
	return nil
}

// GetGraphDataResult is the graph as a client draws it.
type GetGraphDataResult struct {
	ports.Frame
	Stats  GraphStats           `json:"stats"`
	Camera *valueobjects.Camera `json:"camera,omitempty"`
}

// GraphStats contains graph statistics
type GraphStats struct {
	NodeCount        int     `json:"nodeCount"`
	LinkCount        int     `json:"linkCount"`
	VisibleNodeCount int     `json:"visibleNodeCount"`
	VisibleLinkCount int     `json:"visibleLinkCount"`
	CategoryCount    int     `json:"categoryCount"`
	CourseCount      int     `json:"courseCount"`
	ExpandedCount    int     `json:"expandedCount"`
	KineticEnergy    float64 `json:"kineticEnergy"`
	Settled          bool    `json:"settled"`
}

// GetNodeQuery represents a query to get a single node
type GetNodeQuery struct {
	NodeID string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// GetNodeResult is one node plus its neighbourhood. Hidden nodes are
// returned too, with Visible false.
type GetNodeResult struct {
	ports.FrameNode
	Visible  bool     `json:"visible"`
	Children []string `json:"children,omitempty"`
	CourseID string   `json:"courseId,omitempty"`
}
