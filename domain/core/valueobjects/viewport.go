package valueobjects

import (
	pkgerrors "fillai-backend/pkg/errors"
)

// Viewport is the client's drawing area in screen pixels. Graph space is
// centred on the middle of the viewport.
type Viewport struct {
	width  float64
	height float64
}

// NewViewport validates and creates a viewport.
func NewViewport(width, height float64) (Viewport, error) {
	if !isValidCoordinate(width) || !isValidCoordinate(height) || width <= 0 || height <= 0 {
		return Viewport{}, pkgerrors.NewValidationError("viewport dimensions must be positive")
	}
	return Viewport{width: width, height: height}, nil
}

func (v Viewport) Width() float64  { return v.width }
func (v Viewport) Height() float64 { return v.height }

// Center returns the screen-space middle of the viewport.
func (v Viewport) Center() (float64, float64) {
	return v.width / 2, v.height / 2
}

// ToGraph converts a screen point to graph coordinates.
func (v Viewport) ToGraph(sx, sy float64) Position {
	cx, cy := v.Center()
	return Position{x: sx - cx, y: sy - cy}
}

// ToScreen converts a graph position to screen coordinates.
func (v Viewport) ToScreen(p Position) (float64, float64) {
	cx, cy := v.Center()
	return p.x + cx, p.y + cy
}

// Camera is the translation and zoom a client applies to graph space.
type Camera struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Scale   float64 `json:"scale"`
}

// Fit returns the camera that centres b in the viewport and shrinks it to
// fit inside the padding. It never zooms in past 1.
func (v Viewport) Fit(b Bounds, padding float64) Camera {
	c := b.Center()
	cam := Camera{OffsetX: -c.x, OffsetY: -c.y, Scale: 1}

	availW := v.width - 2*padding
	availH := v.height - 2*padding
	if availW <= 0 || availH <= 0 {
		return cam
	}
	if w := b.Width(); w > availW {
		cam.Scale = availW / w
	}
	if h := b.Height(); h > 0 && availH/h < cam.Scale {
		cam.Scale = availH / h
	}
	return cam
}
