package valueobjects

import (
	"math"

	pkgerrors "fillai-backend/pkg/errors"
)

// Position is a point in graph space. The origin is where the center node lives.
type Position struct {
	x float64
	y float64
}

// NewPosition creates a position with validation
func NewPosition(x, y float64) (Position, error) {
	if !isValidCoordinate(x) || !isValidCoordinate(y) {
		return Position{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Position{x: x, y: y}, nil
}

// Origin returns (0, 0).
func Origin() Position {
	return Position{}
}

// X returns the X coordinate
func (p Position) X() float64 {
	return p.x
}

// Y returns the Y coordinate
func (p Position) Y() float64 {
	return p.y
}

// IsOrigin reports whether p is (0, 0).
func (p Position) IsOrigin() bool {
	return p.Equals(Origin())
}

// DistanceTo calculates the Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.x-other.x, p.y-other.y)
}

// Delta returns other minus p.
func (p Position) Delta(other Position) (dx, dy float64) {
	return other.x - p.x, other.y - p.y
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.x-other.x) < epsilon && math.Abs(p.y-other.y) < epsilon
}

// Translate moves the position by the given offsets. A move that would
// leave a coordinate non-finite is ignored.
func (p Position) Translate(dx, dy float64) Position {
	next := Position{x: p.x + dx, y: p.y + dy}
	if !isValidCoordinate(next.x) || !isValidCoordinate(next.y) {
		return p
	}
	return next
}

// Midpoint calculates the midpoint between two positions
func (p Position) Midpoint(other Position) Position {
	return Position{
		x: (p.x + other.x) / 2,
		y: (p.y + other.y) / 2,
	}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Position
	Max Position
}

// BoundsOf returns the box around positions. Empty input yields a box at the origin.
func BoundsOf(positions []Position) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		b.Min.x = math.Min(b.Min.x, p.x)
		b.Min.y = math.Min(b.Min.y, p.y)
		b.Max.x = math.Max(b.Max.x, p.x)
		b.Max.y = math.Max(b.Max.y, p.y)
	}
	return b
}

// Center returns the middle of the box.
func (b Bounds) Center() Position {
	return b.Min.Midpoint(b.Max)
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 {
	return b.Max.x - b.Min.x
}

// Height returns the vertical extent.
func (b Bounds) Height() float64 {
	return b.Max.y - b.Min.y
}

func isValidCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
