package valueobjects

import "math"

// Velocity is a per-tick displacement rate.
type Velocity struct {
	vx float64
	vy float64
}

// NewVelocity creates a velocity. Non-finite components become zero.
func NewVelocity(vx, vy float64) Velocity {
	if !isValidCoordinate(vx) {
		vx = 0
	}
	if !isValidCoordinate(vy) {
		vy = 0
	}
	return Velocity{vx: vx, vy: vy}
}

// ZeroVelocity is a node at rest.
func ZeroVelocity() Velocity {
	return Velocity{}
}

func (v Velocity) VX() float64 { return v.vx }
func (v Velocity) VY() float64 { return v.vy }

// Add returns v plus (dvx, dvy).
func (v Velocity) Add(dvx, dvy float64) Velocity {
	return NewVelocity(v.vx+dvx, v.vy+dvy)
}

// Scale multiplies both components by f.
func (v Velocity) Scale(f float64) Velocity {
	return NewVelocity(v.vx*f, v.vy*f)
}

// Magnitude returns the speed.
func (v Velocity) Magnitude() float64 {
	return math.Hypot(v.vx, v.vy)
}

// IsZero reports whether the velocity is exactly zero.
func (v Velocity) IsZero() bool {
	return v.vx == 0 && v.vy == 0
}

// SnapBelow zeroes each component whose magnitude is under eps.
func (v Velocity) SnapBelow(eps float64) Velocity {
	if math.Abs(v.vx) < eps {
		v.vx = 0
	}
	if math.Abs(v.vy) < eps {
		v.vy = 0
	}
	return v
}
