package config

import (
	"fmt"
	"time"
)

// LayoutMode selects how node positions are produced.
type LayoutMode string

const (
	// LayoutRadial places categories around the center and lets physics settle them.
	LayoutRadial LayoutMode = "radial"
	// LayoutTree is the static hierarchical column layout. Physics is off.
	LayoutTree LayoutMode = "tree"
)

// IsValid reports whether m is a known layout mode.
func (m LayoutMode) IsValid() bool {
	return m == LayoutRadial || m == LayoutTree
}

// PhysicsConfig holds the force-directed simulation constants.
type PhysicsConfig struct {
	// CenterPull scales the pull toward the origin by distance.
	CenterPull float64 `yaml:"center_pull"`
	// Repulsion is the inverse-square repulsion numerator.
	Repulsion float64 `yaml:"repulsion"`
	// MinDistance is half of the repulsion cut-off distance.
	MinDistance    float64 `yaml:"min_distance"`
	SpringStrength float64 `yaml:"spring_strength"`
	Damping        float64 `yaml:"damping"`
	VelocityEps    float64 `yaml:"velocity_eps"`
	TimeStep       float64 `yaml:"time_step"`

	// Ideal link lengths by endpoint type.
	IdealCenterDistance  float64 `yaml:"ideal_center_distance"`
	IdealPrimaryDistance float64 `yaml:"ideal_primary_distance"`
	IdealDefaultDistance float64 `yaml:"ideal_default_distance"`

	// Cursor interaction.
	CursorRadius   float64 `yaml:"cursor_radius"`
	CursorStrength float64 `yaml:"cursor_strength"`
	CursorScale    float64 `yaml:"cursor_scale"`
}

// RepulsionCutoff is the distance beyond which nodes do not repel.
func (c PhysicsConfig) RepulsionCutoff() float64 {
	return c.MinDistance * 2
}

// Validate rejects constants that would make the simulation diverge.
func (c PhysicsConfig) Validate() error {
	switch {
	case c.Damping <= 0 || c.Damping >= 1:
		return fmt.Errorf("damping must be in (0, 1), got %v", c.Damping)
	case c.TimeStep <= 0:
		return fmt.Errorf("time step must be positive, got %v", c.TimeStep)
	case c.SpringStrength < 0 || c.Repulsion < 0 || c.CenterPull < 0:
		return fmt.Errorf("force constants must not be negative")
	case c.MinDistance <= 0:
		return fmt.Errorf("min distance must be positive, got %v", c.MinDistance)
	case c.IdealCenterDistance <= 0 || c.IdealPrimaryDistance <= 0 || c.IdealDefaultDistance <= 0:
		return fmt.Errorf("ideal distances must be positive")
	}
	return nil
}

// LayoutConfig controls graph generation and the tick loop.
type LayoutConfig struct {
	Mode          LayoutMode    `yaml:"mode"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	CenterLabel   string        `yaml:"center_label"`

	// Radial placement.
	CategoryRadius float64 `yaml:"category_radius"`
	CourseDistance float64 `yaml:"course_distance"`
	CourseSpread   float64 `yaml:"course_spread"`

	// Tree placement.
	TreeCategoryX       float64 `yaml:"tree_category_x"`
	TreeCourseX         float64 `yaml:"tree_course_x"`
	TreeCategorySpacing float64 `yaml:"tree_category_spacing"`
	TreeCourseSpacing   float64 `yaml:"tree_course_spacing"`

	MaxLabelLength int `yaml:"max_label_length"`
}

// Validate checks the layout settings.
func (c LayoutConfig) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("unknown layout mode %q", c.Mode)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame interval must be positive")
	}
	if c.MaxLabelLength <= 0 {
		return fmt.Errorf("max label length must be positive")
	}
	return nil
}

// DomainConfig groups every tunable domain rule.
type DomainConfig struct {
	Physics PhysicsConfig `yaml:"physics"`
	Layout  LayoutConfig  `yaml:"layout"`
}

// DefaultPhysicsConfig returns the tuned simulation constants.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		CenterPull:     0.00003,
		Repulsion:      1000,
		MinDistance:    80,
		SpringStrength: 0.01,
		Damping:        0.92,
		VelocityEps:    0.01,
		TimeStep:       16,

		IdealCenterDistance:  200,
		IdealPrimaryDistance: 250,
		IdealDefaultDistance: 150,

		CursorRadius:   100,
		CursorStrength: 200,
		CursorScale:    0.005,
	}
}

// DefaultLayoutConfig returns the default graph layout.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Mode:          LayoutRadial,
		FrameInterval: 16 * time.Millisecond,
		CenterLabel:   "You",

		CategoryRadius: 180,
		CourseDistance: 150,
		CourseSpread:   0.35,

		TreeCategoryX:       340,
		TreeCourseX:         620,
		TreeCategorySpacing: 220,
		TreeCourseSpacing:   90,

		MaxLabelLength: 22,
	}
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		Physics: DefaultPhysicsConfig(),
		Layout:  DefaultLayoutConfig(),
	}
}

// Validate validates both sections.
func (c *DomainConfig) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	return nil
}
