package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDomainConfig(t *testing.T) {
	cfg := DefaultDomainConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 160.0, cfg.Physics.RepulsionCutoff())
	assert.Equal(t, LayoutRadial, cfg.Layout.Mode)
}

func TestPhysicsConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PhysicsConfig)
		ok     bool
	}{
		{name: "defaults", mutate: func(*PhysicsConfig) {}, ok: true},
		{name: "no damping", mutate: func(c *PhysicsConfig) { c.Damping = 1 }},
		{name: "zero time step", mutate: func(c *PhysicsConfig) { c.TimeStep = 0 }},
		{name: "negative spring", mutate: func(c *PhysicsConfig) { c.SpringStrength = -1 }},
		{name: "zero ideal distance", mutate: func(c *PhysicsConfig) { c.IdealDefaultDistance = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPhysicsConfig()
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestLayoutConfig_Validate(t *testing.T) {
	cfg := DefaultLayoutConfig()
	cfg.Mode = "spiral"
	assert.ErrorContains(t, cfg.Validate(), "unknown layout mode")

	cfg = DefaultLayoutConfig()
	cfg.Mode = LayoutTree
	assert.NoError(t, cfg.Validate())
}
