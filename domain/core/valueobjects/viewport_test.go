package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewport(t *testing.T) {
	_, err := NewViewport(0, 600)
	assert.Error(t, err)

	v, err := NewViewport(800, 600)
	require.NoError(t, err)
	cx, cy := v.Center()
	assert.Equal(t, 400.0, cx)
	assert.Equal(t, 300.0, cy)
}

func TestViewport_RoundTrip(t *testing.T) {
	v, _ := NewViewport(1200, 800)

	p := v.ToGraph(700, 300)
	assert.Equal(t, 100.0, p.X())
	assert.Equal(t, -100.0, p.Y())

	sx, sy := v.ToScreen(p)
	assert.Equal(t, 700.0, sx)
	assert.Equal(t, 300.0, sy)
}

func TestViewport_Fit(t *testing.T) {
	v, _ := NewViewport(1000, 600)
	p1, _ := NewPosition(0, -100)
	p2, _ := NewPosition(620, 100)

	cam := v.Fit(BoundsOf([]Position{p1, p2}), 50)
	assert.Equal(t, -310.0, cam.OffsetX)
	assert.Equal(t, 0.0, cam.OffsetY)
	assert.Equal(t, 1.0, cam.Scale)

	wide, _ := NewPosition(1800, 0)
	cam = v.Fit(BoundsOf([]Position{p1, wide}), 50)
	assert.InDelta(t, 900.0/1800.0, cam.Scale, 1e-9)
}
