package services

import (
	"math"
	"testing"

	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProgress(t *testing.T) {
	course := &entities.Course{Modules: []entities.Module{
		{Lessons: []entities.Lesson{{}, {}}},
		{Lessons: []entities.Lesson{{}}},
	}}

	tests := []struct {
		name      string
		course    *entities.Course
		completed []string
		want      int
		wantCount int
	}{
		{name: "nothing done", course: course, want: 0},
		{name: "one of three", course: course, completed: []string{"0-0"}, want: 33, wantCount: 1},
		{name: "two of three", course: course, completed: []string{"0-0", "1-0"}, want: 67, wantCount: 2},
		{name: "all", course: course, completed: []string{"0-0", "0-1", "1-0"}, want: 100, wantCount: 3},
		{name: "unknown and duplicate keys", course: course, completed: []string{"0-0", "0-0", "5-5", "bad"}, want: 33, wantCount: 1},
		{name: "no lessons", course: &entities.Course{}, completed: []string{"0-0"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateProgress(tt.course, tt.completed))
			assert.Equal(t, tt.wantCount, CompletedCount(tt.course, tt.completed))
		})
	}

	assert.True(t, IsLessonCompleted([]string{"0-1"}, "0-1"))
	assert.False(t, IsLessonCompleted([]string{"0-1"}, "1-0"))
}

func TestProximity(t *testing.T) {
	mk := func(id string, x, y float64) *entities.Node {
		p, _ := valueobjects.NewPosition(x, y)
		n, _ := entities.NewNode(id, id, valueobjects.NodeTypePrimary, p, entities.NodeStyle{Radius: 1}, "")
		return n
	}
	nodes := []*entities.Node{mk("a", 0, 0), mk("b", 30, 40), mk("c", 100, 0)}
	p, _ := valueobjects.NewPosition(28, 38)

	assert.Equal(t, 5.0, Distance(0, 0, 3, 4))
	assert.Equal(t, "b", FindNearestNode(nodes, p, math.Inf(1)).ID())
	assert.Nil(t, FindNearestNode(nodes, p, 1))
	assert.Len(t, NodesInRadius(nodes, valueobjects.Origin(), 50), 2)

	assert.Equal(t, 1.0, ProximityGlow(0))
	assert.Equal(t, 0.5, ProximityGlow(100))
	assert.Equal(t, 0.0, ProximityGlow(250))
}

func TestAnimationHelpers(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.0, Clamp(-3, 0, 1))
	assert.Equal(t, 50.0, MapRange(5, 0, 10, 0, 100))
	assert.Equal(t, 7.0, MapRange(5, 1, 1, 7, 9))

	for _, ease := range []func(float64) float64{EaseOutCubic, EaseInOutQuad, EaseOutElastic} {
		assert.InDelta(t, 0, ease(0), 1e-9)
		assert.InDelta(t, 1, ease(1), 1e-9)
	}
	assert.Equal(t, 0.5, EaseInOutQuad(0.5))

	assert.Equal(t, 1.0, BreathingValue(0, 0.2, 2))
	assert.InDelta(t, 1.2, BreathingValue(math.Pi/4, 0.2, 2), 1e-9)

	p := IdleOscillation(0, valueobjects.Origin(), 3)
	assert.InDelta(t, 0, p.X(), 1e-9)
	assert.InDelta(t, 3, p.Y(), 1e-9)
}
