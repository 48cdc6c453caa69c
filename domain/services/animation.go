package services

import (
	"math"

	"fillai-backend/domain/core/valueobjects"
)

// Lerp interpolates linearly between start and end.
func Lerp(start, end, t float64) float64 {
	return start + (end-start)*t
}

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// MapRange maps v from [inMin, inMax] to [outMin, outMax]. An empty input
// range maps everything to outMin.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return (v-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func EaseOutElastic(t float64) float64 {
	switch t {
	case 0, 1:
		return t
	}
	c4 := 2 * math.Pi / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

// BreathingValue oscillates around 1 with the given amplitude.
func BreathingValue(t, amplitude, frequency float64) float64 {
	return 1 + math.Sin(t*frequency)*amplitude
}

// IdleOscillation drifts base on a small Lissajous path.
func IdleOscillation(t float64, base valueobjects.Position, amplitude float64) valueobjects.Position {
	return base.Translate(math.Sin(t*0.5)*amplitude, math.Cos(t*1.2)*amplitude)
}
