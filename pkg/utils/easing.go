package utils

import "math"

// Easing curves map animation progress t ∈ [0, 1] to [0, 1]. Inputs
// outside the range are clamped.

// EaseOutCubic starts fast and settles: 1 - (1-t)³.
func EaseOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	return 1 - math.Pow(1-t, 3)
}

// EaseOutQuad is a softer EaseOutCubic: 1 - (1-t)².
func EaseOutQuad(t float64) float64 {
	t = Clamp(t, 0, 1)
	return 1 - (1-t)*(1-t)
}

// EaseInQuad starts slow: t².
func EaseInQuad(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t
}

// FadeOut is the remaining opacity of something that has lived elapsed out
// of lifetime seconds, holding full strength for the first hold fraction.
func FadeOut(elapsed, lifetime, hold float64) float64 {
	if lifetime <= 0 {
		return 0
	}
	p := elapsed / lifetime
	if p <= hold {
		return 1
	}
	if p >= 1 {
		return 0
	}
	return 1 - EaseInQuad((p-hold)/(1-hold))
}
