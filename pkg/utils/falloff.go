package utils

import "math"

// Distance falloff curves for area effects.
//
// Every curve takes the distance from the effect centre and the effect
// radius and returns a factor in [0, 1]: 1 at the centre, 0 at or beyond
// the radius.

// LinearFalloff decreases proportionally with distance.
func LinearFalloff(distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	if distance <= 0 {
		return 1
	}
	return 1 - distance/radius
}

// QuadFalloff keeps most of its strength near the centre and drops sharply
// near the edge: f = 1 - (d/r)².
func QuadFalloff(distance, radius float64) float64 {
	l := LinearFalloff(distance, radius)
	if l == 0 {
		return 0
	}
	t := 1 - l
	return 1 - t*t
}

// ScaledDamage converts a falloff factor into integer damage.
// Anything inside the radius deals at least 1.
func ScaledDamage(maxDamage int, factor float64) int {
	if factor <= 0 || maxDamage <= 0 {
		return 0
	}
	d := int(math.Ceil(float64(maxDamage) * factor))
	if d < 1 {
		d = 1
	}
	if d > maxDamage {
		d = maxDamage
	}
	return d
}
