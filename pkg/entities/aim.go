package entities

import (
	"math"
	"math/rand"

	"github.com/gonewx/wavearena/pkg/utils"
)

const (
	aimIterations  = 5
	aimConvergence = 0.001
	minAimDistance = 1.0
	minTargetSpeed = 0.1
)

// PredictAim returns where to aim so a projectile of the given speed meets
// a target moving at constant velocity. leadFactor scales the predicted
// lead: 1 is a perfect intercept, 0 aims at the current position.
func PredictAim(shooter, target, targetVel utils.Vec3, projectileSpeed, leadFactor float64) utils.Vec3 {
	if projectileSpeed <= 0 || targetVel.Flat().Len() < minTargetSpeed {
		return target
	}
	distance := shooter.Dist(target)
	if distance < minAimDistance {
		return target
	}

	// Refine the flight time t so that |target + v*t - shooter| = speed*t.
	t := distance / projectileSpeed
	for i := 0; i < aimIterations; i++ {
		predicted := target.Add(targetVel.Scale(t))
		d := predicted.Dist(shooter)
		if d <= 0 {
			break
		}
		newT := d / projectileSpeed
		if math.Abs(newT-t) < aimConvergence {
			t = newT
			break
		}
		t = newT
	}
	return target.Add(targetVel.Scale(t * leadFactor))
}

// JitterDirection perturbs a ground-plane direction by up to spread on each
// horizontal axis. Each offset is the sum of two uniforms, which clusters
// shots around the true direction. Returns false when the result is degenerate.
func JitterDirection(dir utils.Vec3, spread float64, rng *rand.Rand) (utils.Vec3, bool) {
	if spread > 0 {
		dir = dir.Add(utils.V3(
			spread*(rng.Float64()+rng.Float64()-1),
			0,
			spread*(rng.Float64()+rng.Float64()-1),
		))
	}
	return dir.Normalize()
}
