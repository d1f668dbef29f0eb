package arena

import (
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/utils"
)

// Arena is the rectangular play field centred on the origin.
type Arena struct {
	HalfWidth float64
	HalfDepth float64
	Obstacles []Obstacle
}

// New builds the arena from config, including generated obstacles.
func New(cfg *config.ArenaConfig) *Arena {
	a := &Arena{HalfWidth: cfg.HalfWidth, HalfDepth: cfg.HalfDepth}
	for _, oc := range cfg.Obstacles {
		a.Obstacles = append(a.Obstacles, ObstacleFromConfig(oc))
	}
	if cfg.Generator.Enabled {
		generated := GenerateObstacles(cfg.Generator, cfg.HalfWidth, cfg.HalfDepth)
		log.Printf("[Arena] Generated %d obstacles (seed %d)", len(generated), cfg.Generator.Seed)
		a.Obstacles = append(a.Obstacles, generated...)
	}
	return a
}

// InBounds reports whether p lies at least margin inside the walls.
func (a *Arena) InBounds(p utils.Vec3, margin float64) bool {
	return math.Abs(p.X) <= a.HalfWidth-margin && math.Abs(p.Z) <= a.HalfDepth-margin
}

// ClampToBounds keeps a circle of radius r inside the walls.
func (a *Arena) ClampToBounds(p utils.Vec3, r float64) utils.Vec3 {
	p.X = utils.Clamp(p.X, -a.HalfWidth+r, a.HalfWidth-r)
	p.Z = utils.Clamp(p.Z, -a.HalfDepth+r, a.HalfDepth-r)
	return p
}

// ResolvePenetration moves a circle of radius r at p out of every obstacle
// and back inside the walls. This is a positional correction only.
func (a *Arena) ResolvePenetration(p utils.Vec3, r float64) utils.Vec3 {
	for i := range a.Obstacles {
		p, _ = a.Obstacles[i].Push(p, r)
	}
	return a.ClampToBounds(p, r)
}

// HitObstacle returns the first obstacle a sphere of radius r at p overlaps.
func (a *Arena) HitObstacle(p utils.Vec3, r float64) (*Obstacle, bool) {
	for i := range a.Obstacles {
		if a.Obstacles[i].Overlaps(p, r) {
			return &a.Obstacles[i], true
		}
	}
	return nil, false
}

// NearObstacle reports whether p is within clearance of any obstacle.
func (a *Arena) NearObstacle(p utils.Vec3, clearance float64) bool {
	for i := range a.Obstacles {
		if a.Obstacles[i].Clearance(p) < clearance {
			return true
		}
	}
	return false
}

// RandomPerimeterPoint returns a point on the rectangle inset from the walls.
func (a *Arena) RandomPerimeterPoint(rng *rand.Rand, inset float64) utils.Vec3 {
	w := a.HalfWidth - inset
	d := a.HalfDepth - inset
	// Pick a point along the perimeter length so every edge is weighted by size.
	t := rng.Float64() * 2 * (w + d) * 2
	switch {
	case t < 2*w:
		return utils.V3(-w+t, 0, -d)
	case t < 2*w+2*d:
		return utils.V3(w, 0, -d+(t-2*w))
	case t < 4*w+2*d:
		return utils.V3(w-(t-2*w-2*d), 0, d)
	default:
		return utils.V3(-w, 0, d-(t-4*w-2*d))
	}
}

// RandomInteriorPoint returns a uniformly random point at least margin
// inside the walls.
func (a *Arena) RandomInteriorPoint(rng *rand.Rand, margin float64) utils.Vec3 {
	w := math.Max(a.HalfWidth-margin, 0)
	d := math.Max(a.HalfDepth-margin, 0)
	return utils.V3((rng.Float64()*2-1)*w, 0, (rng.Float64()*2-1)*d)
}

// Corners returns the four corners inset from the walls.
func (a *Arena) Corners(inset float64) [4]utils.Vec3 {
	w := a.HalfWidth - inset
	d := a.HalfDepth - inset
	return [4]utils.Vec3{
		utils.V3(-w, 0, -d),
		utils.V3(w, 0, -d),
		utils.V3(w, 0, d),
		utils.V3(-w, 0, d),
	}
}

// FarthestCorner returns the inset corner farthest from p.
func (a *Arena) FarthestCorner(p utils.Vec3, inset float64) utils.Vec3 {
	corners := a.Corners(inset)
	best := corners[0]
	bestDist := -1.0
	for _, c := range corners {
		if d := c.FlatDist(p); d > bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
