// Package arena models the play field: its bounds, the static obstacles on
// it and the position sampling used when placing enemies and pickups.
package arena

import (
	"math"

	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/utils"
)

// Shape is the bounding volume of an obstacle.
type Shape int

const (
	// ShapeBox is an axis-aligned box on the ground plane.
	ShapeBox Shape = iota
	// ShapeSphere is a vertical cylinder with a rounded top; it is tested
	// as a circle on the ground plane.
	ShapeSphere
)

// Obstacle is a static volume that entities may not overlap.
type Obstacle struct {
	Shape  Shape
	Center utils.Vec3 // Y is always 0
	HalfX  float64    // box only
	HalfZ  float64    // box only
	Radius float64    // sphere only
	Height float64
}

// ObstacleFromConfig converts a config entry.
func ObstacleFromConfig(c config.ObstacleConfig) Obstacle {
	o := Obstacle{
		Center: utils.V3(c.Center[0], 0, c.Center[1]),
		Height: c.Height,
	}
	if c.Shape == config.ShapeSphere {
		o.Shape = ShapeSphere
		o.Radius = c.Radius
	} else {
		o.Shape = ShapeBox
		o.HalfX = c.HalfExtents[0]
		o.HalfZ = c.HalfExtents[1]
	}
	if o.Height <= 0 {
		o.Height = 2
	}
	return o
}

// closestFlat returns the point of the obstacle footprint closest to p.
func (o Obstacle) closestFlat(p utils.Vec3) utils.Vec3 {
	if o.Shape == ShapeSphere {
		d := p.Flat().Sub(o.Center)
		if l := d.Len(); l > o.Radius {
			return o.Center.Add(d.Scale(o.Radius / l))
		}
		return utils.V3(p.X, 0, p.Z)
	}
	return utils.V3(
		utils.Clamp(p.X, o.Center.X-o.HalfX, o.Center.X+o.HalfX),
		0,
		utils.Clamp(p.Z, o.Center.Z-o.HalfZ, o.Center.Z+o.HalfZ),
	)
}

// Overlaps reports whether a sphere of radius r at p touches the obstacle.
// Points above the obstacle's height do not overlap.
func (o Obstacle) Overlaps(p utils.Vec3, r float64) bool {
	if p.Y-r > o.Height {
		return false
	}
	return p.FlatDist(o.closestFlat(p)) <= r
}

// Clearance returns the ground-plane distance from p to the obstacle's
// footprint; 0 inside.
func (o Obstacle) Clearance(p utils.Vec3) float64 {
	return p.FlatDist(o.closestFlat(p))
}

// Push moves a circle of radius r at p out of the obstacle footprint.
// It reports whether a correction was applied. Y is preserved.
func (o Obstacle) Push(p utils.Vec3, r float64) (utils.Vec3, bool) {
	if o.Shape == ShapeSphere {
		d := p.Flat().Sub(o.Center)
		minDist := o.Radius + r
		l := d.Len()
		if l >= minDist {
			return p, false
		}
		dir, ok := d.Normalize()
		if !ok {
			dir = utils.V3(1, 0, 0)
		}
		out := o.Center.Add(dir.Scale(minDist))
		return utils.V3(out.X, p.Y, out.Z), true
	}

	q := o.closestFlat(p)
	d := p.Flat().Sub(q)
	l := d.Len()
	if l >= r {
		return p, false
	}
	if l > utils.Epsilon {
		out := q.Add(d.Scale(r / l))
		return utils.V3(out.X, p.Y, out.Z), true
	}

	// Inside the box: leave through the nearest face.
	left := p.X - (o.Center.X - o.HalfX)
	right := (o.Center.X + o.HalfX) - p.X
	back := p.Z - (o.Center.Z - o.HalfZ)
	front := (o.Center.Z + o.HalfZ) - p.Z
	m := math.Min(math.Min(left, right), math.Min(back, front))
	switch m {
	case left:
		p.X = o.Center.X - o.HalfX - r
	case right:
		p.X = o.Center.X + o.HalfX + r
	case back:
		p.Z = o.Center.Z - o.HalfZ - r
	default:
		p.Z = o.Center.Z + o.HalfZ + r
	}
	return p, true
}

// Normal returns the outward surface normal on the ground plane nearest p.
func (o Obstacle) Normal(p utils.Vec3) utils.Vec3 {
	var d utils.Vec3
	if o.Shape == ShapeSphere {
		d = p.Flat().Sub(o.Center)
	} else {
		d = p.Flat().Sub(o.closestFlat(p))
		if d.LenSq() < utils.Epsilon {
			d = p.Flat().Sub(o.Center)
			if math.Abs(d.X)/o.HalfX > math.Abs(d.Z)/o.HalfZ {
				d = utils.V3(math.Copysign(1, d.X), 0, 0)
			} else {
				d = utils.V3(0, 0, math.Copysign(1, d.Z))
			}
		}
	}
	n, ok := d.Normalize()
	if !ok {
		return utils.V3(0, 1, 0)
	}
	return n
}
