package arena

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/utils"
)

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = int32(3)
)

// GenerateObstacles lays out obstacles on a grid where 2D Perlin noise is
// above the threshold. The layout is deterministic for a seed, leaves a
// clear circle around the origin and a band along the walls.
func GenerateObstacles(g config.ObstacleGenerator, halfWidth, halfDepth float64) []Obstacle {
	if g.CellSize <= 0 || g.MaxCount == 0 {
		return nil
	}
	noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, g.Seed)

	var out []Obstacle
	w := halfWidth - g.EdgeMargin
	d := halfDepth - g.EdgeMargin
	for z := -d + g.CellSize/2; z <= d-g.CellSize/2; z += g.CellSize {
		for x := -w + g.CellSize/2; x <= w-g.CellSize/2; x += g.CellSize {
			c := utils.V3(x, 0, z)
			if c.Len() < g.ClearRadius+g.CellSize/2 {
				continue
			}
			// Noise2D is within [-1, 1]; sample off-lattice to avoid zeros.
			n := noise.Noise2D(x/g.CellSize/3.7+0.31, z/g.CellSize/3.7+0.17)
			if n < g.Threshold {
				continue
			}
			size := g.CellSize * 0.25 * (1 + math.Min(n, 1))
			if int(math.Floor(n*10))%2 == 0 {
				out = append(out, Obstacle{Shape: ShapeSphere, Center: c, Radius: size * 0.8, Height: 2})
			} else {
				out = append(out, Obstacle{Shape: ShapeBox, Center: c, HalfX: size, HalfZ: size * 0.6, Height: 2})
			}
			if g.MaxCount > 0 && len(out) >= g.MaxCount {
				return out
			}
		}
	}
	return out
}
