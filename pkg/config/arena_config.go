package config

import "fmt"

// ArenaConfig is the arena.yaml file.
type ArenaConfig struct {
	HalfWidth float64           `yaml:"halfWidth"` // X extent from the origin
	HalfDepth float64           `yaml:"halfDepth"` // Z extent from the origin
	Obstacles []ObstacleConfig  `yaml:"obstacles"` // fixed obstacles
	Generator ObstacleGenerator `yaml:"generator"`
}

// ObstacleConfig describes one fixed obstacle.
type ObstacleConfig struct {
	Shape       string     `yaml:"shape"` // "box" or "sphere"
	Center      [2]float64 `yaml:"center"`
	HalfExtents [2]float64 `yaml:"halfExtents"` // box only
	Radius      float64    `yaml:"radius"`      // sphere only
	Height      float64    `yaml:"height"`
}

// ObstacleGenerator places noise-driven obstacles on a grid.
type ObstacleGenerator struct {
	Enabled     bool    `yaml:"enabled"`
	Seed        int64   `yaml:"seed"`
	CellSize    float64 `yaml:"cellSize"`
	Threshold   float64 `yaml:"threshold"`   // noise value above which a cell gets an obstacle
	ClearRadius float64 `yaml:"clearRadius"` // obstacle-free circle around the origin
	EdgeMargin  float64 `yaml:"edgeMargin"`  // obstacle-free band along the walls
	MaxCount    int     `yaml:"maxCount"`
}

// Obstacle shape names.
const (
	ShapeBox    = "box"
	ShapeSphere = "sphere"
)

// DefaultArenaConfig returns the built-in arena.
func DefaultArenaConfig() *ArenaConfig {
	return &ArenaConfig{
		HalfWidth: 40,
		HalfDepth: 30,
		Obstacles: []ObstacleConfig{
			{Shape: ShapeBox, Center: [2]float64{-18, -10}, HalfExtents: [2]float64{3, 1.5}, Height: 2},
			{Shape: ShapeBox, Center: [2]float64{18, 10}, HalfExtents: [2]float64{3, 1.5}, Height: 2},
			{Shape: ShapeSphere, Center: [2]float64{-16, 14}, Radius: 2, Height: 2},
			{Shape: ShapeSphere, Center: [2]float64{16, -14}, Radius: 2, Height: 2},
		},
		Generator: ObstacleGenerator{
			Enabled:     false,
			Seed:        7,
			CellSize:    8,
			Threshold:   0.25,
			ClearRadius: 10,
			EdgeMargin:  4,
			MaxCount:    12,
		},
	}
}

// LoadArenaConfig loads and validates arena.yaml.
func LoadArenaConfig(path string) (*ArenaConfig, error) {
	var cfg ArenaConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := validateArenaConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid arena config in %s: %w", path, err)
	}
	return &cfg, nil
}

func validateArenaConfig(cfg *ArenaConfig) error {
	if cfg.HalfWidth <= 0 || cfg.HalfDepth <= 0 {
		return fmt.Errorf("halfWidth and halfDepth must be positive, got %.1f x %.1f", cfg.HalfWidth, cfg.HalfDepth)
	}
	for i, o := range cfg.Obstacles {
		switch o.Shape {
		case ShapeBox:
			if o.HalfExtents[0] <= 0 || o.HalfExtents[1] <= 0 {
				return fmt.Errorf("obstacles[%d]: box halfExtents must be positive", i)
			}
		case ShapeSphere:
			if o.Radius <= 0 {
				return fmt.Errorf("obstacles[%d]: sphere radius must be positive", i)
			}
		default:
			return fmt.Errorf("obstacles[%d]: unknown shape %q", i, o.Shape)
		}
	}
	g := cfg.Generator
	if g.Enabled {
		if g.CellSize <= 0 {
			return fmt.Errorf("generator.cellSize must be positive, got %.2f", g.CellSize)
		}
		if g.MaxCount < 0 {
			return fmt.Errorf("generator.maxCount must be >= 0, got %d", g.MaxCount)
		}
	}
	return nil
}
