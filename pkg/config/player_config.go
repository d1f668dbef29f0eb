package config

import "fmt"

// MaxDeltaTime caps a single simulation step in seconds.
const MaxDeltaTime = 0.06

// PlayerConfig is the player.yaml file.
type PlayerConfig struct {
	MaxHealth     int     `yaml:"maxHealth"`
	StartAmmo     int     `yaml:"startAmmo"`
	StartGrenades int     `yaml:"startGrenades"`
	Speed         float64 `yaml:"speed"`        // units per second
	Radius        float64 `yaml:"radius"`       // hit sphere for enemy bullets and obstacles
	PickupRadius  float64 `yaml:"pickupRadius"` // overlap distance for pickups
	MuzzleOffset  float64 `yaml:"muzzleOffset"` // bullets spawn this far in front of the player
}

// DefaultPlayerConfig returns the built-in player tuning.
func DefaultPlayerConfig() *PlayerConfig {
	return &PlayerConfig{
		MaxHealth:     100,
		StartAmmo:     70,
		StartGrenades: 3,
		Speed:         8,
		Radius:        0.8,
		PickupRadius:  1.5,
		MuzzleOffset:  1.0,
	}
}

// LoadPlayerConfig loads and validates player.yaml.
func LoadPlayerConfig(path string) (*PlayerConfig, error) {
	var cfg PlayerConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := validatePlayerConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid player config in %s: %w", path, err)
	}
	return &cfg, nil
}

func validatePlayerConfig(cfg *PlayerConfig) error {
	if cfg.MaxHealth < 1 {
		return fmt.Errorf("maxHealth must be at least 1, got %d", cfg.MaxHealth)
	}
	if cfg.StartAmmo < 0 || cfg.StartGrenades < 0 {
		return fmt.Errorf("startAmmo and startGrenades must be >= 0")
	}
	if cfg.Radius <= 0 || cfg.PickupRadius <= 0 {
		return fmt.Errorf("radius and pickupRadius must be positive")
	}
	if cfg.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %.2f", cfg.Speed)
	}
	return nil
}
