package config

import (
	"fmt"
	"image/color"

	"github.com/gonewx/wavearena/pkg/types"
	"golang.org/x/image/colornames"
)

// EnemyStats is one row of the variant lookup table.
//
// Speed and ShootCooldown are base values; the wave's difficulty
// multipliers are applied when an enemy is spawned.
type EnemyStats struct {
	Health          int     `yaml:"health"`          // starting health
	Speed           float64 `yaml:"speed"`           // units per second
	ShootCooldown   float64 `yaml:"shootCooldown"`   // seconds between fire attempts
	OptimalDistance float64 `yaml:"optimalDistance"` // preferred distance to the player
	ShootingRange   float64 `yaml:"shootingRange"`   // beyond this no shots are attempted
	Jitter          float64 `yaml:"jitter"`          // random movement noise
	StrafeBias      float64 `yaml:"strafeBias"`      // sideways component added while seeking/retreating
	AimSpread       float64 `yaml:"aimSpread"`       // aim jitter amplitude, lower is more accurate
	HitRadius       float64 `yaml:"hitRadius"`       // bullet hit sphere, larger than the visual on purpose
	BulletSpeed     float64 `yaml:"bulletSpeed"`     // multiplier on the global bullet speed
	BulletDamage    int     `yaml:"bulletDamage"`    // damage to the player per bullet (max damage for boss bullets)
	DeathBursts     int     `yaml:"deathBursts"`     // explosion stages played while dying
	BossBullets     bool    `yaml:"bossBullets"`     // fires exploding boss bullets instead of plain bullets
	KnockbackImmune bool    `yaml:"knockbackImmune"` // explosions damage instead of blowing away
	Color           string  `yaml:"color"`           // X11 color name
	Scale           float64 `yaml:"scale"`           // visual scale hint for the renderer
}

// EnemyBehavior holds the constants shared by every variant's state machine.
type EnemyBehavior struct {
	RetreatMargin      float64 `yaml:"retreatMargin"`      // retreat when closer than optimal - margin
	AdvanceMargin      float64 `yaml:"advanceMargin"`      // advance when farther than optimal + margin
	StrafeFlipChance   float64 `yaml:"strafeFlipChance"`   // per-tick probability of switching strafe side
	TooCloseFactor     float64 `yaml:"tooCloseFactor"`     // no shots below optimal * factor
	FireChance         float64 `yaml:"fireChance"`         // probability a gated fire attempt shoots
	AimLeadFactor      float64 `yaml:"aimLeadFactor"`      // fraction of the predicted lead actually used
	HitFlashDuration   float64 `yaml:"hitFlashDuration"`   // seconds
	DyingDelay         float64 `yaml:"dyingDelay"`         // delay before the first death burst
	DyingBurstInterval float64 `yaml:"dyingBurstInterval"` // delay between further bursts
	DeathBurstRadius   float64 `yaml:"deathBurstRadius"`
	BlowUpFactor       float64 `yaml:"blowUpFactor"` // vertical share of a knockback impulse
	BlowGravity        float64 `yaml:"blowGravity"`
	MaxTumbleRate      float64 `yaml:"maxTumbleRate"` // radians per second
	MarkerGate         int     `yaml:"markerGate"`    // attached hits needed for the multi-stage death
	MuzzleHeight       float64 `yaml:"muzzleHeight"`
}

// EnemyStatsConfig is the enemy_stats.yaml file.
type EnemyStatsConfig struct {
	Behavior EnemyBehavior         `yaml:"behavior"`
	Enemies  map[string]EnemyStats `yaml:"enemies"`
}

// DefaultEnemyStats returns the built-in table.
func DefaultEnemyStats() *EnemyStatsConfig {
	return &EnemyStatsConfig{
		Behavior: EnemyBehavior{
			RetreatMargin:      1,
			AdvanceMargin:      3,
			StrafeFlipChance:   0.01,
			TooCloseFactor:     0.5,
			FireChance:         0.5,
			AimLeadFactor:      0.5,
			HitFlashDuration:   0.1,
			DyingDelay:         0.4,
			DyingBurstInterval: 0.3,
			DeathBurstRadius:   2.5,
			BlowUpFactor:       0.6,
			BlowGravity:        25,
			MaxTumbleRate:      8,
			MarkerGate:         3,
			MuzzleHeight:       0,
		},
		Enemies: map[string]EnemyStats{
			"regular": {
				Health: 2, Speed: 3.0, ShootCooldown: 3, OptimalDistance: 12, ShootingRange: 25,
				Jitter: 0.3, AimSpread: 0.08, HitRadius: 1.2, BulletSpeed: 0.45, BulletDamage: 10,
				DeathBursts: 1, Color: "firebrick", Scale: 1,
			},
			"chubby": {
				Health: 3, Speed: 2.2, ShootCooldown: 5, OptimalDistance: 10, ShootingRange: 22,
				Jitter: 0.15, AimSpread: 0.15, HitRadius: 1.5, BulletSpeed: 0.35, BulletDamage: 15,
				DeathBursts: 1, Color: "darkolivegreen", Scale: 1.3,
			},
			"thin": {
				Health: 1, Speed: 4.0, ShootCooldown: 4, OptimalDistance: 15, ShootingRange: 30,
				Jitter: 0.6, StrafeBias: 0.5, AimSpread: 0.04, HitRadius: 1.6, BulletSpeed: 0.6, BulletDamage: 8,
				DeathBursts: 1, Color: "slateblue", Scale: 0.8,
			},
			"boss": {
				Health: 40, Speed: 2.5, ShootCooldown: 6, OptimalDistance: 14, ShootingRange: 35,
				Jitter: 0.2, StrafeBias: 0.2, AimSpread: 0.05, HitRadius: 2.5, BulletSpeed: 0.4, BulletDamage: 30,
				DeathBursts: 3, BossBullets: true, KnockbackImmune: true, Color: "darkred", Scale: 2,
			},
		},
	}
}

// LoadEnemyStats loads and validates enemy_stats.yaml.
func LoadEnemyStats(path string) (*EnemyStatsConfig, error) {
	var cfg EnemyStatsConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := validateEnemyStats(&cfg); err != nil {
		return nil, fmt.Errorf("invalid enemy stats in %s: %w", path, err)
	}
	return &cfg, nil
}

func validateEnemyStats(cfg *EnemyStatsConfig) error {
	for _, et := range []types.EnemyType{types.EnemyRegular, types.EnemyChubby, types.EnemyThin, types.EnemyBoss} {
		if _, ok := cfg.Enemies[et.String()]; !ok {
			return fmt.Errorf("missing enemy variant %q", et.String())
		}
	}

	for name, s := range cfg.Enemies {
		if types.EnemyTypeFromString(name) == types.EnemyUnknown {
			return fmt.Errorf("unknown enemy variant %q", name)
		}
		if s.Health < 1 {
			return fmt.Errorf("enemy %s: health must be at least 1, got %d", name, s.Health)
		}
		if s.Speed <= 0 {
			return fmt.Errorf("enemy %s: speed must be positive, got %.2f", name, s.Speed)
		}
		if s.ShootCooldown <= 0 {
			return fmt.Errorf("enemy %s: shootCooldown must be positive, got %.2f", name, s.ShootCooldown)
		}
		if s.ShootingRange < s.OptimalDistance {
			return fmt.Errorf("enemy %s: shootingRange (%.1f) below optimalDistance (%.1f)", name, s.ShootingRange, s.OptimalDistance)
		}
		if s.HitRadius <= 0 {
			return fmt.Errorf("enemy %s: hitRadius must be positive, got %.2f", name, s.HitRadius)
		}
		if s.BulletSpeed <= 0 {
			return fmt.Errorf("enemy %s: bulletSpeed must be positive, got %.2f", name, s.BulletSpeed)
		}
		if s.DeathBursts < 1 {
			return fmt.Errorf("enemy %s: deathBursts must be at least 1, got %d", name, s.DeathBursts)
		}
		if _, ok := colornames.Map[s.Color]; !ok {
			return fmt.Errorf("enemy %s: unknown color name %q", name, s.Color)
		}
	}

	b := cfg.Behavior
	if b.FireChance < 0 || b.FireChance > 1 {
		return fmt.Errorf("behavior.fireChance must be within [0, 1], got %.2f", b.FireChance)
	}
	if b.StrafeFlipChance < 0 || b.StrafeFlipChance > 1 {
		return fmt.Errorf("behavior.strafeFlipChance must be within [0, 1], got %.2f", b.StrafeFlipChance)
	}
	if b.MarkerGate < 1 {
		return fmt.Errorf("behavior.markerGate must be at least 1, got %d", b.MarkerGate)
	}
	if b.BlowGravity <= 0 {
		return fmt.Errorf("behavior.blowGravity must be positive, got %.2f", b.BlowGravity)
	}
	return nil
}

// Stats returns the row for et.
func (c *EnemyStatsConfig) Stats(et types.EnemyType) (EnemyStats, bool) {
	s, ok := c.Enemies[et.String()]
	return s, ok
}

// MustStats returns the row for et and panics when it is missing.
// Loaded configs are validated to contain every variant.
func (c *EnemyStatsConfig) MustStats(et types.EnemyType) EnemyStats {
	s, ok := c.Stats(et)
	if !ok {
		panic(fmt.Sprintf("config: no stats for enemy variant %s", et))
	}
	return s
}

// RGBA resolves the variant's color name.
func (s EnemyStats) RGBA() color.RGBA {
	return ColorByName(s.Color)
}

// ColorByName resolves an X11 color name, falling back to white.
func ColorByName(name string) color.RGBA {
	if c, ok := colornames.Map[name]; ok {
		return c
	}
	return colornames.White
}
