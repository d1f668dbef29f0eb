package config

import "fmt"

// ProjectileConfig is the projectiles.yaml file.
type ProjectileConfig struct {
	Bullet     BulletConfig     `yaml:"bullet"`
	Grenade    GrenadeConfig    `yaml:"grenade"`
	BossBullet BossBulletConfig `yaml:"bossBullet"`
}

// BulletConfig tunes plain bullets for both owners.
type BulletConfig struct {
	Speed            float64 `yaml:"speed"`            // global bullet speed constant
	PlayerMultiplier float64 `yaml:"playerMultiplier"` // enemies use their variant's multiplier
	MaxRange         float64 `yaml:"maxRange"`         // travel distance before deactivation
	Radius           float64 `yaml:"radius"`
	Attach           bool    `yaml:"attach"`         // player bullets embed in the enemy they hit
	Damage           int     `yaml:"damage"`         // damage a player bullet deals to an enemy
	DecalRadius      float64 `yaml:"decalRadius"`    // bullet hole on obstacles
	SplatterRadius   float64 `yaml:"splatterRadius"` // ground splatter on enemy hits
	MaxAttached      int     `yaml:"maxAttached"`    // markers kept per enemy for rendering
}

// ExplosionConfig is the shared one-shot explosion policy.
type ExplosionConfig struct {
	ArmTime      float64 `yaml:"armTime"`      // seconds from launch until the explosion
	Radius       float64 `yaml:"radius"`       // area of effect
	Window       float64 `yaml:"window"`       // explosion-active duration
	SettleDelay  float64 `yaml:"settleDelay"`  // retained after the window for debris
	Knockback    float64 `yaml:"knockback"`    // blow-away strength at the centre
	PlayerDamage int     `yaml:"playerDamage"` // damage to the player at the centre; 0 uses the shooter's damage
	EnemyDamage  int     `yaml:"enemyDamage"`  // damage at the centre to enemies immune to knockback
}

// GrenadeConfig tunes thrown grenades.
type GrenadeConfig struct {
	ThrowSpeed     float64         `yaml:"throwSpeed"`     // horizontal speed
	LaunchVelocity float64         `yaml:"launchVelocity"` // initial vertical velocity
	Gravity        float64         `yaml:"gravity"`
	BounceDamping  float64         `yaml:"bounceDamping"` // vertical velocity kept per bounce
	Friction       float64         `yaml:"friction"`      // horizontal speed kept per bounce
	GroundHeight   float64         `yaml:"groundHeight"`
	Radius         float64         `yaml:"radius"`
	MinBounceSpeed float64         `yaml:"minBounceSpeed"` // below this a bounce is silent and the grenade rests
	Explosion      ExplosionConfig `yaml:"explosion"`
}

// BossBulletConfig tunes the boss's exploding projectile.
type BossBulletConfig struct {
	Radius    float64         `yaml:"radius"`
	MaxRange  float64         `yaml:"maxRange"`
	HitRadius float64         `yaml:"hitRadius"` // proximity to the player that detonates it
	Explosion ExplosionConfig `yaml:"explosion"`
}

// DefaultProjectileConfig returns the built-in tuning.
func DefaultProjectileConfig() *ProjectileConfig {
	return &ProjectileConfig{
		Bullet: BulletConfig{
			Speed:            40,
			PlayerMultiplier: 1.0,
			MaxRange:         60,
			Radius:           0.2,
			Attach:           true,
			Damage:           1,
			DecalRadius:      0.3,
			SplatterRadius:   1.2,
			MaxAttached:      8,
		},
		Grenade: GrenadeConfig{
			ThrowSpeed:     14,
			LaunchVelocity: 9,
			Gravity:        20,
			BounceDamping:  0.45,
			Friction:       0.7,
			GroundHeight:   0.25,
			Radius:         0.3,
			MinBounceSpeed: 1.0,
			Explosion: ExplosionConfig{
				ArmTime:      3.0,
				Radius:       6,
				Window:       0.4,
				SettleDelay:  1.5,
				Knockback:    18,
				PlayerDamage: 40,
				EnemyDamage:  10,
			},
		},
		BossBullet: BossBulletConfig{
			Radius:    0.5,
			MaxRange:  50,
			HitRadius: 1.0,
			Explosion: ExplosionConfig{
				ArmTime:     4.0,
				Radius:      4,
				Window:      0.4,
				SettleDelay: 0.8,
				Knockback:   10,
			},
		},
	}
}

// LoadProjectileConfig loads and validates projectiles.yaml.
func LoadProjectileConfig(path string) (*ProjectileConfig, error) {
	var cfg ProjectileConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := validateProjectileConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid projectile config in %s: %w", path, err)
	}
	return &cfg, nil
}

func validateProjectileConfig(cfg *ProjectileConfig) error {
	b := cfg.Bullet
	if b.Speed <= 0 || b.PlayerMultiplier <= 0 {
		return fmt.Errorf("bullet.speed and bullet.playerMultiplier must be positive")
	}
	if b.MaxRange <= 0 {
		return fmt.Errorf("bullet.maxRange must be positive, got %.2f", b.MaxRange)
	}
	if b.Radius < 0 {
		return fmt.Errorf("bullet.radius must be >= 0, got %.2f", b.Radius)
	}
	if b.Damage < 1 {
		return fmt.Errorf("bullet.damage must be at least 1, got %d", b.Damage)
	}

	g := cfg.Grenade
	if g.Gravity <= 0 {
		return fmt.Errorf("grenade.gravity must be positive, got %.2f", g.Gravity)
	}
	if g.BounceDamping < 0 || g.BounceDamping > 1 || g.Friction < 0 || g.Friction > 1 {
		return fmt.Errorf("grenade.bounceDamping and grenade.friction must be within [0, 1]")
	}
	if err := validateExplosion("grenade.explosion", g.Explosion); err != nil {
		return err
	}

	bb := cfg.BossBullet
	if bb.MaxRange <= 0 {
		return fmt.Errorf("bossBullet.maxRange must be positive, got %.2f", bb.MaxRange)
	}
	return validateExplosion("bossBullet.explosion", bb.Explosion)
}

func validateExplosion(field string, e ExplosionConfig) error {
	if e.ArmTime <= 0 {
		return fmt.Errorf("%s.armTime must be positive, got %.2f", field, e.ArmTime)
	}
	if e.Radius <= 0 {
		return fmt.Errorf("%s.radius must be positive, got %.2f", field, e.Radius)
	}
	if e.Window <= 0 {
		return fmt.Errorf("%s.window must be positive, got %.2f", field, e.Window)
	}
	if e.SettleDelay < 0 {
		return fmt.Errorf("%s.settleDelay must be >= 0, got %.2f", field, e.SettleDelay)
	}
	if e.PlayerDamage < 0 || e.EnemyDamage < 0 {
		return fmt.Errorf("%s.playerDamage and %s.enemyDamage must be >= 0", field, field)
	}
	return nil
}
