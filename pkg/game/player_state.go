package game

import (
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/utils"
)

// Player is what the simulation needs from the player: a target for
// aiming and collisions plus the inventory that pickups refill.
type Player interface {
	Position() utils.Vec3
	SetPosition(p utils.Vec3)
	Velocity() utils.Vec3
	Radius() float64
	Alive() bool

	Health() int
	Ammo() int
	Grenades() int

	TakeDamage(amount int)
	AddHealth(n int)
	AddAmmo(n int)
	AddGrenades(n int)
	// UseAmmo spends one round; false when empty.
	UseAmmo() bool
	// UseGrenade spends one grenade; false when none are left.
	UseGrenade() bool
}

// PlayerState is the reference Player used by the app and the headless runner.
type PlayerState struct {
	pos       utils.Vec3
	vel       utils.Vec3
	radius    float64
	speed     float64
	health    int
	maxHealth int
	ammo      int
	grenades  int
	facing    utils.Vec3

	damageTaken int
}

// NewPlayerState creates a player at the origin with the configured loadout.
func NewPlayerState(cfg *config.PlayerConfig) *PlayerState {
	return &PlayerState{
		radius:    cfg.Radius,
		speed:     cfg.Speed,
		health:    cfg.MaxHealth,
		maxHealth: cfg.MaxHealth,
		ammo:      cfg.StartAmmo,
		grenades:  cfg.StartGrenades,
		facing:    utils.V3(0, 0, 1),
	}
}

// Move sets the velocity from a ground-plane direction and integrates the
// position. A zero or invalid direction stops the player.
func (p *PlayerState) Move(dir utils.Vec3, dt float64) {
	if !p.Alive() {
		p.vel = utils.Zero
		return
	}
	n, ok := dir.Flat().Normalize()
	if !ok {
		p.vel = utils.Zero
		return
	}
	p.vel = n.Scale(p.speed)
	p.pos = p.pos.Add(p.vel.Scale(dt))
}

// Face sets the aim direction on the ground plane.
func (p *PlayerState) Face(dir utils.Vec3) {
	if n, ok := dir.Flat().Normalize(); ok {
		p.facing = n
	}
}

// Facing returns the aim direction.
func (p *PlayerState) Facing() utils.Vec3 { return p.facing }

func (p *PlayerState) Position() utils.Vec3     { return p.pos }
func (p *PlayerState) SetPosition(v utils.Vec3) { p.pos = v }
func (p *PlayerState) Velocity() utils.Vec3     { return p.vel }
func (p *PlayerState) Radius() float64          { return p.radius }
func (p *PlayerState) Alive() bool              { return p.health > 0 }
func (p *PlayerState) Health() int              { return p.health }
func (p *PlayerState) MaxHealth() int           { return p.maxHealth }
func (p *PlayerState) Ammo() int                { return p.ammo }
func (p *PlayerState) Grenades() int            { return p.grenades }

// DamageTaken returns the total damage absorbed so far.
func (p *PlayerState) DamageTaken() int { return p.damageTaken }

// TakeDamage reduces health, never below zero.
func (p *PlayerState) TakeDamage(amount int) {
	if amount <= 0 || !p.Alive() {
		return
	}
	p.damageTaken += min(amount, p.health)
	p.health = max(p.health-amount, 0)
}

// AddHealth restores health up to the maximum.
func (p *PlayerState) AddHealth(n int) {
	if n <= 0 || !p.Alive() {
		return
	}
	p.health = min(p.health+n, p.maxHealth)
}

func (p *PlayerState) AddAmmo(n int) {
	if n > 0 {
		p.ammo += n
	}
}

func (p *PlayerState) AddGrenades(n int) {
	if n > 0 {
		p.grenades += n
	}
}

func (p *PlayerState) UseAmmo() bool {
	if p.ammo <= 0 {
		return false
	}
	p.ammo--
	return true
}

func (p *PlayerState) UseGrenade() bool {
	if p.grenades <= 0 {
		return false
	}
	p.grenades--
	return true
}
