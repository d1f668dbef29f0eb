package entities

import (
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/utils"
)

// ExplosionPhase is the stage of an Explosion.
type ExplosionPhase int

const (
	// PhaseArmed counts down to the explosion.
	PhaseArmed ExplosionPhase = iota
	// PhaseActive is the window in which targets can be affected.
	PhaseActive
	// PhaseSettling keeps the owner alive for debris after the window.
	PhaseSettling
	// PhaseDone means the owner can be released.
	PhaseDone
)

// Explosion is the arm / trigger-once / active-window policy shared by
// grenades and boss bullets. The owner decides how it moves; the explosion
// only tracks time and which targets it already resolved.
type Explosion struct {
	cfg      config.ExplosionConfig
	phase    ExplosionPhase
	elapsed  float64 // since launch
	timer    float64 // remaining time of the current window
	center   utils.Vec3
	exploded bool

	affected    map[ecs.EntityID]struct{}
	playerTaken bool
}

// Reset re-arms the explosion.
func (x *Explosion) Reset(cfg config.ExplosionConfig) {
	if x.affected == nil {
		x.affected = make(map[ecs.EntityID]struct{})
	}
	clear(x.affected)
	x.cfg = cfg
	x.phase = PhaseArmed
	x.elapsed = 0
	x.timer = 0
	x.center = utils.Zero
	x.exploded = false
	x.playerTaken = false
}

// Advance moves the timers forward. It returns true on the tick the arm
// time runs out; the owner then calls Trigger with its position.
func (x *Explosion) Advance(dt float64) bool {
	x.elapsed += dt
	switch x.phase {
	case PhaseArmed:
		return x.elapsed >= x.cfg.ArmTime
	case PhaseActive:
		x.timer -= dt
		if x.timer <= 0 {
			x.phase = PhaseSettling
			x.timer = x.cfg.SettleDelay
		}
	case PhaseSettling:
		x.timer -= dt
		if x.timer <= 0 {
			x.phase = PhaseDone
		}
	}
	return false
}

// Trigger explodes at center. Only the first call has an effect.
func (x *Explosion) Trigger(center utils.Vec3) bool {
	if x.exploded {
		return false
	}
	x.exploded = true
	x.center = center
	x.phase = PhaseActive
	x.timer = x.cfg.Window
	return true
}

// Active reports whether targets inside the radius can still be affected.
func (x *Explosion) Active() bool { return x.phase == PhaseActive }

// Exploded reports whether Trigger has fired.
func (x *Explosion) Exploded() bool { return x.exploded }

// Done reports whether the owner can be released.
func (x *Explosion) Done() bool { return x.phase == PhaseDone }

func (x *Explosion) Phase() ExplosionPhase { return x.phase }

func (x *Explosion) Center() utils.Vec3 { return x.center }

func (x *Explosion) Radius() float64 { return x.cfg.Radius }

func (x *Explosion) Config() config.ExplosionConfig { return x.cfg }

// Elapsed returns the seconds since launch.
func (x *Explosion) Elapsed() float64 { return x.elapsed }

// Falloff returns the linear strength factor at p: 1 at the centre and 0
// at or beyond the radius.
func (x *Explosion) Falloff(p utils.Vec3) float64 {
	return utils.LinearFalloff(p.Dist(x.center), x.cfg.Radius)
}

// TryAffect claims target id for this explosion. It succeeds at most once
// per id and only while the window is active.
func (x *Explosion) TryAffect(id ecs.EntityID) bool {
	if !x.Active() {
		return false
	}
	if _, done := x.affected[id]; done {
		return false
	}
	x.affected[id] = struct{}{}
	return true
}

// TryAffectPlayer is TryAffect for the player.
func (x *Explosion) TryAffectPlayer() bool {
	if !x.Active() || x.playerTaken {
		return false
	}
	x.playerTaken = true
	return true
}

// AffectedCount returns how many enemies this explosion resolved.
func (x *Explosion) AffectedCount() int { return len(x.affected) }
