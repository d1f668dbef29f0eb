package entities

import (
	"math"

	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// GrenadeArgs initializes a pooled grenade.
type GrenadeArgs struct {
	Origin  utils.Vec3
	Dir     utils.Vec3 // ground-plane throw direction
	Config  *config.GrenadeConfig
	Effects game.Effects
}

// Grenade is a bouncing thrown explosive.
type Grenade struct {
	id      ecs.EntityID
	cfg     *config.GrenadeConfig
	fx      game.Effects
	pos     utils.Vec3
	vel     utils.Vec3
	bounces int
	active  bool

	Explosion Explosion
}

// NewGrenade returns an inactive grenade for a pool.
func NewGrenade() *Grenade { return &Grenade{} }

// Reset implements ecs.Poolable.
func (g *Grenade) Reset(id ecs.EntityID, a GrenadeArgs) {
	cfg := a.Config
	if cfg == nil {
		cfg = &config.DefaultProjectileConfig().Grenade
	}
	g.id = id
	g.cfg = cfg
	g.fx = a.Effects.WithDefaults()
	g.pos = a.Origin
	g.bounces = 0
	g.active = true
	g.vel = utils.Zero
	if dir, ok := a.Dir.Flat().Normalize(); ok {
		g.vel = dir.Scale(cfg.ThrowSpeed)
	}
	g.vel.Y = cfg.LaunchVelocity
	g.Explosion.Reset(cfg.Explosion)
}

// Update implements ecs.Poolable.
func (g *Grenade) Update(dt float64, ctx *Context) {
	if !g.active {
		return
	}
	if g.Explosion.Exploded() {
		g.Explosion.Advance(dt)
		if g.Explosion.Done() {
			g.active = false
		}
		return
	}

	g.integrate(dt)
	if ctx != nil && ctx.Arena != nil && !ctx.Arena.InBounds(g.pos, 0) {
		// Left the arena: gone without a blast.
		g.active = false
		return
	}
	if g.Explosion.Advance(dt) {
		g.explode()
	}
}

func (g *Grenade) integrate(dt float64) {
	g.vel.Y -= g.cfg.Gravity * dt
	next := g.pos.Add(g.vel.Scale(dt))
	if !next.IsFinite() {
		return
	}
	g.pos = next
	if g.pos.Y > g.cfg.GroundHeight || g.vel.Y >= 0 {
		return
	}

	g.pos.Y = g.cfg.GroundHeight
	impact := -g.vel.Y
	g.vel.X *= g.cfg.Friction
	g.vel.Z *= g.cfg.Friction
	if impact > g.cfg.MinBounceSpeed {
		g.vel.Y = impact * g.cfg.BounceDamping
		g.bounces++
		g.fx.Audio.Play(game.CueGrenadeBounce)
		return
	}
	g.vel.Y = 0
	if math.Hypot(g.vel.X, g.vel.Z) < g.cfg.MinBounceSpeed*0.1 {
		g.vel.X, g.vel.Z = 0, 0
	}
}

// Detonate explodes the grenade now, e.g. when it hits a wall. It has no
// effect once the grenade already exploded.
func (g *Grenade) Detonate() bool {
	if !g.active {
		return false
	}
	return g.explode()
}

func (g *Grenade) explode() bool {
	if !g.Explosion.Trigger(g.pos) {
		return false
	}
	g.vel = utils.Zero
	g.fx.Renderer.Explosion(g.pos, g.Explosion.Radius())
	g.fx.Audio.Play(game.CueExplosion)
	return true
}

// Terminated implements ecs.Poolable.
func (g *Grenade) Terminated() bool { return !g.active }

// Deactivate implements ecs.Poolable.
func (g *Grenade) Deactivate() { g.active = false }

func (g *Grenade) ID() ecs.EntityID     { return g.id }
func (g *Grenade) Position() utils.Vec3 { return g.pos }
func (g *Grenade) Velocity() utils.Vec3 { return g.vel }
func (g *Grenade) Bounces() int         { return g.bounces }
func (g *Grenade) Radius() float64      { return g.cfg.Radius }

// View returns the renderer snapshot.
func (g *Grenade) View() game.EntityView {
	return game.EntityView{
		ID:       g.id,
		Kind:     types.KindGrenade,
		Position: g.pos,
		Radius:   g.cfg.Radius,
		Scale:    1,
		Dying:    g.Explosion.Exploded(),
	}
}
