package entities

import (
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// BossBulletArgs initializes a pooled boss bullet.
type BossBulletArgs struct {
	Origin  utils.Vec3
	Dir     utils.Vec3 // normalized
	Speed   float64
	Damage  int // player damage at the centre when the config sets none
	Config  *config.BossBulletConfig
	Effects game.Effects
}

// BossBullet flies straight like a bullet but ends in an explosion instead
// of embedding or fading at max range.
type BossBullet struct {
	id       ecs.EntityID
	cfg      *config.BossBulletConfig
	fx       game.Effects
	pos      utils.Vec3
	dir      utils.Vec3
	speed    float64
	traveled float64
	damage   int
	active   bool

	Explosion Explosion
}

// NewBossBullet returns an inactive boss bullet for a pool.
func NewBossBullet() *BossBullet { return &BossBullet{} }

// Reset implements ecs.Poolable.
func (b *BossBullet) Reset(id ecs.EntityID, a BossBulletArgs) {
	cfg := a.Config
	if cfg == nil {
		cfg = &config.DefaultProjectileConfig().BossBullet
	}
	b.id = id
	b.cfg = cfg
	b.fx = a.Effects.WithDefaults()
	b.pos = a.Origin
	b.dir = a.Dir
	b.speed = a.Speed
	b.traveled = 0
	b.damage = a.Damage
	b.active = true
	b.Explosion.Reset(cfg.Explosion)
}

// Update implements ecs.Poolable.
func (b *BossBullet) Update(dt float64, ctx *Context) {
	if !b.active {
		return
	}
	if b.Explosion.Exploded() {
		b.Explosion.Advance(dt)
		if b.Explosion.Done() {
			b.active = false
		}
		return
	}

	step := b.speed * dt
	if next := b.pos.Add(b.dir.Scale(step)); next.IsFinite() {
		b.pos = next
		b.traveled += step
	}
	fuse := b.Explosion.Advance(dt)
	outside := ctx != nil && ctx.Arena != nil && !ctx.Arena.InBounds(b.pos, 0)
	if outside {
		b.pos = ctx.Arena.ClampToBounds(b.pos, 0)
	}
	if fuse || outside || b.traveled >= b.cfg.MaxRange {
		b.explode()
	}
}

// Detonate explodes the bullet now. Collision calls it on obstacle contact
// and when the player comes within the proximity radius.
func (b *BossBullet) Detonate() bool {
	if !b.active {
		return false
	}
	return b.explode()
}

func (b *BossBullet) explode() bool {
	if !b.Explosion.Trigger(b.pos) {
		return false
	}
	b.fx.Renderer.Explosion(b.pos, b.Explosion.Radius())
	b.fx.Audio.Play(game.CueExplosion)
	return true
}

// PlayerDamage is the damage dealt to the player at the explosion centre.
func (b *BossBullet) PlayerDamage() int {
	if d := b.Explosion.Config().PlayerDamage; d > 0 {
		return d
	}
	return b.damage
}

// Terminated implements ecs.Poolable.
func (b *BossBullet) Terminated() bool { return !b.active }

// Deactivate implements ecs.Poolable.
func (b *BossBullet) Deactivate() { b.active = false }

func (b *BossBullet) ID() ecs.EntityID     { return b.id }
func (b *BossBullet) Position() utils.Vec3 { return b.pos }
func (b *BossBullet) Radius() float64      { return b.cfg.Radius }
func (b *BossBullet) HitRadius() float64   { return b.cfg.HitRadius }
func (b *BossBullet) Traveled() float64    { return b.traveled }

// Flying reports whether the bullet is still in flight.
func (b *BossBullet) Flying() bool { return b.active && !b.Explosion.Exploded() }

// View returns the renderer snapshot.
func (b *BossBullet) View() game.EntityView {
	return game.EntityView{
		ID:       b.id,
		Kind:     types.KindBossBullet,
		Position: b.pos,
		Yaw:      b.dir.Yaw(),
		Radius:   b.cfg.Radius,
		Scale:    1,
		Dying:    b.Explosion.Exploded(),
	}
}
