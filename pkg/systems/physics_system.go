package systems

import (
	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/entities"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
	"golang.org/x/image/colornames"
)

// World is the set of live entities one collision pass looks at.
type World struct {
	Enemies     []*entities.Enemy
	Bullets     *entities.BulletBatch
	Grenades    []*entities.Grenade
	BossBullets []*entities.BossBullet
	Pickups     *entities.PickupSet
}

// CollisionStats counts what the physics system resolved.
type CollisionStats struct {
	EnemyHits       int // player bullets that struck an enemy
	PlayerHits      int // enemy bullets that struck the player
	WallHits        int // bullets stopped by obstacles
	WallTriggers    int // grenades and boss bullets detonated by obstacles
	ProximityFuses  int // boss bullets detonated next to the player
	Knockbacks      int
	ExplosionDamage int // damage dealt by explosions to enemies and the player
	Pickups         int
}

func (c *CollisionStats) add(o CollisionStats) {
	c.EnemyHits += o.EnemyHits
	c.PlayerHits += o.PlayerHits
	c.WallHits += o.WallHits
	c.WallTriggers += o.WallTriggers
	c.ProximityFuses += o.ProximityFuses
	c.Knockbacks += o.Knockbacks
	c.ExplosionDamage += o.ExplosionDamage
	c.Pickups += o.Pickups
}

// PhysicsSystem resolves every interaction between live entities once per
// tick: bullets against their targets and the obstacles, explosions against
// everything in range, pickups against the player, and positional
// correction against obstacle volumes.
type PhysicsSystem struct {
	arena  *arena.Arena
	player game.Player
	bullet config.BulletConfig
	fx     game.Effects

	last  CollisionStats
	total CollisionStats
}

var decalColor = colornames.Dimgray

// NewPhysicsSystem creates the collision resolver.
func NewPhysicsSystem(a *arena.Arena, player game.Player, bullet config.BulletConfig, fx game.Effects) *PhysicsSystem {
	return &PhysicsSystem{
		arena:  a,
		player: player,
		bullet: bullet,
		fx:     fx.WithDefaults(),
	}
}

// Resolve runs one collision pass and returns what it resolved.
func (ps *PhysicsSystem) Resolve(w World) CollisionStats {
	ps.last = CollisionStats{}
	ps.resolveObstacles(w.Enemies)
	if w.Bullets != nil {
		ps.resolveBullets(w.Bullets.Active(), w.Enemies)
	}
	ps.resolveFuses(w.Grenades, w.BossBullets)
	for _, g := range w.Grenades {
		if g.Explosion.Active() {
			cfg := g.Explosion.Config()
			ps.applyExplosion(&g.Explosion, cfg.PlayerDamage, w.Enemies)
		}
	}
	for _, b := range w.BossBullets {
		if b.Explosion.Active() {
			ps.applyExplosion(&b.Explosion, b.PlayerDamage(), w.Enemies)
		}
	}
	if w.Pickups != nil {
		ps.resolvePickups(w.Pickups.Active())
	}
	ps.total.add(ps.last)
	return ps.last
}

// Last returns the stats of the most recent pass.
func (ps *PhysicsSystem) Last() CollisionStats { return ps.last }

// Totals returns the stats accumulated over every pass.
func (ps *PhysicsSystem) Totals() CollisionStats { return ps.total }

// resolveObstacles pushes the player and walking enemies out of obstacle
// volumes and back inside the walls.
func (ps *PhysicsSystem) resolveObstacles(enemies []*entities.Enemy) {
	if ps.player.Alive() {
		pos := ps.player.Position()
		if fixed := ps.arena.ResolvePenetration(pos, ps.player.Radius()); fixed != pos {
			ps.player.SetPosition(fixed)
		}
	}
	for _, e := range enemies {
		if e.State() == entities.EnemyBlownAway || e.Terminated() {
			continue
		}
		// Enemies collide with their body, not the enlarged hit sphere.
		body := e.HitRadius() * 0.5
		pos := e.Position()
		if fixed := ps.arena.ResolvePenetration(pos, body); fixed != pos {
			e.SetPosition(fixed)
		}
	}
}

func (ps *PhysicsSystem) resolveBullets(bullets []*entities.Bullet, enemies []*entities.Enemy) {
	for _, b := range bullets {
		if !b.Flying() {
			continue
		}
		if ob, hit := ps.arena.HitObstacle(b.Position(), b.Radius()); hit {
			ps.fx.Renderer.Decal(b.Position(), ob.Normal(b.Position()), ps.bullet.DecalRadius, decalColor)
			b.Deactivate()
			ps.last.WallHits++
			continue
		}
		switch b.Owner() {
		case types.OwnerPlayer:
			ps.bulletVsEnemies(b, enemies)
		case types.OwnerEnemy:
			ps.bulletVsPlayer(b)
		}
	}
}

func (ps *PhysicsSystem) bulletVsEnemies(b *entities.Bullet, enemies []*entities.Enemy) {
	for _, e := range enemies {
		if !e.IsActive() {
			continue
		}
		if b.Position().Dist(e.Position()) > e.HitRadius()+b.Radius() {
			continue
		}
		// The marker is counted before damage so the finishing blow sees it.
		embedded := b.Hit(e)
		e.AttachMarker(embedded)
		e.TakeDamage(b.Damage(), true)
		ps.fx.Renderer.Splatter(e.Position(), ps.bullet.SplatterRadius, e.Stats().RGBA())
		ps.last.EnemyHits++
		return
	}
}

func (ps *PhysicsSystem) bulletVsPlayer(b *entities.Bullet) {
	if !ps.player.Alive() {
		return
	}
	if b.Position().Dist(ps.player.Position()) > ps.player.Radius()+b.Radius() {
		return
	}
	b.Deactivate()
	ps.player.TakeDamage(b.Damage())
	ps.fx.Audio.Play(game.CuePlayerHurt)
	ps.last.PlayerHits++
}

// resolveFuses detonates grenades and boss bullets that touch an obstacle,
// and boss bullets that come close enough to the player.
func (ps *PhysicsSystem) resolveFuses(grenades []*entities.Grenade, bossBullets []*entities.BossBullet) {
	for _, g := range grenades {
		if g.Terminated() || g.Explosion.Exploded() {
			continue
		}
		if _, hit := ps.arena.HitObstacle(g.Position(), g.Radius()); hit && g.Detonate() {
			ps.last.WallTriggers++
		}
	}
	for _, b := range bossBullets {
		if !b.Flying() {
			continue
		}
		if _, hit := ps.arena.HitObstacle(b.Position(), b.Radius()); hit {
			if b.Detonate() {
				ps.last.WallTriggers++
			}
			continue
		}
		if ps.player.Alive() && b.Position().FlatDist(ps.player.Position()) <= b.HitRadius()+ps.player.Radius() {
			if b.Detonate() {
				ps.last.ProximityFuses++
			}
		}
	}
}

// applyExplosion affects every target inside the radius at most once per
// explosion. Enemies are blown away with linear falloff, or damaged when
// they are immune to knockback.
func (ps *PhysicsSystem) applyExplosion(x *entities.Explosion, playerDamage int, enemies []*entities.Enemy) {
	cfg := x.Config()
	center := x.Center()
	for _, e := range enemies {
		if !e.IsActive() {
			continue
		}
		d := e.Position().FlatDist(center)
		if d > cfg.Radius || !x.TryAffect(e.ID()) {
			continue
		}
		falloff := utils.LinearFalloff(d, cfg.Radius)
		if e.Stats().KnockbackImmune {
			dmg := utils.ScaledDamage(cfg.EnemyDamage, falloff)
			e.TakeDamage(dmg, true)
			ps.last.ExplosionDamage += dmg
			continue
		}
		if e.BlowAway(e.Position().Sub(center), cfg.Knockback*falloff) {
			ps.last.Knockbacks++
		}
	}

	if !ps.player.Alive() {
		return
	}
	d := ps.player.Position().FlatDist(center)
	if d > cfg.Radius || !x.TryAffectPlayer() {
		return
	}
	if dmg := utils.ScaledDamage(playerDamage, utils.LinearFalloff(d, cfg.Radius)); dmg > 0 {
		ps.player.TakeDamage(dmg)
		ps.fx.Audio.Play(game.CuePlayerHurt)
		ps.last.ExplosionDamage += dmg
	}
}

func (ps *PhysicsSystem) resolvePickups(pickups []*entities.Pickup) {
	if !ps.player.Alive() {
		return
	}
	pos := ps.player.Position()
	for _, p := range pickups {
		if !p.Active() || pos.FlatDist(p.Position()) > ps.player.Radius()+p.Radius() {
			continue
		}
		if p.Collect(ps.player) {
			ps.fx.Audio.Play(game.CuePickup)
			ps.last.Pickups++
		}
	}
}
