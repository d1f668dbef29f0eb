package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/entities"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/game/gametest"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type physicsFixture struct {
	ps      *PhysicsSystem
	arena   *arena.Arena
	player  *gametest.Player
	render  *gametest.Renderer
	audio   *gametest.Audio
	defeats *gametest.DefeatLog
	bullets *entities.BulletBatch
	pickups *entities.PickupSet
	ids     *ecs.IDAllocator
	fx      game.Effects
	cfg     *config.Game
}

func newPhysicsFixture(t *testing.T) *physicsFixture {
	t.Helper()
	fx, r, a, _ := gametest.Effects()
	cfg := config.DefaultGame()
	ar := &arena.Arena{
		HalfWidth: 40,
		HalfDepth: 30,
		Obstacles: []arena.Obstacle{
			{Shape: arena.ShapeBox, Center: utils.V3(20, 0, 0), HalfX: 2, HalfZ: 2, Height: 2},
		},
	}
	ids := ecs.NewIDAllocator()
	f := &physicsFixture{
		arena:   ar,
		player:  gametest.NewPlayer(utils.Zero),
		render:  r,
		audio:   a,
		defeats: &gametest.DefeatLog{},
		bullets: entities.NewBulletBatch(config.PoolCap{Prealloc: 8, Max: 64}, ids),
		pickups: entities.NewPickupSet(ids),
		ids:     ids,
		fx:      fx,
		cfg:     cfg,
	}
	f.ps = NewPhysicsSystem(ar, f.player, cfg.Projectiles.Bullet, fx)
	return f
}

func (f *physicsFixture) enemy(et types.EnemyType, pos utils.Vec3) *entities.Enemy {
	e := entities.NewEnemy()
	e.Reset(f.ids.Next(), entities.EnemyArgs{
		Type:     et,
		Position: pos,
		Stats:    f.cfg.Enemies.MustStats(et),
		Behavior: &f.cfg.Enemies.Behavior,
		Listener: f.defeats,
		Effects:  f.fx,
		Rng:      rand.New(rand.NewSource(1)),
	})
	return e
}

func (f *physicsFixture) playerBullet(pos utils.Vec3, attach bool) *entities.Bullet {
	return f.bullets.Fire(entities.BulletArgs{
		Owner: types.OwnerPlayer, Origin: pos, Dir: utils.V3(1, 0, 0),
		Speed: 40, MaxRange: 60, Radius: 0.2, Damage: 1, Attachable: attach,
	})
}

func (f *physicsFixture) grenadeAt(pos utils.Vec3) *entities.Grenade {
	g := entities.NewGrenade()
	g.Reset(f.ids.Next(), entities.GrenadeArgs{Origin: pos, Config: &f.cfg.Projectiles.Grenade, Effects: f.fx})
	return g
}

func TestBulletHitKillsThinEnemy(t *testing.T) {
	f := newPhysicsFixture(t)
	thin := f.enemy(types.EnemyThin, utils.V3(5, 0, 5))
	b := f.playerBullet(utils.V3(5.5, 0, 5), true)

	stats := f.ps.Resolve(World{Enemies: []*entities.Enemy{thin}, Bullets: f.bullets})

	assert.Equal(t, 1, stats.EnemyHits)
	assert.Equal(t, entities.EnemyInactive, thin.State())
	assert.Equal(t, 1, thin.Markers())
	assert.True(t, b.Attached())
	assert.Len(t, f.render.Splatters, 2, "hit splatter plus death splatter")
	assert.Len(t, f.defeats.Defeated, 1)
}

func TestHitRadiusIsForgiving(t *testing.T) {
	f := newPhysicsFixture(t)
	thin := f.enemy(types.EnemyThin, utils.V3(0, 0, 10))
	// Thin enemies have a 1.6 hit radius; 1.7 away still hits with the bullet radius.
	f.playerBullet(utils.V3(1.7, 0, 10), true)
	second := f.playerBullet(utils.V3(1.75, 0, 10), true)

	stats := f.ps.Resolve(World{Enemies: []*entities.Enemy{thin}, Bullets: f.bullets})

	assert.Equal(t, 1, stats.EnemyHits)
	assert.True(t, second.Flying(), "a dead enemy absorbs no more bullets")
}

func TestBulletIgnoresEnemiesThatAreNotActive(t *testing.T) {
	f := newPhysicsFixture(t)
	e := f.enemy(types.EnemyRegular, utils.V3(5, 0, 5))
	require.True(t, e.BlowAway(utils.V3(1, 0, 0), 5))
	b := f.playerBullet(e.Position(), true)

	stats := f.ps.Resolve(World{Enemies: []*entities.Enemy{e}, Bullets: f.bullets})

	assert.Zero(t, stats.EnemyHits)
	assert.True(t, b.Flying())
}

func TestNonAttachingBulletStillCountsMarker(t *testing.T) {
	f := newPhysicsFixture(t)
	e := f.enemy(types.EnemyChubby, utils.V3(5, 0, 5))
	b := f.playerBullet(utils.V3(5, 0, 5), false)

	f.ps.Resolve(World{Enemies: []*entities.Enemy{e}, Bullets: f.bullets})

	assert.True(t, b.Terminated())
	assert.Equal(t, 1, e.Markers())
	assert.Zero(t, e.View().Markers, "no visual marker without embedding")
	assert.Equal(t, 2, e.Health())
}

func TestEnemyBulletHitsPlayer(t *testing.T) {
	f := newPhysicsFixture(t)
	b := f.bullets.Fire(entities.BulletArgs{
		Owner: types.OwnerEnemy, Origin: utils.V3(0.5, 0, 0), Dir: utils.V3(-1, 0, 0),
		Speed: 18, MaxRange: 60, Radius: 0.2, Damage: 10,
	})

	stats := f.ps.Resolve(World{Bullets: f.bullets})

	assert.Equal(t, 1, stats.PlayerHits)
	assert.Equal(t, []int{10}, f.player.Damage)
	assert.True(t, b.Terminated())
	assert.Equal(t, 1, f.audio.Count(game.CuePlayerHurt))
}

func TestPlayerBulletDoesNotHurtPlayer(t *testing.T) {
	f := newPhysicsFixture(t)
	f.playerBullet(utils.V3(0.5, 0, 0), true)

	f.ps.Resolve(World{Bullets: f.bullets})

	assert.Empty(t, f.player.Damage)
}

func TestBulletStopsAtObstacleWithDecal(t *testing.T) {
	f := newPhysicsFixture(t)
	b := f.playerBullet(utils.V3(17.9, 0, 0), true)

	stats := f.ps.Resolve(World{Bullets: f.bullets})

	assert.Equal(t, 1, stats.WallHits)
	assert.True(t, b.Terminated())
	require.Len(t, f.render.Decals, 1)
	assert.Equal(t, utils.V3(-1, 0, 0), f.render.Decals[0].Normal)
}

func TestExplosionKnocksBackEachEnemyOnce(t *testing.T) {
	f := newPhysicsFixture(t)
	near := f.enemy(types.EnemyRegular, utils.V3(1, 0, 0))
	edge := f.enemy(types.EnemyRegular, utils.V3(0, 0, 5))
	outside := f.enemy(types.EnemyRegular, utils.V3(0, 0, -8))
	enemies := []*entities.Enemy{near, edge, outside}
	g := f.grenadeAt(utils.V3(0, 0.25, 0))
	require.True(t, g.Detonate())

	knockbacks := 0
	for i := 0; g.Explosion.Active(); i++ {
		stats := f.ps.Resolve(World{Enemies: enemies, Grenades: []*entities.Grenade{g}})
		knockbacks += stats.Knockbacks
		g.Update(0.05, nil)
		require.Less(t, i, 100)
	}

	assert.Equal(t, 2, knockbacks)
	assert.Equal(t, entities.EnemyBlownAway, near.State())
	assert.Equal(t, entities.EnemyBlownAway, edge.State())
	assert.Equal(t, entities.EnemyActive, outside.State())
	assert.Equal(t, 2, g.Explosion.AffectedCount())
}

func TestExplosionWindowCatchesLateArrivals(t *testing.T) {
	f := newPhysicsFixture(t)
	e := f.enemy(types.EnemyRegular, utils.V3(0, 0, 10))
	g := f.grenadeAt(utils.Zero)
	g.Detonate()

	f.ps.Resolve(World{Enemies: []*entities.Enemy{e}, Grenades: []*entities.Grenade{g}})
	require.Equal(t, entities.EnemyActive, e.State())

	e.SetPosition(utils.V3(0, 0, 3))
	stats := f.ps.Resolve(World{Enemies: []*entities.Enemy{e}, Grenades: []*entities.Grenade{g}})

	assert.Equal(t, 1, stats.Knockbacks)
}

func TestExplosionDamagesKnockbackImmuneBoss(t *testing.T) {
	f := newPhysicsFixture(t)
	f.player.Pos = utils.V3(-20, 0, 0)
	boss := f.enemy(types.EnemyBoss, utils.V3(0, 0, 3))
	g := f.grenadeAt(utils.Zero)
	g.Detonate()

	stats := f.ps.Resolve(World{Enemies: []*entities.Enemy{boss}, Grenades: []*entities.Grenade{g}})
	f.ps.Resolve(World{Enemies: []*entities.Enemy{boss}, Grenades: []*entities.Grenade{g}})

	// Radius 6 at distance 3: half of 10.
	assert.Equal(t, 5, stats.ExplosionDamage)
	assert.Equal(t, 35, boss.Health())
	assert.Equal(t, entities.EnemyActive, boss.State())
}

func TestExplosionDamagesPlayerOnceWithFalloff(t *testing.T) {
	f := newPhysicsFixture(t)
	f.player.Pos = utils.V3(3, 0, 0)
	g := f.grenadeAt(utils.Zero)
	g.Detonate()

	for i := 0; i < 5; i++ {
		f.ps.Resolve(World{Grenades: []*entities.Grenade{g}})
	}

	assert.Equal(t, []int{20}, f.player.Damage)
}

func TestBossBulletProximityFuse(t *testing.T) {
	f := newPhysicsFixture(t)
	b := entities.NewBossBullet()
	b.Reset(f.ids.Next(), entities.BossBulletArgs{
		Origin: utils.V3(0, 0, 1.5), Dir: utils.V3(0, 0, -1), Speed: 16, Damage: 30,
		Config: &f.cfg.Projectiles.BossBullet, Effects: f.fx,
	})

	stats := f.ps.Resolve(World{BossBullets: []*entities.BossBullet{b}})

	assert.Equal(t, 1, stats.ProximityFuses)
	assert.True(t, b.Explosion.Exploded())
	// Boss bullets use the shooter's damage: 30 at distance 1.5 of radius 4.
	assert.Equal(t, []int{19}, f.player.Damage)
}

func TestGrenadeWallTrigger(t *testing.T) {
	f := newPhysicsFixture(t)
	g := f.grenadeAt(utils.V3(18.1, 0.5, 0))

	stats := f.ps.Resolve(World{Grenades: []*entities.Grenade{g}})

	assert.Equal(t, 1, stats.WallTriggers)
	assert.True(t, g.Explosion.Exploded())
}

func TestPickupCollectedOnce(t *testing.T) {
	f := newPhysicsFixture(t)
	f.pickups.Spawn(types.PickupAmmo, utils.V3(1, 0, 0), 60, 1.5)
	f.pickups.Spawn(types.PickupGrenade, utils.V3(10, 0, 0), 2, 1.5)

	first := f.ps.Resolve(World{Pickups: f.pickups})
	second := f.ps.Resolve(World{Pickups: f.pickups})

	assert.Equal(t, 1, first.Pickups)
	assert.Zero(t, second.Pickups)
	assert.Equal(t, 110, f.player.AmmoN)
	assert.Equal(t, 2, f.player.Nades)
	assert.Equal(t, 1, f.audio.Count(game.CuePickup))
	assert.Equal(t, 1, f.ps.Totals().Pickups)
}

func TestObstacleCorrection(t *testing.T) {
	f := newPhysicsFixture(t)
	f.player.Pos = utils.V3(18.5, 0, 0)
	e := f.enemy(types.EnemyRegular, utils.V3(21, 0, 1))

	f.ps.Resolve(World{Enemies: []*entities.Enemy{e}})

	assert.False(t, f.arena.Obstacles[0].Overlaps(f.player.Pos, f.player.R-1e-6))
	assert.InDelta(t, 17.2, f.player.Pos.X, 1e-9)
	assert.False(t, f.arena.Obstacles[0].Overlaps(e.Position(), e.HitRadius()*0.5-1e-6))
}
