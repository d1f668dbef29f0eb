package systems

import (
	"log"
	"math/rand"

	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/entities"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// Options configures a Simulation.
type Options struct {
	Config  *config.Game
	Player  game.Player  // nil creates a PlayerState from the player config
	Effects game.Effects // nil collaborators become no-ops
	Seed    int64
	RunID   string // empty generates one
	Verbose bool
}

// Stats are cumulative counters of a run.
type Stats struct {
	Ticks          uint64
	Elapsed        float64
	ShotsFired     int
	GrenadesThrown int
	EnemyShots     int
	BossShots      int
	Kills          int
	BossKills      int
	WavesCompleted int
	EnemySteals    int
	BulletSteals   int
	Collisions     CollisionStats
}

// HUDState is the read-only state a HUD displays.
type HUDState struct {
	Wave            int
	EnemiesAlive    int
	EnemiesLeft     int // quota enemies not yet defeated
	BossAlive       bool
	WaveComplete    bool
	TransitionTimer float64
	Health          int
	Ammo            int
	Grenades        int
	GameOver        bool
}

// Simulation runs one play session. It owns every pool and system and
// advances them in a fixed order each tick:
//
//  1. spawning
//  2. entity updates
//  3. collision resolution
//  4. pool recycling
//  5. wave bookkeeping
//
// It is single-threaded; callers must not share it between goroutines.
type Simulation struct {
	cfg    *config.Game
	seed   int64
	runID  string
	rng    *rand.Rand
	ids    *ecs.IDAllocator
	arena  *arena.Arena
	player game.Player
	fx     game.Effects
	ctx    *entities.Context

	enemies     *entities.EnemyPool
	grenades    *entities.GrenadePool
	bossBullets *entities.BossBulletPool
	bullets     *entities.BulletBatch
	pickups     *entities.PickupSet

	physics *PhysicsSystem
	spawner *WaveSpawnSystem

	playerID ecs.EntityID
	stats    Stats
	gameOver bool
	record   *game.RunRecord
}

// NewSimulation builds a session from opts.
func NewSimulation(opts Options) *Simulation {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultGame()
	}
	player := opts.Player
	if player == nil {
		player = game.NewPlayerState(cfg.Player)
	}
	runID := opts.RunID
	if runID == "" {
		runID = game.NewRunID()
	}
	fx := opts.Effects.WithDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))
	ids := ecs.NewIDAllocator()
	rules := cfg.Spawn

	s := &Simulation{
		cfg:    cfg,
		seed:   opts.Seed,
		runID:  runID,
		rng:    rng,
		ids:    ids,
		arena:  arena.New(cfg.Arena),
		player: player,
		fx:     fx,
	}
	s.ctx = &entities.Context{
		Player:      player,
		Arena:       s.arena,
		Armory:      s,
		Rng:         rng,
		BulletSpeed: cfg.Projectiles.Bullet.Speed,
	}

	s.enemies = ecs.NewPool[*entities.Enemy, entities.EnemyArgs, *entities.Context](
		poolConfig(rules, config.PoolEnemies), ids, entities.NewEnemy)
	s.grenades = ecs.NewPool[*entities.Grenade, entities.GrenadeArgs, *entities.Context](
		poolConfig(rules, config.PoolGrenades), ids, entities.NewGrenade)
	s.bossBullets = ecs.NewPool[*entities.BossBullet, entities.BossBulletArgs, *entities.Context](
		poolConfig(rules, config.PoolBossBullets), ids, entities.NewBossBullet)
	s.bullets = entities.NewBulletBatch(rules.Pool(config.PoolBullets), ids)
	s.pickups = entities.NewPickupSet(ids)

	s.enemies.SetVerbose(opts.Verbose)
	s.grenades.SetVerbose(opts.Verbose)
	s.bossBullets.SetVerbose(opts.Verbose)
	s.bullets.Pool().SetVerbose(opts.Verbose)

	s.physics = NewPhysicsSystem(s.arena, player, cfg.Projectiles.Bullet, fx)
	s.spawner = NewWaveSpawnSystem(SpawnDeps{
		Rules:        rules,
		EnemyStats:   cfg.Enemies,
		Arena:        s.arena,
		Player:       player,
		Enemies:      s.enemies,
		Pickups:      s.pickups,
		Rng:          rng,
		Effects:      fx,
		PickupRadius: cfg.Player.PickupRadius,
		MaxMarkers:   cfg.Projectiles.Bullet.MaxAttached,
	})
	s.spawner.SetVerbose(opts.Verbose)

	// Visual lifecycle: a released or repossessed instance loses its visual
	// under its old ID before the pool hands it out again.
	remove := func(id ecs.EntityID) { s.fx.Renderer.RemoveEntity(id) }
	s.enemies.OnRelease(func(e *entities.Enemy) { remove(e.ID()) })
	s.enemies.OnSteal(func(e *entities.Enemy) {
		remove(e.ID())
		s.spawner.EnemyRepossessed(e)
	})
	s.grenades.OnRelease(func(g *entities.Grenade) { remove(g.ID()) })
	s.grenades.OnSteal(func(g *entities.Grenade) { remove(g.ID()) })
	s.bossBullets.OnRelease(func(b *entities.BossBullet) { remove(b.ID()) })
	s.bossBullets.OnSteal(func(b *entities.BossBullet) { remove(b.ID()) })

	s.playerID = ids.Next()
	player.SetPosition(s.arena.ResolvePenetration(player.Position(), player.Radius()))

	log.Printf("[Simulation] New run %s: seed=%d arena=%.0fx%.0f obstacles=%d",
		runID, opts.Seed, 2*s.arena.HalfWidth, 2*s.arena.HalfDepth, len(s.arena.Obstacles))
	s.spawner.Start()
	return s
}

func poolConfig(rules *config.SpawnRulesConfig, name string) ecs.PoolConfig {
	c := rules.Pool(name)
	return ecs.PoolConfig{Name: name, Prealloc: c.Prealloc, Max: c.Max}
}

// Step advances the session by dt seconds. dt is clamped to
// config.MaxDeltaTime so a stalled frame cannot tunnel entities.
func (s *Simulation) Step(dt float64) {
	if s.gameOver || dt <= 0 {
		return
	}
	dt = min(dt, config.MaxDeltaTime)
	s.stats.Ticks++
	s.stats.Elapsed += dt

	s.spawner.Spawn(dt)

	s.enemies.Update(dt, s.ctx)
	s.bullets.Update(dt, s.ctx)
	s.grenades.Update(dt, s.ctx)
	s.bossBullets.Update(dt, s.ctx)

	s.physics.Resolve(World{
		Enemies:     s.enemies.Active(),
		Bullets:     s.bullets,
		Grenades:    s.grenades.Active(),
		BossBullets: s.bossBullets.Active(),
		Pickups:     s.pickups,
	})

	s.enemies.Sweep()
	s.bullets.Sweep()
	s.grenades.Sweep()
	s.bossBullets.Sweep()
	s.pickups.Sweep(func(p *entities.Pickup) { s.fx.Renderer.RemoveEntity(p.ID()) })

	s.spawner.Observe(dt)
	s.sync()

	if !s.player.Alive() {
		s.endRun()
	}
}

// sync pushes the post-tick state of every live entity to the renderer.
func (s *Simulation) sync() {
	r := s.fx.Renderer
	view := game.EntityView{
		ID:       s.playerID,
		Kind:     types.KindPlayer,
		Position: s.player.Position(),
		Radius:   s.player.Radius(),
		Scale:    1,
	}
	if f, ok := s.player.(interface{ Facing() utils.Vec3 }); ok {
		view.Yaw = f.Facing().Yaw()
	}
	r.SyncEntity(view)

	for _, e := range s.enemies.Active() {
		r.SyncEntity(e.View())
	}
	for _, g := range s.grenades.Active() {
		r.SyncEntity(g.View())
	}
	for _, b := range s.bossBullets.Active() {
		r.SyncEntity(b.View())
	}
	for _, p := range s.pickups.Active() {
		r.SyncEntity(p.View())
	}
	s.bullets.Sync(r)
}

func (s *Simulation) endRun() {
	s.gameOver = true
	w := s.spawner.Wave()
	rec := game.RunRecord{
		ID:          s.runID,
		Seed:        s.seed,
		WaveReached: w.Wave,
		Kills:       s.spawner.Kills(),
		BossKills:   s.spawner.BossKills(),
		Duration:    s.stats.Elapsed,
	}
	if d, ok := s.player.(interface{ DamageTaken() int }); ok {
		rec.DamageTaken = d.DamageTaken()
	}
	s.record = &rec
	log.Printf("[Simulation] Game over: wave=%d kills=%d bossKills=%d time=%.1fs",
		rec.WaveReached, rec.Kills, rec.BossKills, rec.Duration)
	s.fx.HUD.Announce(game.Announcement{Kind: game.AnnounceGameOver, Wave: w.Wave})
}

// FirePlayerBullet shoots from the player's muzzle along dir. It returns
// false when the player is dead, out of ammo or dir is degenerate.
func (s *Simulation) FirePlayerBullet(dir utils.Vec3) bool {
	if s.gameOver || !s.player.Alive() {
		return false
	}
	n, ok := dir.Flat().Normalize()
	if !ok {
		return false
	}
	if !s.player.UseAmmo() {
		s.fx.Audio.Play(game.CueEmpty)
		return false
	}
	bc := s.cfg.Projectiles.Bullet
	origin := s.player.Position().Add(n.Scale(s.cfg.Player.MuzzleOffset))
	s.FireBullet(types.OwnerPlayer, origin, n, bc.PlayerMultiplier, bc.Damage)
	s.fx.Renderer.MuzzleFlash(origin, n)
	s.fx.Audio.Play(game.CueWeaponFire)
	return true
}

// ThrowGrenade lobs a grenade along dir. It returns false when none are
// left or the throw is impossible.
func (s *Simulation) ThrowGrenade(dir utils.Vec3) bool {
	if s.gameOver || !s.player.Alive() {
		return false
	}
	n, ok := dir.Flat().Normalize()
	if !ok || !s.player.UseGrenade() {
		return false
	}
	origin := s.player.Position().Add(n.Scale(s.cfg.Player.MuzzleOffset))
	origin.Y = s.cfg.Projectiles.Grenade.GroundHeight + 1
	s.grenades.Acquire(entities.GrenadeArgs{
		Origin:  origin,
		Dir:     n,
		Config:  &s.cfg.Projectiles.Grenade,
		Effects: s.fx,
	})
	s.stats.GrenadesThrown++
	return true
}

// FireBullet implements entities.Armory.
func (s *Simulation) FireBullet(owner types.BulletOwner, origin, dir utils.Vec3, speedMultiplier float64, damage int) {
	bc := s.cfg.Projectiles.Bullet
	s.bullets.Fire(entities.BulletArgs{
		Owner:      owner,
		Origin:     origin,
		Dir:        dir,
		Speed:      bc.Speed * speedMultiplier,
		MaxRange:   bc.MaxRange,
		Radius:     bc.Radius,
		Damage:     damage,
		Attachable: owner == types.OwnerPlayer && bc.Attach,
	})
	if owner == types.OwnerPlayer {
		s.stats.ShotsFired++
	} else {
		s.stats.EnemyShots++
	}
}

// FireBossBullet implements entities.Armory.
func (s *Simulation) FireBossBullet(origin, dir utils.Vec3, speedMultiplier float64, damage int) {
	s.bossBullets.Acquire(entities.BossBulletArgs{
		Origin:  origin,
		Dir:     dir,
		Speed:   s.cfg.Projectiles.Bullet.Speed * speedMultiplier,
		Damage:  damage,
		Config:  &s.cfg.Projectiles.BossBullet,
		Effects: s.fx,
	})
	s.stats.BossShots++
}

// GameOver reports whether the player died.
func (s *Simulation) GameOver() bool { return s.gameOver }

// Record returns the run summary once the game is over.
func (s *Simulation) Record() (game.RunRecord, bool) {
	if s.record == nil {
		return game.RunRecord{}, false
	}
	return *s.record, true
}

// Stats returns the cumulative counters.
func (s *Simulation) Stats() Stats {
	st := s.stats
	st.Kills = s.spawner.Kills()
	st.BossKills = s.spawner.BossKills()
	st.WavesCompleted = s.spawner.WavesCompleted()
	st.EnemySteals = s.enemies.Steals()
	st.BulletSteals = s.bullets.Pool().Steals()
	st.Collisions = s.physics.Totals()
	return st
}

// HUD returns what the HUD shows this frame.
func (s *Simulation) HUD() HUDState {
	w := s.spawner.Wave()
	return HUDState{
		Wave:            w.Wave,
		EnemiesAlive:    s.enemies.ActiveCount(),
		EnemiesLeft:     w.Remaining(),
		BossAlive:       w.BossAlive,
		WaveComplete:    w.Complete,
		TransitionTimer: w.TransitionTimer,
		Health:          s.player.Health(),
		Ammo:            s.player.Ammo(),
		Grenades:        s.player.Grenades(),
		GameOver:        s.gameOver,
	}
}

// Wave returns a copy of the wave state.
func (s *Simulation) Wave() game.WaveState { return s.spawner.Wave() }

func (s *Simulation) RunID() string                       { return s.runID }
func (s *Simulation) Seed() int64                         { return s.seed }
func (s *Simulation) Arena() *arena.Arena                 { return s.arena }
func (s *Simulation) Player() game.Player                 { return s.player }
func (s *Simulation) Spawner() *WaveSpawnSystem           { return s.spawner }
func (s *Simulation) Enemies() []*entities.Enemy          { return s.enemies.Active() }
func (s *Simulation) Grenades() []*entities.Grenade       { return s.grenades.Active() }
func (s *Simulation) BossBullets() []*entities.BossBullet { return s.bossBullets.Active() }
func (s *Simulation) Bullets() *entities.BulletBatch      { return s.bullets }
func (s *Simulation) Pickups() *entities.PickupSet        { return s.pickups }

// PoolStats reports the occupancy of every pool.
func (s *Simulation) PoolStats() []PoolStat {
	return []PoolStat{
		{Name: s.enemies.Name(), Active: s.enemies.ActiveCount(), Free: s.enemies.FreeCount(), Created: s.enemies.Created(), Steals: s.enemies.Steals()},
		{Name: s.grenades.Name(), Active: s.grenades.ActiveCount(), Free: s.grenades.FreeCount(), Created: s.grenades.Created(), Steals: s.grenades.Steals()},
		{Name: s.bossBullets.Name(), Active: s.bossBullets.ActiveCount(), Free: s.bossBullets.FreeCount(), Created: s.bossBullets.Created(), Steals: s.bossBullets.Steals()},
		{Name: s.bullets.Pool().Name(), Active: s.bullets.Pool().ActiveCount(), Free: s.bullets.Pool().FreeCount(), Created: s.bullets.Pool().Created(), Steals: s.bullets.Pool().Steals()},
	}
}

// PoolStat is the occupancy of one pool.
type PoolStat struct {
	Name    string
	Active  int
	Free    int
	Created int
	Steals  int
}
