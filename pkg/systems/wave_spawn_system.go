package systems

import (
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/entities"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// WaveSpawnSystem orchestrates the survival loop: enemy and pickup spawns,
// boss triggers, wave completion and the transition to the next wave.
//
// It exclusively owns the WaveState. Enemies report their defeat through
// OnEnemyDefeated instead of touching the counters.
//
// Per tick the simulation calls Spawn before entity updates and Observe
// after collision resolution and pool recycling, so completion reads the
// post-collision alive count.
type WaveSpawnSystem struct {
	rules      *config.SpawnRulesConfig
	enemyStats *config.EnemyStatsConfig
	arena      *arena.Arena
	player     game.Player
	enemies    *entities.EnemyPool
	pickups    *entities.PickupSet
	rng        *rand.Rand
	fx         game.Effects

	pickupRadius float64
	maxMarkers   int

	wave *game.WaveState
	boss *entities.Enemy

	kills          int
	bossKills      int
	wavesCompleted int
	placementFails int

	enemyKeys  []string
	pickupKeys []string

	verbose bool
}

// SpawnDeps are the collaborators a WaveSpawnSystem works with.
type SpawnDeps struct {
	Rules        *config.SpawnRulesConfig
	EnemyStats   *config.EnemyStatsConfig
	Arena        *arena.Arena
	Player       game.Player
	Enemies      *entities.EnemyPool
	Pickups      *entities.PickupSet
	Rng          *rand.Rand
	Effects      game.Effects
	PickupRadius float64
	MaxMarkers   int
}

// NewWaveSpawnSystem creates the orchestrator at the start of wave 1.
func NewWaveSpawnSystem(d SpawnDeps) *WaveSpawnSystem {
	s := &WaveSpawnSystem{
		rules:        d.Rules,
		enemyStats:   d.EnemyStats,
		arena:        d.Arena,
		player:       d.Player,
		enemies:      d.Enemies,
		pickups:      d.Pickups,
		rng:          d.Rng,
		fx:           d.Effects.WithDefaults(),
		pickupRadius: d.PickupRadius,
		maxMarkers:   d.MaxMarkers,
		wave:         game.NewWaveState(d.Rules),
		enemyKeys:    sortedKeys(d.Rules.EnemyWeights),
		pickupKeys:   sortedKeys(d.Rules.PickupWeights),
	}
	return s
}

// SetVerbose enables per-spawn logging.
func (s *WaveSpawnSystem) SetVerbose(v bool) { s.verbose = v }

// Start announces the first wave.
func (s *WaveSpawnSystem) Start() {
	log.Printf("[WaveSpawnSystem] Wave %d started: quota=%d", s.wave.Wave, s.wave.MaxEnemies)
	s.fx.HUD.Announce(game.Announcement{Kind: game.AnnounceWaveStart, Wave: s.wave.Wave})
	s.fx.Audio.Play(game.CueWaveStart)
}

// Spawn runs the spawning half of a tick.
func (s *WaveSpawnSystem) Spawn(dt float64) {
	w := s.wave
	if w.Complete {
		return
	}
	w.Elapsed += dt

	// Never leave the player stuck without ammo.
	if s.player.Ammo() <= 0 && !s.pickups.HasActive(types.PickupAmmo) {
		s.spawnPickup(types.PickupAmmo)
	}

	w.SpawnTimer -= dt
	if w.SpawnTimer <= 0 && !w.QuotaSpawned() {
		s.spawnEnemy(s.pickEnemyType(), s.enemySpawnPoint(0))
		w.EnemiesSpawned++
		w.SpawnTimer = s.rules.Waves.SpawnInterval.At(w.Wave)
		if s.rng.Float64() < s.rules.PickupChance {
			s.spawnPickup(s.pickPickupType())
		}
	}

	if !s.pickups.HasActive(types.PickupAmmo) && s.rng.Float64() < s.rules.Backstop.AmmoChance {
		s.spawnPickup(types.PickupAmmo)
	}
	if !s.pickups.HasActive(types.PickupGrenade) && s.rng.Float64() < s.rules.Backstop.GrenadeChance {
		s.spawnPickup(types.PickupGrenade)
	}

	if s.bossDue() {
		s.spawnBoss()
	}
}

// Observe runs the bookkeeping half of a tick: wave completion and the
// delayed transition to the next wave.
func (s *WaveSpawnSystem) Observe(dt float64) {
	w := s.wave
	if !w.Complete {
		if w.QuotaSpawned() && s.enemies.ActiveCount() == 0 {
			w.Complete = true
			w.TransitionTimer = s.rules.Waves.TransitionDelay
			s.wavesCompleted++
			log.Printf("[WaveSpawnSystem] Wave %d complete: defeated=%d elapsed=%.1fs", w.Wave, w.EnemiesDefeated, w.Elapsed)
			s.fx.HUD.Announce(game.Announcement{Kind: game.AnnounceWaveComplete, Wave: w.Wave})
		}
		return
	}

	w.TransitionTimer -= dt
	if w.TransitionTimer <= 0 {
		s.nextWave()
	}
}

func (s *WaveSpawnSystem) nextWave() {
	s.wave.Begin(s.wave.Wave+1, s.rules)
	s.boss = nil
	log.Printf("[WaveSpawnSystem] Wave %d started: quota=%d speed=x%.2f ammo/pickup=%d",
		s.wave.Wave, s.wave.MaxEnemies, s.wave.SpeedMultiplier, s.wave.AmmoPerPickup)
	s.fx.HUD.Announce(game.Announcement{Kind: game.AnnounceWaveStart, Wave: s.wave.Wave})
	s.fx.Audio.Play(game.CueWaveStart)
}

// bossDue reports whether every boss condition holds this tick.
func (s *WaveSpawnSystem) bossDue() bool {
	w := s.wave
	if w.Wave < s.rules.Boss.MinWave || w.BossAlive || w.BossSpawnedThisWave {
		return false
	}
	if w.EnemiesDefeated < s.rules.BossDefeatThreshold(w.Wave) {
		return false
	}
	return w.EnemiesSpawned >= bossQuotaGate(s.rules, w.Wave)
}

func (s *WaveSpawnSystem) spawnBoss() {
	stats := s.enemyStats.MustStats(types.EnemyBoss)
	corner := s.arena.FarthestCorner(s.player.Position(), s.rules.Placement.PerimeterInset)
	pos := s.arena.ResolvePenetration(corner, stats.HitRadius*0.5)
	s.boss = s.spawnEnemy(types.EnemyBoss, pos)
	s.wave.BossAlive = true
	s.wave.BossSpawnedThisWave = true
	log.Printf("[WaveSpawnSystem] Boss spawned for wave %d at (%.1f, %.1f)", s.wave.Wave, pos.X, pos.Z)
	s.fx.HUD.Announce(game.Announcement{Kind: game.AnnounceBossSpawned, Wave: s.wave.Wave})
	s.fx.Audio.Play(game.CueBossSpawn)
}

func (s *WaveSpawnSystem) spawnEnemy(et types.EnemyType, pos utils.Vec3) *entities.Enemy {
	stats := s.enemyStats.MustStats(et)
	e := s.enemies.Acquire(entities.EnemyArgs{
		Type:               et,
		Position:           pos,
		Stats:              stats,
		Behavior:           &s.enemyStats.Behavior,
		SpeedMultiplier:    s.wave.SpeedMultiplier,
		FireRateMultiplier: s.wave.FireRateMultiplier,
		Listener:           s,
		Effects:            s.fx,
		Rng:                s.rng,
		MaxMarkers:         s.maxMarkers,
	})
	if s.verbose {
		log.Printf("[WaveSpawnSystem] Spawned %s id=%d at (%.1f, %.1f), %d/%d",
			et, e.ID(), pos.X, pos.Z, s.wave.EnemiesSpawned+1, s.wave.MaxEnemies)
	}
	return e
}

// enemySpawnPoint samples the arena perimeter until the point is far enough
// from the player and clear of obstacles. Past the retry cap the last
// sample is accepted.
func (s *WaveSpawnSystem) enemySpawnPoint(attempt int) utils.Vec3 {
	p := s.arena.RandomPerimeterPoint(s.rng, s.rules.Placement.PerimeterInset)
	if attempt >= s.rules.Placement.MaxRetries {
		s.placementFails++
		return p
	}
	if p.FlatDist(s.player.Position()) < s.rules.Placement.MinPlayerDistance ||
		s.arena.NearObstacle(p, s.rules.Placement.ObstacleClearance) {
		return s.enemySpawnPoint(attempt + 1)
	}
	return p
}

// pickupSpawnPoint samples the arena interior until the point is clear of
// obstacles, with the same retry cap.
func (s *WaveSpawnSystem) pickupSpawnPoint(attempt int) utils.Vec3 {
	p := s.arena.RandomInteriorPoint(s.rng, s.rules.Placement.PickupMargin)
	if attempt >= s.rules.Placement.MaxRetries {
		s.placementFails++
		return p
	}
	if s.arena.NearObstacle(p, s.rules.Placement.ObstacleClearance) {
		return s.pickupSpawnPoint(attempt + 1)
	}
	return p
}

func (s *WaveSpawnSystem) spawnPickup(pt types.PickupType) *entities.Pickup {
	pos := s.pickupSpawnPoint(0)
	p := s.pickups.Spawn(pt, pos, s.payload(pt), s.pickupRadius)
	if s.verbose {
		log.Printf("[WaveSpawnSystem] Spawned %s pickup (+%d) at (%.1f, %.1f)", pt, p.Amount(), pos.X, pos.Z)
	}
	return p
}

func (s *WaveSpawnSystem) payload(pt types.PickupType) int {
	switch pt {
	case types.PickupAmmo:
		return s.wave.AmmoPerPickup
	case types.PickupEnergy:
		return s.rules.EnergyPerPickup(s.wave.Wave)
	case types.PickupGrenade:
		return s.rules.GrenadesPerPickup(s.wave.Wave)
	}
	return 0
}

func (s *WaveSpawnSystem) pickEnemyType() types.EnemyType {
	if et := types.EnemyTypeFromString(weightedPick(s.rng, s.enemyKeys, s.rules.EnemyWeights)); et != types.EnemyUnknown {
		return et
	}
	return types.EnemyRegular
}

func (s *WaveSpawnSystem) pickPickupType() types.PickupType {
	if pt := types.PickupTypeFromString(weightedPick(s.rng, s.pickupKeys, s.rules.PickupWeights)); pt != types.PickupUnknown {
		return pt
	}
	return types.PickupAmmo
}

// OnEnemyDefeated implements game.WaveEvents.
func (s *WaveSpawnSystem) OnEnemyDefeated(t types.EnemyType) {
	s.kills++
	if t.IsBoss() {
		s.bossKills++
		s.boss = nil
		s.wave.BossAlive = false
		s.wave.BossDefeated = true
		log.Printf("[WaveSpawnSystem] Boss defeated in wave %d", s.wave.Wave)
		s.fx.HUD.Announce(game.Announcement{Kind: game.AnnounceBossDefeated, Wave: s.wave.Wave})
		return
	}
	s.wave.EnemiesDefeated++
}

// EnemyRepossessed is called when the pool steals a live enemy. The boss
// slot is freed; no defeat is counted.
func (s *WaveSpawnSystem) EnemyRepossessed(e *entities.Enemy) {
	if e == s.boss {
		s.boss = nil
		s.wave.BossAlive = false
		log.Printf("[WaveSpawnSystem] WARNING: boss repossessed by the enemy pool")
	}
}

// Wave returns a copy of the current wave state.
func (s *WaveSpawnSystem) Wave() game.WaveState { return *s.wave }

func (s *WaveSpawnSystem) Kills() int          { return s.kills }
func (s *WaveSpawnSystem) BossKills() int      { return s.bossKills }
func (s *WaveSpawnSystem) WavesCompleted() int { return s.wavesCompleted }

// PlacementFallbacks counts samples accepted after the retry cap.
func (s *WaveSpawnSystem) PlacementFallbacks() int { return s.placementFails }

// weightedPick draws a key with probability proportional to its weight.
// keys fixes the iteration order so a seeded rng is reproducible.
func weightedPick(rng *rand.Rand, keys []string, weights map[string]int) string {
	total := 0
	for _, k := range keys {
		total += max(weights[k], 0)
	}
	if total == 0 {
		return ""
	}
	r := rng.Intn(total)
	for _, k := range keys {
		w := max(weights[k], 0)
		if r < w {
			return k
		}
		r -= w
	}
	return keys[len(keys)-1]
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// bossQuotaGate is the number of quota spawns after which a boss may appear.
func bossQuotaGate(rules *config.SpawnRulesConfig, wave int) int {
	return int(math.Ceil(rules.Boss.QuotaSpawnedRatio * float64(rules.EnemyQuota(wave))))
}
