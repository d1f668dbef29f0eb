package entities

import (
	"math/rand"
	"testing"

	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/game/gametest"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shot struct {
	owner  types.BulletOwner
	origin utils.Vec3
	dir    utils.Vec3
	boss   bool
	damage int
}

type recordingArmory struct {
	shots []shot
}

func (a *recordingArmory) FireBullet(owner types.BulletOwner, origin, dir utils.Vec3, _ float64, damage int) {
	a.shots = append(a.shots, shot{owner: owner, origin: origin, dir: dir, damage: damage})
}

func (a *recordingArmory) FireBossBullet(origin, dir utils.Vec3, _ float64, damage int) {
	a.shots = append(a.shots, shot{origin: origin, dir: dir, boss: true, damage: damage})
}

type enemyFixture struct {
	enemy  *Enemy
	ctx    *Context
	player *gametest.Player
	armory *recordingArmory
	defeat *gametest.DefeatLog
	render *gametest.Renderer
	audio  *gametest.Audio
}

func newEnemyFixture(t *testing.T, et types.EnemyType, seed int64, tweak func(*config.EnemyStats)) *enemyFixture {
	t.Helper()
	cfg := config.DefaultEnemyStats()
	stats, ok := cfg.Stats(et)
	require.True(t, ok, "stats for %s", et)
	if tweak != nil {
		tweak(&stats)
	}

	fx, r, a, _ := gametest.Effects()
	f := &enemyFixture{
		player: gametest.NewPlayer(utils.Zero),
		armory: &recordingArmory{},
		defeat: &gametest.DefeatLog{},
		render: r,
		audio:  a,
	}
	rng := rand.New(rand.NewSource(seed))
	f.ctx = &Context{
		Player:      f.player,
		Arena:       arena.New(config.DefaultArenaConfig()),
		Armory:      f.armory,
		Rng:         rng,
		BulletSpeed: 40,
	}
	f.enemy = NewEnemy()
	f.enemy.Reset(1, EnemyArgs{
		Type:     et,
		Position: utils.V3(0, 0, 20),
		Stats:    stats,
		Behavior: &cfg.Behavior,
		Listener: f.defeat,
		Effects:  fx,
		Rng:      rng,
	})
	return f
}

func (f *enemyFixture) hit(canDie bool) {
	f.enemy.AttachMarker(true)
	f.enemy.TakeDamage(1, canDie)
}

func (f *enemyFixture) run(seconds, dt float64) {
	for t := 0.0; t < seconds; t += dt {
		f.enemy.Update(dt, f.ctx)
	}
}

func TestEnemyResetAppliesWaveMultipliers(t *testing.T) {
	cfg := config.DefaultEnemyStats()
	e := NewEnemy()
	e.Reset(7, EnemyArgs{
		Type:               types.EnemyRegular,
		Stats:              cfg.MustStats(types.EnemyRegular),
		Behavior:           &cfg.Behavior,
		SpeedMultiplier:    1.2,
		FireRateMultiplier: 1.5,
		Rng:                rand.New(rand.NewSource(1)),
	})

	assert.Equal(t, EnemyActive, e.State())
	assert.Equal(t, 2, e.Health())
	assert.InDelta(t, 3.6, e.Speed(), 1e-9)
	assert.InDelta(t, 2.0, e.Cooldown(), 1e-9)
	assert.Zero(t, e.Markers())
}

func TestThinEnemyDiesOnFirstHit(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyThin, 1, nil)

	f.hit(true)

	assert.Equal(t, EnemyInactive, f.enemy.State())
	assert.True(t, f.enemy.Terminated())
	assert.Equal(t, 1, f.enemy.Markers())
	assert.Equal(t, []types.EnemyType{types.EnemyThin}, f.defeat.Defeated)
	assert.Empty(t, f.render.Explosions, "short death must not play the burst sequence")
}

func TestThirdAttachedHitRoutesToDying(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyRegular, 2, nil)

	f.hit(false)
	f.hit(false)
	require.Equal(t, EnemyActive, f.enemy.State(), "non-lethal hits keep the enemy active")
	f.hit(true)

	require.Equal(t, EnemyDying, f.enemy.State())
	assert.Empty(t, f.defeat.Defeated, "defeat is reported when dying finishes")

	f.run(2, 0.016)
	assert.Equal(t, EnemyInactive, f.enemy.State())
	assert.Len(t, f.render.Explosions, 1)
	assert.Equal(t, []types.EnemyType{types.EnemyRegular}, f.defeat.Defeated)
}

func TestSecondHitKillsImmediatelyBelowMarkerGate(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyRegular, 3, nil)

	f.hit(true)
	assert.Equal(t, EnemyActive, f.enemy.State())
	f.hit(true)

	assert.Equal(t, EnemyInactive, f.enemy.State())
	assert.Len(t, f.defeat.Defeated, 1)
}

func TestBossAlwaysPlaysBurstSequence(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyBoss, 4, nil)

	f.enemy.TakeDamage(100, true)
	require.Equal(t, EnemyDying, f.enemy.State())

	f.run(3, 0.016)
	assert.Equal(t, EnemyInactive, f.enemy.State())
	assert.Len(t, f.render.Explosions, 3)
	assert.Equal(t, []types.EnemyType{types.EnemyBoss}, f.defeat.Defeated)
}

func TestDamageIgnoredOutsideActive(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyChubby, 5, nil)
	require.True(t, f.enemy.BlowAway(utils.V3(1, 0, 0), 10))

	f.enemy.TakeDamage(5, true)
	f.enemy.AttachMarker(true)

	assert.Equal(t, 3, f.enemy.Health())
	assert.Zero(t, f.enemy.Markers())
	assert.False(t, f.enemy.BlowAway(utils.V3(0, 0, 1), 10), "already blown away")
}

func TestHitAlwaysFlashes(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyChubby, 6, nil)

	f.enemy.TakeDamage(1, false)
	assert.True(t, f.enemy.Flashing())
	assert.True(t, f.enemy.View().Flash)

	f.run(0.5, 0.016)
	assert.False(t, f.enemy.Flashing())
}

func TestBlowAwayLandsAndCountsAsDefeat(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyRegular, 7, nil)
	start := f.enemy.Position()

	require.True(t, f.enemy.BlowAway(utils.V3(1, 0, 0), 12))
	assert.Equal(t, EnemyBlownAway, f.enemy.State())

	f.enemy.Update(0.016, f.ctx)
	assert.Greater(t, f.enemy.Position().Y, 0.0, "launched upward")

	f.run(5, 0.016)
	assert.Equal(t, EnemyInactive, f.enemy.State())
	assert.Greater(t, f.enemy.Position().X, start.X)
	assert.Equal(t, 0.0, f.enemy.Position().Y)
	assert.Len(t, f.defeat.Defeated, 1)
	assert.Len(t, f.armory.shots, 0, "no AI while airborne")
}

func TestBlowAwayDegenerateDirection(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyRegular, 8, nil)

	require.True(t, f.enemy.BlowAway(utils.Zero, 10))
	f.run(5, 0.016)

	assert.True(t, f.enemy.Position().IsFinite())
	assert.Equal(t, EnemyInactive, f.enemy.State())
}

func TestDeactivateDoesNotReportDefeat(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyRegular, 9, nil)

	f.enemy.Deactivate()
	f.enemy.Deactivate()

	assert.True(t, f.enemy.Terminated())
	assert.Empty(t, f.defeat.Defeated)
}

func TestEnemyNeverRevives(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		f := newEnemyFixture(t, types.EnemyRegular, seed, nil)
		rng := rand.New(rand.NewSource(seed))
		lastHealth := f.enemy.Health()
		terminal := false

		for i := 0; i < 400; i++ {
			switch rng.Intn(6) {
			case 0:
				f.hit(rng.Intn(2) == 0)
			case 1:
				if rng.Intn(10) == 0 {
					f.enemy.BlowAway(utils.V3(rng.Float64()-0.5, 0, rng.Float64()-0.5), rng.Float64()*15)
				}
			default:
				f.enemy.Update(0.016, f.ctx)
			}

			require.LessOrEqual(t, f.enemy.Health(), lastHealth, "seed %d: health increased", seed)
			lastHealth = f.enemy.Health()
			if terminal {
				require.Equal(t, EnemyInactive, f.enemy.State(), "seed %d: left terminal state", seed)
			}
			terminal = f.enemy.Terminated()
		}
		assert.LessOrEqual(t, len(f.defeat.Defeated), 1, "seed %d", seed)
	}
}

func TestFiringIsDistanceGated(t *testing.T) {
	stationary := func(s *config.EnemyStats) {
		s.Speed = 0
	}
	cases := []struct {
		name     string
		distance float64
		canFire  bool
	}{
		{"too close", 5.9, false},
		{"beyond range", 25.5, false},
		{"at half optimal", 6.0, true},
		{"optimal", 12, true},
		{"at range", 25, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fired := 0
			for seed := int64(0); seed < 50; seed++ {
				f := newEnemyFixture(t, types.EnemyRegular, seed, stationary)
				f.player.Pos = utils.V3(tc.distance, 0, 20)
				f.run(10, 0.05)
				if !tc.canFire {
					require.Empty(t, f.armory.shots, "seed %d", seed)
					require.Zero(t, f.enemy.FireAttempts(), "seed %d", seed)
				}
				fired += len(f.armory.shots)
			}
			if tc.canFire {
				assert.Positive(t, fired)
			}
		})
	}
}

func TestFireChanceIsApplied(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyRegular, 11, func(s *config.EnemyStats) {
		s.Speed = 0
		s.ShootCooldown = 0.1
	})
	f.player.Pos = utils.V3(12, 0, 20)

	f.run(100, 0.05)

	attempts, shots := f.enemy.FireAttempts(), f.enemy.Shots()
	require.Greater(t, attempts, 200)
	ratio := float64(shots) / float64(attempts)
	assert.InDelta(t, 0.5, ratio, 0.1)
	assert.Equal(t, len(f.armory.shots), shots)
	assert.Equal(t, shots, f.audio.Count(game.CueEnemyFire))
}

func TestBossFiresBossBullets(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyBoss, 12, func(s *config.EnemyStats) {
		s.Speed = 0
		s.ShootCooldown = 0.1
	})
	f.player.Pos = utils.V3(14, 0, 20)

	f.run(5, 0.05)

	require.NotEmpty(t, f.armory.shots)
	for _, s := range f.armory.shots {
		assert.True(t, s.boss)
		assert.Equal(t, 30, s.damage)
	}
}

func TestMovementArbitration(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		want     MoveState
	}{
		{"retreat", 8, MoveRetreating},
		{"strafe", 13, MoveStrafing},
		{"seek", 20, MoveSeeking},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newEnemyFixture(t, types.EnemyChubby, 13, func(s *config.EnemyStats) {
				s.Jitter = 0
			})
			f.player.Pos = utils.V3(0, 0, 20-tc.distance)
			before := f.enemy.Position().FlatDist(f.player.Pos)

			f.enemy.Update(0.1, f.ctx)
			after := f.enemy.Position().FlatDist(f.player.Pos)

			assert.Equal(t, tc.want, f.enemy.Move())
			switch tc.want {
			case MoveRetreating:
				assert.Greater(t, after, before)
			case MoveSeeking:
				assert.Less(t, after, before)
			case MoveStrafing:
				assert.InDelta(t, before, after, 0.05)
			}
		})
	}
}

func TestCoincidentPlayerSkipsUpdate(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyRegular, 14, nil)
	f.player.Pos = f.enemy.Position()

	f.enemy.Update(0.016, f.ctx)

	assert.Equal(t, utils.V3(0, 0, 20), f.enemy.Position())
	assert.True(t, f.enemy.Position().IsFinite())
}

func TestEnemyView(t *testing.T) {
	f := newEnemyFixture(t, types.EnemyThin, 15, nil)

	v := f.enemy.View()

	assert.Equal(t, types.KindEnemy, v.Kind)
	assert.Equal(t, types.EnemyThin, v.Enemy)
	assert.Equal(t, 1.6, v.Radius)
	assert.Equal(t, config.ColorByName("slateblue"), v.Color)
	assert.False(t, v.Dying)
}
