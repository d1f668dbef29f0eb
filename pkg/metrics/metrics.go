// Package metrics exports simulation counters to Prometheus.
//
// An Exporter owns its own registry so several runs (or tests) can coexist
// in one process. Counters are fed from the cumulative simulation stats by
// adding the delta since the previous Observe.
package metrics

import (
	"net/http"

	"github.com/gonewx/wavearena/pkg/systems"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wavearena"

// Source is what the exporter reads from a running session.
type Source interface {
	Stats() systems.Stats
	PoolStats() []systems.PoolStat
	HUD() systems.HUDState
}

// Exporter mirrors a Source into Prometheus metrics.
type Exporter struct {
	registry *prometheus.Registry

	ticks          prometheus.Counter
	shots          *prometheus.CounterVec
	kills          prometheus.Counter
	bossKills      prometheus.Counter
	waves          prometheus.Counter
	collisions     *prometheus.CounterVec
	explosionDmg   prometheus.Counter
	poolSteals     *prometheus.CounterVec
	poolActive     *prometheus.GaugeVec
	poolFree       *prometheus.GaugeVec
	wave           prometheus.Gauge
	enemiesAlive   prometheus.Gauge
	playerHealth   prometheus.Gauge
	playerAmmo     prometheus.Gauge
	playerGrenades prometheus.Gauge

	prev      systems.Stats
	prevPools map[string]int
}

// NewExporter creates an exporter with a private registry.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation steps executed.",
		}),
		shots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_total",
			Help:      "Projectiles launched, by shooter.",
		}, []string{"shooter"}),
		kills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kills_total",
			Help:      "Enemies defeated, bosses included.",
		}),
		bossKills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boss_kills_total",
			Help:      "Bosses defeated.",
		}),
		waves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waves_completed_total",
			Help:      "Waves completed.",
		}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Resolved interactions, by kind.",
		}, []string{"kind"}),
		explosionDmg: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explosion_damage_total",
			Help:      "Damage dealt by explosions.",
		}),
		poolSteals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_steals_total",
			Help:      "Live instances repossessed because a pool hit its cap.",
		}, []string{"pool"}),
		poolActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_active",
			Help:      "Active instances per pool.",
		}, []string{"pool"}),
		poolFree: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_free",
			Help:      "Idle instances per pool.",
		}, []string{"pool"}),
		wave: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wave",
			Help:      "Current wave number.",
		}),
		enemiesAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "enemies_alive",
			Help:      "Enemies currently in the arena.",
		}),
		playerHealth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_health",
			Help:      "Player health.",
		}),
		playerAmmo: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_ammo",
			Help:      "Player ammunition.",
		}),
		playerGrenades: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_grenades",
			Help:      "Player grenades.",
		}),
		prevPools: make(map[string]int),
	}
	e.registry.MustRegister(
		e.ticks, e.shots, e.kills, e.bossKills, e.waves,
		e.collisions, e.explosionDmg,
		e.poolSteals, e.poolActive, e.poolFree,
		e.wave, e.enemiesAlive, e.playerHealth, e.playerAmmo, e.playerGrenades,
	)
	return e
}

// Registry returns the registry the metrics live in.
func (e *Exporter) Registry() *prometheus.Registry {
	if e == nil {
		return nil
	}
	return e.registry
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	if e == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Observe reads src and updates every metric. It is safe on a nil exporter.
func (e *Exporter) Observe(src Source) {
	if e == nil || src == nil {
		return
	}
	st := src.Stats()
	p := e.prev

	add(e.ticks, int(st.Ticks-p.Ticks))
	add(e.shots.WithLabelValues("player"), st.ShotsFired-p.ShotsFired)
	add(e.shots.WithLabelValues("grenade"), st.GrenadesThrown-p.GrenadesThrown)
	add(e.shots.WithLabelValues("enemy"), st.EnemyShots-p.EnemyShots)
	add(e.shots.WithLabelValues("boss"), st.BossShots-p.BossShots)
	add(e.kills, st.Kills-p.Kills)
	add(e.bossKills, st.BossKills-p.BossKills)
	add(e.waves, st.WavesCompleted-p.WavesCompleted)

	c, pc := st.Collisions, p.Collisions
	add(e.collisions.WithLabelValues("enemy_hit"), c.EnemyHits-pc.EnemyHits)
	add(e.collisions.WithLabelValues("player_hit"), c.PlayerHits-pc.PlayerHits)
	add(e.collisions.WithLabelValues("wall_hit"), c.WallHits-pc.WallHits)
	add(e.collisions.WithLabelValues("wall_trigger"), c.WallTriggers-pc.WallTriggers)
	add(e.collisions.WithLabelValues("proximity_fuse"), c.ProximityFuses-pc.ProximityFuses)
	add(e.collisions.WithLabelValues("knockback"), c.Knockbacks-pc.Knockbacks)
	add(e.collisions.WithLabelValues("pickup"), c.Pickups-pc.Pickups)
	add(e.explosionDmg, c.ExplosionDamage-pc.ExplosionDamage)
	e.prev = st

	for _, ps := range src.PoolStats() {
		e.poolActive.WithLabelValues(ps.Name).Set(float64(ps.Active))
		e.poolFree.WithLabelValues(ps.Name).Set(float64(ps.Free))
		add(e.poolSteals.WithLabelValues(ps.Name), ps.Steals-e.prevPools[ps.Name])
		e.prevPools[ps.Name] = ps.Steals
	}

	hud := src.HUD()
	e.wave.Set(float64(hud.Wave))
	e.enemiesAlive.Set(float64(hud.EnemiesAlive))
	e.playerHealth.Set(float64(hud.Health))
	e.playerAmmo.Set(float64(hud.Ammo))
	e.playerGrenades.Set(float64(hud.Grenades))
}

// add increments c by a positive delta; counters never go down.
func add(c prometheus.Counter, delta int) {
	if delta > 0 {
		c.Add(float64(delta))
	}
}
