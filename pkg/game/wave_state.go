package game

import (
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/types"
)

// WaveState is the wave bookkeeping owned by the spawn system. Other
// components report events through WaveEvents instead of touching it.
type WaveState struct {
	Wave               int
	MaxEnemies         int // quota for the wave
	EnemiesSpawned     int // quota enemies spawned so far; the boss is not counted
	EnemiesDefeated    int
	SpeedMultiplier    float64
	FireRateMultiplier float64
	AmmoPerPickup      int

	BossAlive           bool
	BossDefeated        bool
	BossSpawnedThisWave bool

	Complete        bool
	TransitionTimer float64 // counts down after completion
	SpawnTimer      float64 // counts down to the next enemy spawn
	Elapsed         float64 // seconds since the wave started
}

// NewWaveState returns the state for wave 1.
func NewWaveState(rules *config.SpawnRulesConfig) *WaveState {
	w := &WaveState{}
	w.Begin(1, rules)
	return w
}

// Begin resets every per-wave counter for wave and recomputes the
// difficulty multipliers.
func (w *WaveState) Begin(wave int, rules *config.SpawnRulesConfig) {
	*w = WaveState{
		Wave:               wave,
		MaxEnemies:         rules.EnemyQuota(wave),
		SpeedMultiplier:    rules.SpeedMultiplier(wave),
		FireRateMultiplier: rules.FireRateMultiplier(wave),
		AmmoPerPickup:      rules.AmmoPerPickup(wave),
		SpawnTimer:         rules.Waves.FirstSpawnDelay,
	}
}

// QuotaSpawned reports whether every quota enemy has been spawned.
func (w *WaveState) QuotaSpawned() bool {
	return w.EnemiesSpawned >= w.MaxEnemies
}

// Remaining is the number of quota enemies not yet defeated.
func (w *WaveState) Remaining() int {
	return max(w.MaxEnemies-w.EnemiesDefeated, 0)
}

// WaveEvents receives gameplay events that affect wave bookkeeping.
type WaveEvents interface {
	// OnEnemyDefeated is called once per enemy that died or was blown away.
	// It is not called for instances repossessed by their pool.
	OnEnemyDefeated(t types.EnemyType)
}
