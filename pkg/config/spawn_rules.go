package config

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/gonewx/wavearena/pkg/types"
)

// SpawnRulesConfig holds wave progression and spawn cadence rules.
type SpawnRulesConfig struct {
	Waves         WaveRules          `yaml:"waves"`
	EnemyWeights  map[string]int     `yaml:"enemyWeights"`  // variant -> relative weight
	PickupChance  float64            `yaml:"pickupChance"`  // chance of a pickup alongside each enemy spawn
	PickupWeights map[string]int     `yaml:"pickupWeights"` // pickup type -> relative weight
	Payload       PayloadRules       `yaml:"payload"`
	Backstop      BackstopRules      `yaml:"backstop"`
	Boss          BossRules          `yaml:"boss"`
	Placement     PlacementRules     `yaml:"placement"`
	Pools         map[string]PoolCap `yaml:"pools"` // pool name -> sizing
}

// WaveRules are the per-wave quota and difficulty scaling rules.
type WaveRules struct {
	EnemiesPerWave     int      `yaml:"enemiesPerWave"`     // quota = wave * enemiesPerWave
	SpeedStep          float64  `yaml:"speedStep"`          // speed multiplier = 1 + step*(wave-1)
	FireRateStep       float64  `yaml:"fireRateStep"`       // fire-rate multiplier = 1 + step*(wave-1)
	AmmoPerPickup      []int    `yaml:"ammoPerPickup"`      // index wave-1, last entry repeats
	AmmoPerPickupFloor int      `yaml:"ammoPerPickupFloor"` // lower bound for any wave
	SpawnInterval      Interval `yaml:"spawnInterval"`      // seconds between enemy spawns
	TransitionDelay    float64  `yaml:"transitionDelay"`    // seconds between completion and the next wave
	FirstSpawnDelay    float64  `yaml:"firstSpawnDelay"`    // seconds before the first spawn of a wave
}

// Interval is a wave-scaled duration: max(Min, Base - StepPerWave*(wave-1)).
type Interval struct {
	Base        float64 `yaml:"base"`
	StepPerWave float64 `yaml:"stepPerWave"`
	Min         float64 `yaml:"min"`
}

// At returns the interval for wave.
func (i Interval) At(wave int) float64 {
	return math.Max(i.Min, i.Base-i.StepPerWave*float64(wave-1))
}

// PayloadRules scale energy and grenade payloads by wave.
type PayloadRules struct {
	EnergyBase  int   `yaml:"energyBase"`
	EnergyStep  int   `yaml:"energyStep"` // subtracted per wave after the first
	EnergyFloor int   `yaml:"energyFloor"`
	Grenades    []int `yaml:"grenades"` // index wave-1, last entry repeats
}

// BackstopRules are per-tick probabilities of availability spawns.
type BackstopRules struct {
	AmmoChance    float64 `yaml:"ammoChance"`
	GrenadeChance float64 `yaml:"grenadeChance"`
}

// BossRules decide when a boss joins a wave.
type BossRules struct {
	MinWave           int         `yaml:"minWave"`
	QuotaSpawnedRatio float64     `yaml:"quotaSpawnedRatio"` // share of the quota that must have spawned
	DefeatRatio       float64     `yaml:"defeatRatio"`       // formula used beyond the threshold table
	DefeatThresholds  map[int]int `yaml:"defeatThresholds"`  // wave -> defeated enemies required
}

// PlacementRules constrain spawn position sampling.
type PlacementRules struct {
	MinPlayerDistance float64 `yaml:"minPlayerDistance"` // enemies spawn at least this far from the player
	PerimeterInset    float64 `yaml:"perimeterInset"`    // distance inside the arena edge
	ObstacleClearance float64 `yaml:"obstacleClearance"` // pickups stay this far from obstacles
	PickupMargin      float64 `yaml:"pickupMargin"`      // pickups stay this far inside the edge
	MaxRetries        int     `yaml:"maxRetries"`        // recursion cap before accepting the last sample
}

// PoolCap sizes one entity pool.
type PoolCap struct {
	Prealloc int `yaml:"prealloc"`
	Max      int `yaml:"max"` // hard population cap; the oldest instance is repossessed beyond it
}

// Pool names used in the pools table.
const (
	PoolEnemies     = "enemies"
	PoolGrenades    = "grenades"
	PoolBossBullets = "bossBullets"
	PoolBullets     = "bullets"
)

// DefaultSpawnRules returns the built-in rules.
func DefaultSpawnRules() *SpawnRulesConfig {
	return &SpawnRulesConfig{
		Waves: WaveRules{
			EnemiesPerWave:     8,
			SpeedStep:          0.1,
			FireRateStep:       0.05,
			AmmoPerPickup:      []int{70, 60, 50, 40, 30},
			AmmoPerPickupFloor: 30,
			SpawnInterval:      Interval{Base: 2.0, StepPerWave: 0.1, Min: 0.8},
			TransitionDelay:    3.0,
			FirstSpawnDelay:    1.0,
		},
		EnemyWeights:  map[string]int{"regular": 60, "chubby": 20, "thin": 20},
		PickupChance:  0.5,
		PickupWeights: map[string]int{"ammo": 40, "energy": 40, "grenade": 20},
		Payload: PayloadRules{
			EnergyBase:  30,
			EnergyStep:  3,
			EnergyFloor: 10,
			Grenades:    []int{3, 3, 2, 2, 1},
		},
		Backstop: BackstopRules{AmmoChance: 0.002, GrenadeChance: 0.001},
		Boss: BossRules{
			MinWave:           3,
			QuotaSpawnedRatio: 0.5,
			DefeatRatio:       0.7,
			DefeatThresholds: map[int]int{
				3: 17, 4: 22, 5: 28, 6: 34, 7: 39, 8: 45, 9: 50, 10: 56,
			},
		},
		Placement: PlacementRules{
			MinPlayerDistance: 12,
			PerimeterInset:    1.5,
			ObstacleClearance: 2,
			PickupMargin:      3,
			MaxRetries:        16,
		},
		Pools: map[string]PoolCap{
			PoolEnemies:     {Prealloc: 16, Max: 64},
			PoolGrenades:    {Prealloc: 4, Max: 8},
			PoolBossBullets: {Prealloc: 4, Max: 12},
			PoolBullets:     {Prealloc: 64, Max: 512},
		},
	}
}

// LoadSpawnRules loads and validates spawn_rules.yaml.
func LoadSpawnRules(path string) (*SpawnRulesConfig, error) {
	var cfg SpawnRulesConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := validateSpawnRules(&cfg); err != nil {
		return nil, fmt.Errorf("invalid spawn rules in %s: %w", path, err)
	}
	cfg.reportThresholdMismatches()
	return &cfg, nil
}

func validateSpawnRules(cfg *SpawnRulesConfig) error {
	w := cfg.Waves
	if w.EnemiesPerWave < 1 {
		return fmt.Errorf("waves.enemiesPerWave must be at least 1, got %d", w.EnemiesPerWave)
	}
	if w.SpeedStep < 0 || w.FireRateStep < 0 {
		return fmt.Errorf("waves speed/fire-rate steps must be >= 0")
	}
	if len(w.AmmoPerPickup) == 0 {
		return fmt.Errorf("waves.ammoPerPickup cannot be empty")
	}
	for i, a := range w.AmmoPerPickup {
		if a < 1 {
			return fmt.Errorf("waves.ammoPerPickup[%d] must be positive, got %d", i, a)
		}
	}
	if w.SpawnInterval.Min <= 0 {
		return fmt.Errorf("waves.spawnInterval.min must be positive, got %.2f", w.SpawnInterval.Min)
	}
	if w.TransitionDelay < 0 {
		return fmt.Errorf("waves.transitionDelay must be >= 0, got %.2f", w.TransitionDelay)
	}

	if err := validateWeights("enemyWeights", cfg.EnemyWeights, func(name string) bool {
		et := types.EnemyTypeFromString(name)
		return et != types.EnemyUnknown && !et.IsBoss()
	}); err != nil {
		return err
	}
	if err := validateWeights("pickupWeights", cfg.PickupWeights, func(name string) bool {
		return types.PickupTypeFromString(name) != types.PickupUnknown
	}); err != nil {
		return err
	}
	if cfg.PickupChance < 0 || cfg.PickupChance > 1 {
		return fmt.Errorf("pickupChance must be within [0, 1], got %.2f", cfg.PickupChance)
	}

	if len(cfg.Payload.Grenades) == 0 {
		return fmt.Errorf("payload.grenades cannot be empty")
	}

	b := cfg.Boss
	if b.MinWave < 1 {
		return fmt.Errorf("boss.minWave must be at least 1, got %d", b.MinWave)
	}
	if b.QuotaSpawnedRatio < 0 || b.QuotaSpawnedRatio > 1 {
		return fmt.Errorf("boss.quotaSpawnedRatio must be within [0, 1], got %.2f", b.QuotaSpawnedRatio)
	}
	if b.DefeatRatio <= 0 || b.DefeatRatio > 1 {
		return fmt.Errorf("boss.defeatRatio must be within (0, 1], got %.2f", b.DefeatRatio)
	}
	for wave, n := range b.DefeatThresholds {
		if wave < 1 || n < 0 {
			return fmt.Errorf("boss.defeatThresholds: invalid entry %d -> %d", wave, n)
		}
	}

	if cfg.Placement.MaxRetries < 0 {
		return fmt.Errorf("placement.maxRetries must be >= 0, got %d", cfg.Placement.MaxRetries)
	}
	for name, p := range cfg.Pools {
		if p.Max < 1 || p.Prealloc < 0 || p.Prealloc > p.Max {
			return fmt.Errorf("pools.%s: invalid sizing prealloc=%d max=%d", name, p.Prealloc, p.Max)
		}
	}
	return nil
}

func validateWeights(field string, weights map[string]int, known func(string) bool) error {
	if len(weights) == 0 {
		return fmt.Errorf("%s cannot be empty", field)
	}
	total := 0
	for name, w := range weights {
		if !known(name) {
			return fmt.Errorf("%s: unknown entry %q", field, name)
		}
		if w < 0 {
			return fmt.Errorf("%s: weight for %s must be >= 0, got %d", field, name, w)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%s: weights sum to zero", field)
	}
	return nil
}

// reportThresholdMismatches logs table entries that differ from the ratio
// formula. The table wins; this only flags entries for review.
func (c *SpawnRulesConfig) reportThresholdMismatches() {
	waves := make([]int, 0, len(c.Boss.DefeatThresholds))
	for w := range c.Boss.DefeatThresholds {
		waves = append(waves, w)
	}
	sort.Ints(waves)
	for _, w := range waves {
		if got, formula := c.Boss.DefeatThresholds[w], c.formulaThreshold(w); got != formula {
			log.Printf("[Config] boss threshold for wave %d is %d, ratio formula gives %d", w, got, formula)
		}
	}
}

// EnemyQuota is the number of enemies wave spawns.
func (c *SpawnRulesConfig) EnemyQuota(wave int) int {
	return wave * c.Waves.EnemiesPerWave
}

// SpeedMultiplier scales enemy speed for wave.
func (c *SpawnRulesConfig) SpeedMultiplier(wave int) float64 {
	return 1 + c.Waves.SpeedStep*float64(wave-1)
}

// FireRateMultiplier divides enemy fire cooldowns for wave.
func (c *SpawnRulesConfig) FireRateMultiplier(wave int) float64 {
	return 1 + c.Waves.FireRateStep*float64(wave-1)
}

// AmmoPerPickup is the ammo payload for wave, never below the floor.
func (c *SpawnRulesConfig) AmmoPerPickup(wave int) int {
	return max(steppedValue(c.Waves.AmmoPerPickup, wave), c.Waves.AmmoPerPickupFloor)
}

// EnergyPerPickup is the health payload for wave.
func (c *SpawnRulesConfig) EnergyPerPickup(wave int) int {
	return max(c.Payload.EnergyBase-c.Payload.EnergyStep*(wave-1), c.Payload.EnergyFloor)
}

// GrenadesPerPickup is the grenade payload for wave.
func (c *SpawnRulesConfig) GrenadesPerPickup(wave int) int {
	return max(steppedValue(c.Payload.Grenades, wave), 1)
}

// BossDefeatThreshold is the number of defeated enemies required before the
// boss of wave may spawn. The literal table takes precedence over the formula.
func (c *SpawnRulesConfig) BossDefeatThreshold(wave int) int {
	if n, ok := c.Boss.DefeatThresholds[wave]; ok {
		return n
	}
	return c.formulaThreshold(wave)
}

func (c *SpawnRulesConfig) formulaThreshold(wave int) int {
	return int(math.Round(c.Boss.DefeatRatio * float64(c.EnemyQuota(wave))))
}

// Pool returns the sizing for name, with a small fallback.
func (c *SpawnRulesConfig) Pool(name string) PoolCap {
	if p, ok := c.Pools[name]; ok {
		return p
	}
	return PoolCap{Prealloc: 0, Max: 32}
}

func steppedValue(steps []int, wave int) int {
	if len(steps) == 0 {
		return 0
	}
	i := wave - 1
	if i < 0 {
		i = 0
	}
	if i >= len(steps) {
		i = len(steps) - 1
	}
	return steps[i]
}
