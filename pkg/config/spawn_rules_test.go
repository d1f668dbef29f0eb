package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSpawnRules(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *SpawnRulesConfig)
	}{
		{
			name: "valid config",
			yamlContent: `
waves:
  enemiesPerWave: 8
  speedStep: 0.1
  fireRateStep: 0.05
  ammoPerPickup: [70, 60, 50, 40, 30]
  ammoPerPickupFloor: 30
  spawnInterval: {base: 2.0, stepPerWave: 0.1, min: 0.8}
  transitionDelay: 3
enemyWeights: {regular: 60, chubby: 20, thin: 20}
pickupChance: 0.5
pickupWeights: {ammo: 40, energy: 40, grenade: 20}
payload:
  energyBase: 30
  energyStep: 3
  energyFloor: 10
  grenades: [3, 2, 1]
boss:
  minWave: 3
  quotaSpawnedRatio: 0.5
  defeatRatio: 0.7
  defeatThresholds:
    3: 17
    4: 22
pools:
  enemies: {prealloc: 8, max: 32}
`,
			validate: func(t *testing.T, cfg *SpawnRulesConfig) {
				if cfg.Waves.EnemiesPerWave != 8 {
					t.Errorf("expected enemiesPerWave = 8, got %d", cfg.Waves.EnemiesPerWave)
				}
				if cfg.EnemyWeights["regular"] != 60 {
					t.Errorf("expected regular weight = 60, got %d", cfg.EnemyWeights["regular"])
				}
				if cfg.Boss.DefeatThresholds[4] != 22 {
					t.Errorf("expected wave 4 threshold = 22, got %d", cfg.Boss.DefeatThresholds[4])
				}
				if cfg.Pool(PoolEnemies).Max != 32 {
					t.Errorf("expected enemy pool max = 32, got %d", cfg.Pool(PoolEnemies).Max)
				}
			},
		},
		{
			name: "boss in enemy weights",
			yamlContent: `
waves: {enemiesPerWave: 8, ammoPerPickup: [70], spawnInterval: {min: 1}}
enemyWeights: {regular: 60, boss: 1}
pickupWeights: {ammo: 1}
payload: {grenades: [1]}
boss: {minWave: 3, defeatRatio: 0.7}
`,
			wantErr:     true,
			errContains: `unknown entry "boss"`,
		},
		{
			name: "empty ammo steps",
			yamlContent: `
waves: {enemiesPerWave: 8, ammoPerPickup: [], spawnInterval: {min: 1}}
enemyWeights: {regular: 1}
pickupWeights: {ammo: 1}
payload: {grenades: [1]}
boss: {minWave: 3, defeatRatio: 0.7}
`,
			wantErr:     true,
			errContains: "ammoPerPickup cannot be empty",
		},
		{
			name: "zero weights",
			yamlContent: `
waves: {enemiesPerWave: 8, ammoPerPickup: [70], spawnInterval: {min: 1}}
enemyWeights: {regular: 0, thin: 0}
pickupWeights: {ammo: 1}
payload: {grenades: [1]}
boss: {minWave: 3, defeatRatio: 0.7}
`,
			wantErr:     true,
			errContains: "weights sum to zero",
		},
		{
			name: "prealloc above max",
			yamlContent: `
waves: {enemiesPerWave: 8, ammoPerPickup: [70], spawnInterval: {min: 1}}
enemyWeights: {regular: 1}
pickupWeights: {ammo: 1}
payload: {grenades: [1]}
boss: {minWave: 3, defeatRatio: 0.7}
pools:
  grenades: {prealloc: 9, max: 4}
`,
			wantErr:     true,
			errContains: "pools.grenades",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "spawn_rules.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}

			cfg, err := LoadSpawnRules(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSpawnRules failed: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadSpawnRules_FileNotFound(t *testing.T) {
	_, err := LoadSpawnRules(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWaveScaling(t *testing.T) {
	cfg := DefaultSpawnRules()

	tests := []struct {
		wave      int
		quota     int
		speed     float64
		fireRate  float64
		ammo      int
		threshold int
	}{
		{wave: 1, quota: 8, speed: 1.0, fireRate: 1.0, ammo: 70, threshold: 6},
		{wave: 2, quota: 16, speed: 1.1, fireRate: 1.05, ammo: 60, threshold: 11},
		{wave: 3, quota: 24, speed: 1.2, fireRate: 1.1, ammo: 50, threshold: 17},
		{wave: 4, quota: 32, speed: 1.3, fireRate: 1.15, ammo: 40, threshold: 22},
		{wave: 5, quota: 40, speed: 1.4, fireRate: 1.2, ammo: 30, threshold: 28},
		{wave: 10, quota: 80, speed: 1.9, fireRate: 1.45, ammo: 30, threshold: 56},
		{wave: 12, quota: 96, speed: 2.1, fireRate: 1.55, ammo: 30, threshold: 67},
	}

	for _, tt := range tests {
		if got := cfg.EnemyQuota(tt.wave); got != tt.quota {
			t.Errorf("wave %d quota = %d, want %d", tt.wave, got, tt.quota)
		}
		if got := cfg.SpeedMultiplier(tt.wave); !almostEqual(got, tt.speed) {
			t.Errorf("wave %d speed multiplier = %.3f, want %.3f", tt.wave, got, tt.speed)
		}
		if got := cfg.FireRateMultiplier(tt.wave); !almostEqual(got, tt.fireRate) {
			t.Errorf("wave %d fire-rate multiplier = %.3f, want %.3f", tt.wave, got, tt.fireRate)
		}
		if got := cfg.AmmoPerPickup(tt.wave); got != tt.ammo {
			t.Errorf("wave %d ammo per pickup = %d, want %d", tt.wave, got, tt.ammo)
		}
		if got := cfg.BossDefeatThreshold(tt.wave); got != tt.threshold {
			t.Errorf("wave %d boss threshold = %d, want %d", tt.wave, got, tt.threshold)
		}
	}
}

func TestBossThresholdTableWinsOverFormula(t *testing.T) {
	cfg := DefaultSpawnRules()
	cfg.Boss.DefeatThresholds[5] = 99

	if got := cfg.BossDefeatThreshold(5); got != 99 {
		t.Errorf("table entry should be used verbatim, got %d", got)
	}
	if got := cfg.BossDefeatThreshold(11); got != 62 {
		t.Errorf("wave 11 should use round(0.7*88) = 62, got %d", got)
	}
}

func TestAmmoPerPickupFloor(t *testing.T) {
	cfg := DefaultSpawnRules()
	cfg.Waves.AmmoPerPickup = []int{70, 20}

	if got := cfg.AmmoPerPickup(2); got != 30 {
		t.Errorf("ammo per pickup should not drop below the floor, got %d", got)
	}
}

func TestPayloadScaling(t *testing.T) {
	cfg := DefaultSpawnRules()

	if got := cfg.EnergyPerPickup(1); got != 30 {
		t.Errorf("wave 1 energy = %d, want 30", got)
	}
	if got := cfg.EnergyPerPickup(100); got != cfg.Payload.EnergyFloor {
		t.Errorf("late wave energy = %d, want floor %d", got, cfg.Payload.EnergyFloor)
	}
	if got := cfg.GrenadesPerPickup(50); got != 1 {
		t.Errorf("late wave grenades = %d, want 1", got)
	}
}

func TestSpawnIntervalAt(t *testing.T) {
	iv := Interval{Base: 2.0, StepPerWave: 0.1, Min: 0.8}

	if got := iv.At(1); !almostEqual(got, 2.0) {
		t.Errorf("wave 1 interval = %.2f, want 2.0", got)
	}
	if got := iv.At(30); !almostEqual(got, 0.8) {
		t.Errorf("wave 30 interval = %.2f, want the 0.8 floor", got)
	}
}

func TestDefaultSpawnRulesValid(t *testing.T) {
	if err := validateSpawnRules(DefaultSpawnRules()); err != nil {
		t.Fatalf("built-in spawn rules invalid: %v", err)
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
