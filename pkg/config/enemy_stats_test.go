package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/wavearena/pkg/types"
	"golang.org/x/image/colornames"
)

const validEnemyStatsYAML = `
behavior:
  fireChance: 0.5
  strafeFlipChance: 0.01
  markerGate: 3
  blowGravity: 25
enemies:
  regular: {health: 2, speed: 3, shootCooldown: 3, optimalDistance: 12, shootingRange: 25, hitRadius: 1.2, bulletSpeed: 0.45, deathBursts: 1, color: firebrick}
  chubby: {health: 3, speed: 2, shootCooldown: 5, optimalDistance: 10, shootingRange: 22, hitRadius: 1.5, bulletSpeed: 0.35, deathBursts: 1, color: darkolivegreen}
  thin: {health: 1, speed: 4, shootCooldown: 4, optimalDistance: 15, shootingRange: 30, hitRadius: 1.6, bulletSpeed: 0.6, deathBursts: 1, color: slateblue}
  boss: {health: 40, speed: 2.5, shootCooldown: 6, optimalDistance: 14, shootingRange: 35, hitRadius: 2.5, bulletSpeed: 0.4, deathBursts: 3, bossBullets: true, color: darkred}
`

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadEnemyStats(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg, err := LoadEnemyStats(writeTempConfig(t, "enemy_stats.yaml", validEnemyStatsYAML))
		if err != nil {
			t.Fatalf("LoadEnemyStats failed: %v", err)
		}

		thin, ok := cfg.Stats(types.EnemyThin)
		if !ok {
			t.Fatal("thin stats not found")
		}
		if thin.Health != 1 {
			t.Errorf("thin health: expected 1, got %d", thin.Health)
		}
		boss := cfg.MustStats(types.EnemyBoss)
		if !boss.BossBullets || boss.DeathBursts != 3 {
			t.Errorf("boss should fire boss bullets with 3 death bursts, got %+v", boss)
		}
		if thin.RGBA() != colornames.Slateblue {
			t.Errorf("thin color resolved to %v", thin.RGBA())
		}
	})

	errorCases := []struct {
		name        string
		mutate      func(string) string
		errContains string
	}{
		{
			name:        "missing variant",
			mutate:      func(s string) string { return removeLine(s, "  boss:") },
			errContains: `missing enemy variant "boss"`,
		},
		{
			name:        "unknown color",
			mutate:      func(s string) string { return strings.Replace(s, "color: firebrick", "color: notacolor", 1) },
			errContains: `unknown color name "notacolor"`,
		},
		{
			name:        "range below optimal distance",
			mutate:      func(s string) string { return strings.Replace(s, "shootingRange: 22", "shootingRange: 5", 1) },
			errContains: "below optimalDistance",
		},
		{
			name:        "zero health",
			mutate:      func(s string) string { return strings.Replace(s, "health: 1,", "health: 0,", 1) },
			errContains: "health must be at least 1",
		},
		{
			name:        "fire chance above one",
			mutate:      func(s string) string { return strings.Replace(s, "fireChance: 0.5", "fireChance: 1.5", 1) },
			errContains: "fireChance",
		},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, "enemy_stats.yaml", tc.mutate(validEnemyStatsYAML))
			_, err := LoadEnemyStats(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errContains) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.errContains)
			}
		})
	}

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadEnemyStats(writeTempConfig(t, "bad.yaml", "enemies: [unclosed"))
		if err == nil || !strings.Contains(err.Error(), "failed to parse YAML") {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}

func TestDefaultEnemyStatsOrdering(t *testing.T) {
	cfg := DefaultEnemyStats()
	if err := validateEnemyStats(cfg); err != nil {
		t.Fatalf("built-in enemy stats invalid: %v", err)
	}

	regular := cfg.MustStats(types.EnemyRegular)
	chubby := cfg.MustStats(types.EnemyChubby)
	thin := cfg.MustStats(types.EnemyThin)
	boss := cfg.MustStats(types.EnemyBoss)

	if regular.Health != 2 || thin.Health != 1 || chubby.Health != 3 {
		t.Errorf("unexpected starting health: regular=%d thin=%d chubby=%d", regular.Health, thin.Health, chubby.Health)
	}
	if regular.ShootCooldown != 3 || thin.ShootCooldown != 4 || chubby.ShootCooldown != 5 {
		t.Errorf("unexpected cooldowns: regular=%.0f thin=%.0f chubby=%.0f", regular.ShootCooldown, thin.ShootCooldown, chubby.ShootCooldown)
	}
	if boss.ShootCooldown <= chubby.ShootCooldown {
		t.Errorf("boss cooldown %.1f should exceed every regular variant", boss.ShootCooldown)
	}
	if !(thin.BulletSpeed > regular.BulletSpeed && regular.BulletSpeed > chubby.BulletSpeed) {
		t.Error("bullet speed should order thin > regular > chubby")
	}
	if !(chubby.AimSpread > regular.AimSpread && regular.AimSpread > thin.AimSpread) {
		t.Error("aim spread should order chubby > regular > thin")
	}
	if !(thin.Jitter > regular.Jitter && regular.Jitter > chubby.Jitter) {
		t.Error("jitter should order thin > regular > chubby")
	}
	if boss.ShootingRange <= regular.ShootingRange {
		t.Error("boss shooting range should exceed regular")
	}
}

func TestColorByNameFallback(t *testing.T) {
	if got := ColorByName("no-such-color"); got != colornames.White {
		t.Errorf("unknown names should fall back to white, got %v", got)
	}
}

func TestLoadGameShippedData(t *testing.T) {
	g, err := LoadGame(filepath.Join("..", "..", "data"))
	if err != nil {
		t.Fatalf("shipped data failed to load: %v", err)
	}
	def := DefaultGame()

	if g.Spawn.Waves.EnemiesPerWave != def.Spawn.Waves.EnemiesPerWave {
		t.Errorf("shipped enemiesPerWave %d differs from built-in %d", g.Spawn.Waves.EnemiesPerWave, def.Spawn.Waves.EnemiesPerWave)
	}
	for _, et := range []types.EnemyType{types.EnemyRegular, types.EnemyChubby, types.EnemyThin, types.EnemyBoss} {
		if g.Enemies.MustStats(et) != def.Enemies.MustStats(et) {
			t.Errorf("shipped %s stats differ from built-in table", et)
		}
	}
	if g.Projectiles.Grenade.Explosion != def.Projectiles.Grenade.Explosion {
		t.Errorf("shipped grenade explosion differs from built-in")
	}
	if *g.Player != *def.Player {
		t.Errorf("shipped player config differs from built-in")
	}
	if len(g.Arena.Obstacles) != len(def.Arena.Obstacles) {
		t.Errorf("shipped arena has %d obstacles, built-in %d", len(g.Arena.Obstacles), len(def.Arena.Obstacles))
	}
}

func TestLoadGameMissingDirUsesDefaults(t *testing.T) {
	g, err := LoadGame(t.TempDir())
	if err != nil {
		t.Fatalf("LoadGame on empty dir failed: %v", err)
	}
	if g.Player.MaxHealth != 100 {
		t.Errorf("expected built-in max health 100, got %d", g.Player.MaxHealth)
	}
}

func TestLoadArenaConfigRejectsUnknownShape(t *testing.T) {
	path := writeTempConfig(t, "arena.yaml", `
halfWidth: 10
halfDepth: 10
obstacles:
  - {shape: cone, center: [0, 0], radius: 1}
`)
	_, err := LoadArenaConfig(path)
	if err == nil || !strings.Contains(err.Error(), `unknown shape "cone"`) {
		t.Errorf("expected unknown shape error, got %v", err)
	}
}

func removeLine(s, prefix string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if !strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
