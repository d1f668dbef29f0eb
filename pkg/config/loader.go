package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gonewx/wavearena/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// Default file names inside the data directory.
const (
	EnemyStatsFile  = "enemy_stats.yaml"
	ProjectilesFile = "projectiles.yaml"
	SpawnRulesFile  = "spawn_rules.yaml"
	ArenaFile       = "arena.yaml"
	PlayerFile      = "player.yaml"

	// DefaultDataDir is the embedded data directory.
	DefaultDataDir = "data"
)

// readConfigFile reads from the embedded data directory when the path lives
// there and the file is embedded, otherwise from disk.
func readConfigFile(path string) ([]byte, error) {
	if embedded.IsInitialized() && embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

// loadYAML reads and unmarshals one config file.
func loadYAML(path string, out interface{}) error {
	data, err := readConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return nil
}

// Game bundles every tuning table the simulation reads.
type Game struct {
	Enemies     *EnemyStatsConfig
	Projectiles *ProjectileConfig
	Spawn       *SpawnRulesConfig
	Arena       *ArenaConfig
	Player      *PlayerConfig
}

// DefaultGame returns the built-in tables. They match the files shipped in data/.
func DefaultGame() *Game {
	return &Game{
		Enemies:     DefaultEnemyStats(),
		Projectiles: DefaultProjectileConfig(),
		Spawn:       DefaultSpawnRules(),
		Arena:       DefaultArenaConfig(),
		Player:      DefaultPlayerConfig(),
	}
}

// LoadGame loads every table from dir.
//
// A missing file falls back to the built-in table with a warning; a file
// that exists but fails to parse or validate is an error.
func LoadGame(dir string) (*Game, error) {
	g := DefaultGame()

	type entry struct {
		file string
		load func(path string) error
	}
	entries := []entry{
		{EnemyStatsFile, func(p string) (err error) { g.Enemies, err = LoadEnemyStats(p); return }},
		{ProjectilesFile, func(p string) (err error) { g.Projectiles, err = LoadProjectileConfig(p); return }},
		{SpawnRulesFile, func(p string) (err error) { g.Spawn, err = LoadSpawnRules(p); return }},
		{ArenaFile, func(p string) (err error) { g.Arena, err = LoadArenaConfig(p); return }},
		{PlayerFile, func(p string) (err error) { g.Player, err = LoadPlayerConfig(p); return }},
	}

	for _, e := range entries {
		path := filepath.ToSlash(filepath.Join(dir, e.file))
		if !configExists(path) {
			log.Printf("[Config] %s not found, using built-in defaults", path)
			continue
		}
		if err := e.load(path); err != nil {
			return nil, err
		}
		log.Printf("[Config] Loaded %s", path)
	}
	return g, nil
}

func configExists(path string) bool {
	if embedded.IsInitialized() && embedded.Exists(path) {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}
