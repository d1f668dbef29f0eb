// Package types defines the closed variant enums shared across the simulation.
package types

// EnemyType is the behavioural variant of an enemy.
type EnemyType int

const (
	// EnemyUnknown is never spawned; it marks unparsed config values.
	EnemyUnknown EnemyType = iota
	// EnemyRegular is the baseline enemy.
	EnemyRegular
	// EnemyChubby is slow, tanky and inaccurate.
	EnemyChubby
	// EnemyThin is fragile, jittery and accurate.
	EnemyThin
	// EnemyBoss appears at most once per wave from wave 3 on.
	EnemyBoss
)

// SpawnableEnemyTypes lists the variants the wave spawner draws from.
// The boss is triggered separately.
var SpawnableEnemyTypes = []EnemyType{EnemyRegular, EnemyChubby, EnemyThin}

var enemyTypeStringMap = map[EnemyType]string{
	EnemyRegular: "regular",
	EnemyChubby:  "chubby",
	EnemyThin:    "thin",
	EnemyBoss:    "boss",
}

var stringToEnemyTypeMap map[string]EnemyType

func init() {
	stringToEnemyTypeMap = make(map[string]EnemyType, len(enemyTypeStringMap))
	for et, s := range enemyTypeStringMap {
		stringToEnemyTypeMap[s] = et
	}
}

// String returns the config-file name of the variant.
func (e EnemyType) String() string {
	if s, ok := enemyTypeStringMap[e]; ok {
		return s
	}
	return "unknown"
}

// IsBoss reports whether e is the boss variant.
func (e EnemyType) IsBoss() bool {
	return e == EnemyBoss
}

// EnemyTypeFromString parses a config-file name.
// Unknown names map to EnemyUnknown.
func EnemyTypeFromString(s string) EnemyType {
	if et, ok := stringToEnemyTypeMap[s]; ok {
		return et
	}
	return EnemyUnknown
}
