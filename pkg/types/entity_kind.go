package types

// EntityKind tells the rendering collaborator what an entity is.
type EntityKind int

const (
	KindEnemy EntityKind = iota
	KindPlayerBullet
	KindEnemyBullet
	KindGrenade
	KindBossBullet
	KindPickup
	KindObstacle
	KindPlayer
)

func (k EntityKind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindPlayerBullet:
		return "player_bullet"
	case KindEnemyBullet:
		return "enemy_bullet"
	case KindGrenade:
		return "grenade"
	case KindBossBullet:
		return "boss_bullet"
	case KindPickup:
		return "pickup"
	case KindObstacle:
		return "obstacle"
	case KindPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// BulletOwner says who fired a bullet, which decides what it can hit.
type BulletOwner int

const (
	// OwnerPlayer bullets hit enemies.
	OwnerPlayer BulletOwner = iota
	// OwnerEnemy bullets hit the player.
	OwnerEnemy
)

// PickupType is the payload kind of a pickup.
type PickupType int

const (
	PickupUnknown PickupType = iota
	PickupAmmo
	PickupEnergy
	PickupGrenade
)

var pickupTypeStringMap = map[PickupType]string{
	PickupAmmo:    "ammo",
	PickupEnergy:  "energy",
	PickupGrenade: "grenade",
}

// String returns the config-file name of the pickup type.
func (p PickupType) String() string {
	if s, ok := pickupTypeStringMap[p]; ok {
		return s
	}
	return "unknown"
}

// PickupTypeFromString parses a config-file name.
func PickupTypeFromString(s string) PickupType {
	for pt, name := range pickupTypeStringMap {
		if name == s {
			return pt
		}
	}
	return PickupUnknown
}
