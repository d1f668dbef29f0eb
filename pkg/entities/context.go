// Package entities implements the per-entity state machines: enemies,
// bullets, grenades, boss bullets, their shared explosion policy and pickups.
package entities

import (
	"math/rand"

	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// Armory creates projectiles on behalf of a shooter.
type Armory interface {
	// FireBullet launches a plain bullet with speed = global speed * speedMultiplier.
	FireBullet(owner types.BulletOwner, origin, dir utils.Vec3, speedMultiplier float64, damage int)
	// FireBossBullet launches an exploding boss bullet.
	FireBossBullet(origin, dir utils.Vec3, speedMultiplier float64, damage int)
}

// Context is what entity state machines read during one tick.
type Context struct {
	Player      game.Player
	Arena       *arena.Arena
	Armory      Armory
	Rng         *rand.Rand
	BulletSpeed float64 // global bullet speed constant
}

// Pools of the pooled entity kinds.
type (
	EnemyPool      = ecs.Pool[*Enemy, EnemyArgs, *Context]
	GrenadePool    = ecs.Pool[*Grenade, GrenadeArgs, *Context]
	BossBulletPool = ecs.Pool[*BossBullet, BossBulletArgs, *Context]
)
