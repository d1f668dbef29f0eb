package entities

import (
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// Host is something a bullet can embed into.
type Host interface {
	ID() ecs.EntityID
	Position() utils.Vec3
	Terminated() bool
}

// BulletArgs initializes a pooled bullet.
type BulletArgs struct {
	Owner      types.BulletOwner
	Origin     utils.Vec3
	Dir        utils.Vec3 // normalized
	Speed      float64
	MaxRange   float64
	Radius     float64
	Damage     int
	Attachable bool // embeds into the enemy it hits instead of vanishing
}

// Bullet is the logical state of one plain bullet. Rendering is batched
// per owner; nothing here depends on how bullets are drawn.
type Bullet struct {
	id         ecs.EntityID
	owner      types.BulletOwner
	pos        utils.Vec3
	dir        utils.Vec3
	speed      float64
	traveled   float64
	maxRange   float64
	radius     float64
	damage     int
	attachable bool

	attached bool
	host     Host
	hostID   ecs.EntityID
	offset   utils.Vec3

	active bool
}

// NewBullet returns an inactive bullet for a pool.
func NewBullet() *Bullet { return &Bullet{} }

// Reset implements ecs.Poolable.
func (b *Bullet) Reset(id ecs.EntityID, a BulletArgs) {
	*b = Bullet{
		id:         id,
		owner:      a.Owner,
		pos:        a.Origin,
		dir:        a.Dir,
		speed:      a.Speed,
		maxRange:   a.MaxRange,
		radius:     a.Radius,
		damage:     a.Damage,
		attachable: a.Attachable,
		active:     true,
	}
}

// Update implements ecs.Poolable. An embedded bullet follows its host and
// goes away with it; a free bullet flies until it exceeds its range.
func (b *Bullet) Update(dt float64, _ *Context) {
	if !b.active {
		return
	}
	if b.attached {
		if b.host == nil || b.host.Terminated() || b.host.ID() != b.hostID {
			b.Deactivate()
			return
		}
		b.pos = b.host.Position().Add(b.offset)
		return
	}
	step := b.speed * dt
	next := b.pos.Add(b.dir.Scale(step))
	if !next.IsFinite() {
		b.Deactivate()
		return
	}
	b.pos = next
	b.traveled += step
	if b.traveled > b.maxRange {
		b.Deactivate()
	}
}

// Hit resolves a confirmed hit on host. An attachable bullet embeds and
// stops moving for good; any other bullet deactivates. It returns whether
// the bullet embedded.
func (b *Bullet) Hit(host Host) bool {
	if !b.active || b.attached {
		return false
	}
	if !b.attachable || host == nil {
		b.Deactivate()
		return false
	}
	b.attached = true
	b.host = host
	b.hostID = host.ID()
	b.offset = b.pos.Sub(host.Position())
	return true
}

// Terminated implements ecs.Poolable.
func (b *Bullet) Terminated() bool { return !b.active }

// Deactivate implements ecs.Poolable.
func (b *Bullet) Deactivate() {
	b.active = false
	b.host = nil
}

func (b *Bullet) ID() ecs.EntityID         { return b.id }
func (b *Bullet) Owner() types.BulletOwner { return b.owner }
func (b *Bullet) Position() utils.Vec3     { return b.pos }
func (b *Bullet) Direction() utils.Vec3    { return b.dir }
func (b *Bullet) Speed() float64           { return b.speed }
func (b *Bullet) Traveled() float64        { return b.traveled }
func (b *Bullet) Radius() float64          { return b.radius }
func (b *Bullet) Damage() int              { return b.damage }
func (b *Bullet) Attachable() bool         { return b.attachable }
func (b *Bullet) Attached() bool           { return b.attached }
func (b *Bullet) Active() bool             { return b.active }

// Flying reports whether the bullet still moves and can hit something.
func (b *Bullet) Flying() bool { return b.active && !b.attached }

// BulletBatch is the pool of plain bullets for both owners.
type BulletBatch struct {
	pool      *ecs.Pool[*Bullet, BulletArgs, *Context]
	positions map[types.BulletOwner][]utils.Vec3
}

// NewBulletBatch creates the bullet pool.
func NewBulletBatch(c config.PoolCap, ids *ecs.IDAllocator) *BulletBatch {
	return &BulletBatch{
		pool: ecs.NewPool[*Bullet, BulletArgs, *Context](
			ecs.PoolConfig{Name: config.PoolBullets, Prealloc: c.Prealloc, Max: c.Max},
			ids, NewBullet),
		positions: make(map[types.BulletOwner][]utils.Vec3, 2),
	}
}

// Fire launches a bullet. When the pool is full the oldest bullet is
// repossessed.
func (bb *BulletBatch) Fire(a BulletArgs) *Bullet {
	return bb.pool.Acquire(a)
}

// Update advances every bullet.
func (bb *BulletBatch) Update(dt float64, ctx *Context) { bb.pool.Update(dt, ctx) }

// Sweep frees the slots of deactivated bullets.
func (bb *BulletBatch) Sweep() int { return bb.pool.Sweep() }

// Active returns the live bullets, oldest first.
func (bb *BulletBatch) Active() []*Bullet { return bb.pool.Active() }

func (bb *BulletBatch) ActiveCount() int { return bb.pool.ActiveCount() }

// Pool exposes the underlying pool for instrumentation.
func (bb *BulletBatch) Pool() *ecs.Pool[*Bullet, BulletArgs, *Context] { return bb.pool }

// Count returns the live bullets fired by owner.
func (bb *BulletBatch) Count(owner types.BulletOwner) int {
	n := 0
	for _, b := range bb.pool.Active() {
		if b.owner == owner && b.active {
			n++
		}
	}
	return n
}

// Sync pushes one instanced batch per owner to the renderer.
func (bb *BulletBatch) Sync(r game.Renderer) {
	player := bb.positions[types.OwnerPlayer][:0]
	enemy := bb.positions[types.OwnerEnemy][:0]
	for _, b := range bb.pool.Active() {
		if !b.active {
			continue
		}
		if b.owner == types.OwnerPlayer {
			player = append(player, b.pos)
		} else {
			enemy = append(enemy, b.pos)
		}
	}
	bb.positions[types.OwnerPlayer] = player
	bb.positions[types.OwnerEnemy] = enemy
	r.SyncBatch(types.KindPlayerBullet, player)
	r.SyncBatch(types.KindEnemyBullet, enemy)
}
