package entities

import (
	"math"
	"math/rand"

	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// EnemyState is the lifecycle state of an enemy.
type EnemyState int

const (
	EnemyActive EnemyState = iota
	EnemyDying
	EnemyBlownAway
	EnemyInactive
)

func (s EnemyState) String() string {
	switch s {
	case EnemyActive:
		return "active"
	case EnemyDying:
		return "dying"
	case EnemyBlownAway:
		return "blown_away"
	default:
		return "inactive"
	}
}

// MoveState is the movement decision of an active enemy.
type MoveState int

const (
	MoveSeeking MoveState = iota
	MoveRetreating
	MoveStrafing
)

// EnemyArgs initializes a pooled enemy.
type EnemyArgs struct {
	Type               types.EnemyType
	Position           utils.Vec3
	Stats              config.EnemyStats
	Behavior           *config.EnemyBehavior
	SpeedMultiplier    float64
	FireRateMultiplier float64
	Listener           game.WaveEvents
	Effects            game.Effects
	Rng                *rand.Rand
	MaxMarkers         int // visual markers kept for rendering
}

// Enemy runs the shared enemy state machine. Variant differences come
// entirely from its stats row.
type Enemy struct {
	id       ecs.EntityID
	typ      types.EnemyType
	stats    config.EnemyStats
	behavior *config.EnemyBehavior
	fx       game.Effects
	rng      *rand.Rand
	listener game.WaveEvents

	pos      utils.Vec3
	yaw      float64
	health   int
	speed    float64
	cooldown float64
	state    EnemyState
	move     MoveState
	strafe   float64 // +1 or -1

	sinceShot  float64
	flashTimer float64
	markers    int
	visMarkers int
	maxMarkers int

	dyingTimer float64
	burstsLeft int

	vel        utils.Vec3
	tumble     float64
	tumbleRate float64

	reported bool
	shots    int
	attempts int
}

// NewEnemy returns an inactive enemy for a pool.
func NewEnemy() *Enemy {
	return &Enemy{state: EnemyInactive}
}

// Reset implements ecs.Poolable.
func (e *Enemy) Reset(id ecs.EntityID, a EnemyArgs) {
	speedMul := a.SpeedMultiplier
	if speedMul <= 0 {
		speedMul = 1
	}
	fireMul := a.FireRateMultiplier
	if fireMul <= 0 {
		fireMul = 1
	}
	behavior := a.Behavior
	if behavior == nil {
		behavior = &config.DefaultEnemyStats().Behavior
	}
	rng := a.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(int64(id)))
	}

	*e = Enemy{
		id:         id,
		typ:        a.Type,
		stats:      a.Stats,
		behavior:   behavior,
		fx:         a.Effects.WithDefaults(),
		rng:        rng,
		listener:   a.Listener,
		pos:        utils.V3(a.Position.X, 0, a.Position.Z),
		health:     a.Stats.Health,
		speed:      a.Stats.Speed * speedMul,
		cooldown:   a.Stats.ShootCooldown / fireMul,
		state:      EnemyActive,
		move:       MoveSeeking,
		strafe:     1,
		maxMarkers: a.MaxMarkers,
	}
	if rng.Intn(2) == 0 {
		e.strafe = -1
	}
	// Stagger the first shot so a group spawned together does not fire in unison.
	e.sinceShot = rng.Float64() * e.cooldown * 0.5
}

// Update implements ecs.Poolable.
func (e *Enemy) Update(dt float64, ctx *Context) {
	if e.flashTimer > 0 {
		e.flashTimer = math.Max(e.flashTimer-dt, 0)
	}
	switch e.state {
	case EnemyActive:
		e.updateActive(dt, ctx)
	case EnemyDying:
		e.updateDying(dt)
	case EnemyBlownAway:
		e.updateBlownAway(dt, ctx)
	}
}

func (e *Enemy) updateActive(dt float64, ctx *Context) {
	toPlayer := ctx.Player.Position().Flat().Sub(e.pos.Flat())
	dist := toPlayer.Len()
	dir, ok := toPlayer.Normalize()
	if !ok {
		// Coincident with the player: no usable direction this tick.
		return
	}

	e.sinceShot += dt
	if e.sinceShot >= e.cooldown && e.CanFireAt(dist) {
		e.sinceShot = 0
		e.attempts++
		if e.rng.Float64() < e.behavior.FireChance {
			e.fire(ctx, dir)
		}
	}

	moveDir, ok := e.movementDirection(dir, dist)
	if !ok {
		return
	}
	next := e.pos.Add(moveDir.Scale(e.speed * dt))
	if !next.IsFinite() {
		return
	}
	e.pos = next
	e.yaw = dir.Yaw()
}

// CanFireAt reports whether the distance gates allow a shot.
func (e *Enemy) CanFireAt(dist float64) bool {
	return dist >= e.stats.OptimalDistance*e.behavior.TooCloseFactor && dist <= e.stats.ShootingRange
}

// movementDirection arbitrates between retreating, seeking and strafing
// around the optimal distance, then adds variant jitter.
func (e *Enemy) movementDirection(dir utils.Vec3, dist float64) (utils.Vec3, bool) {
	perp := dir.PerpFlat().Scale(e.strafe)
	var move utils.Vec3
	switch {
	case dist < e.stats.OptimalDistance-e.behavior.RetreatMargin:
		e.move = MoveRetreating
		move = dir.Neg().Add(perp.Scale(e.stats.StrafeBias))
	case dist > e.stats.OptimalDistance+e.behavior.AdvanceMargin:
		e.move = MoveSeeking
		move = dir.Add(perp.Scale(e.stats.StrafeBias))
	default:
		e.move = MoveStrafing
		if e.rng.Float64() < e.behavior.StrafeFlipChance {
			e.strafe = -e.strafe
			perp = perp.Neg()
		}
		move = perp
	}
	if j := e.stats.Jitter; j > 0 {
		move = move.Add(utils.V3((e.rng.Float64()*2-1)*j, 0, (e.rng.Float64()*2-1)*j))
	}
	return move.Normalize()
}

func (e *Enemy) fire(ctx *Context, dir utils.Vec3) {
	origin := e.pos.Add(dir.Scale(e.stats.HitRadius * 0.5))
	origin.Y = e.behavior.MuzzleHeight
	speed := ctx.BulletSpeed * e.stats.BulletSpeed

	target := ctx.Player.Position()
	target.Y = origin.Y
	aimPoint := PredictAim(origin, target, ctx.Player.Velocity().Flat(), speed, e.behavior.AimLeadFactor)
	aimDir, ok := aimPoint.Sub(origin).Flat().Normalize()
	if !ok {
		aimDir = dir
	}
	aimDir, ok = JitterDirection(aimDir, e.stats.AimSpread, e.rng)
	if !ok {
		return
	}

	if e.stats.BossBullets {
		ctx.Armory.FireBossBullet(origin, aimDir, e.stats.BulletSpeed, e.stats.BulletDamage)
	} else {
		ctx.Armory.FireBullet(types.OwnerEnemy, origin, aimDir, e.stats.BulletSpeed, e.stats.BulletDamage)
	}
	e.shots++
	e.fx.Renderer.MuzzleFlash(origin, aimDir)
	e.fx.Audio.Play(game.CueEnemyFire)
}

func (e *Enemy) updateDying(dt float64) {
	e.dyingTimer -= dt
	if e.dyingTimer > 0 {
		return
	}
	e.fx.Renderer.Explosion(e.pos, e.behavior.DeathBurstRadius)
	e.fx.Audio.Play(game.CueExplosion)
	e.burstsLeft--
	if e.burstsLeft > 0 {
		e.dyingTimer = e.behavior.DyingBurstInterval
		return
	}
	e.fx.Renderer.Splatter(e.pos, e.stats.HitRadius*1.5, e.stats.RGBA())
	e.fx.Audio.Play(game.CueEnemyDeath)
	e.terminate()
}

func (e *Enemy) updateBlownAway(dt float64, ctx *Context) {
	e.vel.Y -= e.behavior.BlowGravity * dt
	e.pos = e.pos.Add(e.vel.Scale(dt))
	e.tumble += e.tumbleRate * dt
	if ctx.Arena != nil {
		e.pos = ctx.Arena.ClampToBounds(e.pos, e.stats.HitRadius*0.5)
	}
	if e.pos.Y <= 0 && e.vel.Y <= 0 {
		e.pos.Y = 0
		e.fx.Renderer.Splatter(e.pos, e.stats.HitRadius*1.5, e.stats.RGBA())
		e.fx.Audio.Play(game.CueEnemyDeath)
		e.terminate()
	}
}

// TakeDamage applies damage while the enemy is active. Every hit flashes;
// when canDie and health runs out the enemy dies, through the multi-stage
// sequence if enough markers are attached (always for the boss).
func (e *Enemy) TakeDamage(amount int, canDie bool) {
	if e.state != EnemyActive || amount <= 0 {
		return
	}
	e.health -= amount
	e.flashTimer = e.behavior.HitFlashDuration
	e.fx.Audio.Play(game.CueEnemyHit)
	if !canDie || e.health > 0 {
		return
	}

	if e.markers >= e.behavior.MarkerGate || e.typ.IsBoss() || e.stats.DeathBursts > 1 {
		e.state = EnemyDying
		e.dyingTimer = e.behavior.DyingDelay
		e.burstsLeft = max(e.stats.DeathBursts, 1)
		return
	}
	e.fx.Renderer.Splatter(e.pos, e.stats.HitRadius*1.5, e.stats.RGBA())
	e.fx.Audio.Play(game.CueEnemyDeath)
	e.terminate()
}

// AttachMarker records a projectile hit. visual is false for bullets that
// register the hit without embedding.
func (e *Enemy) AttachMarker(visual bool) {
	if e.state != EnemyActive {
		return
	}
	e.markers++
	if visual && e.visMarkers < e.maxMarkers {
		e.visMarkers++
	}
}

// BlowAway launches the enemy away from an explosion. It is only honored
// while active. A degenerate direction picks a random one.
func (e *Enemy) BlowAway(direction utils.Vec3, strength float64) bool {
	if e.state != EnemyActive || strength <= 0 {
		return false
	}
	dir, ok := direction.Flat().Normalize()
	if !ok {
		a := e.rng.Float64() * 2 * math.Pi
		dir = utils.V3(math.Sin(a), 0, math.Cos(a))
	}
	e.vel = dir.Scale(strength)
	e.vel.Y = strength * e.behavior.BlowUpFactor
	e.tumbleRate = (e.rng.Float64()*2 - 1) * e.behavior.MaxTumbleRate
	e.state = EnemyBlownAway
	return true
}

// terminate moves to the terminal state and reports the defeat once.
func (e *Enemy) terminate() {
	e.state = EnemyInactive
	if !e.reported {
		e.reported = true
		if e.listener != nil {
			e.listener.OnEnemyDefeated(e.typ)
		}
	}
}

// Terminated implements ecs.Poolable.
func (e *Enemy) Terminated() bool { return e.state == EnemyInactive }

// Deactivate implements ecs.Poolable. It does not count as a defeat.
func (e *Enemy) Deactivate() { e.state = EnemyInactive }

// SetPosition applies a positional correction on the ground plane.
func (e *Enemy) SetPosition(p utils.Vec3) {
	if p.IsFinite() {
		e.pos.X, e.pos.Z = p.X, p.Z
	}
}

func (e *Enemy) ID() ecs.EntityID         { return e.id }
func (e *Enemy) Type() types.EnemyType    { return e.typ }
func (e *Enemy) Position() utils.Vec3     { return e.pos }
func (e *Enemy) Health() int              { return e.health }
func (e *Enemy) State() EnemyState        { return e.state }
func (e *Enemy) Move() MoveState          { return e.move }
func (e *Enemy) Markers() int             { return e.markers }
func (e *Enemy) HitRadius() float64       { return e.stats.HitRadius }
func (e *Enemy) Stats() config.EnemyStats { return e.stats }
func (e *Enemy) Speed() float64           { return e.speed }
func (e *Enemy) Cooldown() float64        { return e.cooldown }
func (e *Enemy) Shots() int               { return e.shots }
func (e *Enemy) FireAttempts() int        { return e.attempts }
func (e *Enemy) Flashing() bool           { return e.flashTimer > 0 }

// IsActive reports whether the enemy runs its normal AI and can be hit.
func (e *Enemy) IsActive() bool { return e.state == EnemyActive }

// View returns the renderer snapshot.
func (e *Enemy) View() game.EntityView {
	return game.EntityView{
		ID:       e.id,
		Kind:     types.KindEnemy,
		Enemy:    e.typ,
		Position: e.pos,
		Yaw:      e.yaw,
		Tumble:   e.tumble,
		Radius:   e.stats.HitRadius,
		Scale:    e.stats.Scale,
		Color:    e.stats.RGBA(),
		Flash:    e.flashTimer > 0,
		Markers:  e.visMarkers,
		Dying:    e.state == EnemyDying || e.state == EnemyBlownAway,
	}
}
