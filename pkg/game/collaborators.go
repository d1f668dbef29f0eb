// Package game holds the state shared between the simulation and its
// collaborators: the contracts for rendering, audio and HUD output, the
// player, wave bookkeeping and persisted run records.
package game

import (
	"image/color"

	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// EntityView is what the renderer needs to draw one entity.
type EntityView struct {
	ID       ecs.EntityID
	Kind     types.EntityKind
	Enemy    types.EnemyType  // KindEnemy only
	Pickup   types.PickupType // KindPickup only
	Position utils.Vec3
	Yaw      float64 // facing around the vertical axis
	Tumble   float64 // accumulated spin while blown away
	Radius   float64
	Scale    float64
	Color    color.RGBA
	Flash    bool // hit flash active
	Markers  int  // attached bullet markers to draw
	Dying    bool
}

// Renderer creates, updates and removes visuals. Every call is
// fire-and-forget; nothing flows back into the simulation.
type Renderer interface {
	// SyncEntity creates or updates the visual for v.ID.
	SyncEntity(v EntityView)
	// SyncBatch replaces all instances of one batched kind.
	SyncBatch(kind types.EntityKind, positions []utils.Vec3)
	// RemoveEntity destroys the visual for id.
	RemoveEntity(id ecs.EntityID)
	// Splatter puts a ground splatter at pos.
	Splatter(pos utils.Vec3, radius float64, c color.RGBA)
	// Decal marks a surface hit at pos facing normal.
	Decal(pos, normal utils.Vec3, radius float64, c color.RGBA)
	// Explosion shows a transient blast.
	Explosion(center utils.Vec3, radius float64)
	// MuzzleFlash shows a shot leaving pos along dir.
	MuzzleFlash(pos, dir utils.Vec3)
}

// Cue is an audio effect.
type Cue int

const (
	CueWeaponFire Cue = iota
	CueEnemyFire
	CueEnemyHit
	CueEnemyDeath
	CueGrenadeBounce
	CueExplosion
	CuePickup
	CuePlayerHurt
	CueWaveStart
	CueBossSpawn
	CueEmpty
)

var cueNames = [...]string{
	CueWeaponFire:    "weapon_fire",
	CueEnemyFire:     "enemy_fire",
	CueEnemyHit:      "enemy_hit",
	CueEnemyDeath:    "enemy_death",
	CueGrenadeBounce: "grenade_bounce",
	CueExplosion:     "explosion",
	CuePickup:        "pickup",
	CuePlayerHurt:    "player_hurt",
	CueWaveStart:     "wave_start",
	CueBossSpawn:     "boss_spawn",
	CueEmpty:         "empty",
}

func (c Cue) String() string {
	if int(c) >= 0 && int(c) < len(cueNames) {
		return cueNames[c]
	}
	return "unknown"
}

// Audio plays cues without blocking.
type Audio interface {
	Play(cue Cue)
}

// AnnouncementKind is a HUD banner.
type AnnouncementKind int

const (
	AnnounceWaveStart AnnouncementKind = iota
	AnnounceWaveComplete
	AnnounceBossSpawned
	AnnounceBossDefeated
	AnnounceGameOver
)

// Announcement is an informational HUD message.
type Announcement struct {
	Kind AnnouncementKind
	Wave int
}

// HUD receives informational banners. The simulation never reads from it.
type HUD interface {
	Announce(a Announcement)
}

// Effects bundles the output collaborators.
type Effects struct {
	Renderer Renderer
	Audio    Audio
	HUD      HUD
}

// WithDefaults replaces nil collaborators with no-ops.
func (e Effects) WithDefaults() Effects {
	if e.Renderer == nil {
		e.Renderer = NopRenderer{}
	}
	if e.Audio == nil {
		e.Audio = NopAudio{}
	}
	if e.HUD == nil {
		e.HUD = NopHUD{}
	}
	return e
}

// NopRenderer discards every request.
type NopRenderer struct{}

func (NopRenderer) SyncEntity(EntityView)                             {}
func (NopRenderer) SyncBatch(types.EntityKind, []utils.Vec3)          {}
func (NopRenderer) RemoveEntity(ecs.EntityID)                         {}
func (NopRenderer) Splatter(utils.Vec3, float64, color.RGBA)          {}
func (NopRenderer) Decal(utils.Vec3, utils.Vec3, float64, color.RGBA) {}
func (NopRenderer) Explosion(utils.Vec3, float64)                     {}
func (NopRenderer) MuzzleFlash(utils.Vec3, utils.Vec3)                {}

// NopAudio discards every cue.
type NopAudio struct{}

func (NopAudio) Play(Cue) {}

// NopHUD discards every announcement.
type NopHUD struct{}

func (NopHUD) Announce(Announcement) {}
