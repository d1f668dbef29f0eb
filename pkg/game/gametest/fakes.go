// Package gametest provides recording fakes of the game collaborators.
package gametest

import (
	"image/color"

	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// ExplosionCall records one Explosion request.
type ExplosionCall struct {
	Center utils.Vec3
	Radius float64
}

// SplatterCall records one Splatter request.
type SplatterCall struct {
	Pos    utils.Vec3
	Radius float64
	Color  color.RGBA
}

// DecalCall records one Decal request.
type DecalCall struct {
	Pos, Normal utils.Vec3
	Radius      float64
}

// Renderer records every request it receives.
type Renderer struct {
	Views         map[ecs.EntityID]game.EntityView
	Removed       []ecs.EntityID
	Batches       map[types.EntityKind][]utils.Vec3
	Splatters     []SplatterCall
	Decals        []DecalCall
	Explosions    []ExplosionCall
	MuzzleFlashes int
}

// NewRenderer returns an empty recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		Views:   make(map[ecs.EntityID]game.EntityView),
		Batches: make(map[types.EntityKind][]utils.Vec3),
	}
}

func (r *Renderer) SyncEntity(v game.EntityView) { r.Views[v.ID] = v }

func (r *Renderer) SyncBatch(kind types.EntityKind, positions []utils.Vec3) {
	r.Batches[kind] = append([]utils.Vec3(nil), positions...)
}

func (r *Renderer) RemoveEntity(id ecs.EntityID) {
	delete(r.Views, id)
	r.Removed = append(r.Removed, id)
}

func (r *Renderer) Splatter(pos utils.Vec3, radius float64, c color.RGBA) {
	r.Splatters = append(r.Splatters, SplatterCall{Pos: pos, Radius: radius, Color: c})
}

func (r *Renderer) Decal(pos, normal utils.Vec3, radius float64, _ color.RGBA) {
	r.Decals = append(r.Decals, DecalCall{Pos: pos, Normal: normal, Radius: radius})
}

func (r *Renderer) Explosion(center utils.Vec3, radius float64) {
	r.Explosions = append(r.Explosions, ExplosionCall{Center: center, Radius: radius})
}

func (r *Renderer) MuzzleFlash(utils.Vec3, utils.Vec3) { r.MuzzleFlashes++ }

// CountKind returns how many live views have kind.
func (r *Renderer) CountKind(kind types.EntityKind) int {
	n := 0
	for _, v := range r.Views {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Audio records played cues.
type Audio struct {
	Cues []game.Cue
}

func (a *Audio) Play(cue game.Cue) { a.Cues = append(a.Cues, cue) }

// Count returns how many times cue was played.
func (a *Audio) Count(cue game.Cue) int {
	n := 0
	for _, c := range a.Cues {
		if c == cue {
			n++
		}
	}
	return n
}

// HUD records announcements.
type HUD struct {
	Announcements []game.Announcement
}

func (h *HUD) Announce(a game.Announcement) { h.Announcements = append(h.Announcements, a) }

// Count returns how many announcements of kind were made.
func (h *HUD) Count(kind game.AnnouncementKind) int {
	n := 0
	for _, a := range h.Announcements {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Effects returns a bundle of fresh recording fakes.
func Effects() (game.Effects, *Renderer, *Audio, *HUD) {
	r, a, h := NewRenderer(), &Audio{}, &HUD{}
	return game.Effects{Renderer: r, Audio: a, HUD: h}, r, a, h
}

// Player is a scriptable game.Player.
type Player struct {
	Pos, Vel utils.Vec3
	R        float64
	HP       int
	AmmoN    int
	Nades    int
	Damage   []int // every TakeDamage amount
}

// NewPlayer returns a healthy player at pos.
func NewPlayer(pos utils.Vec3) *Player {
	return &Player{Pos: pos, R: 0.8, HP: 100, AmmoN: 50, Nades: 2}
}

func (p *Player) Position() utils.Vec3     { return p.Pos }
func (p *Player) SetPosition(v utils.Vec3) { p.Pos = v }
func (p *Player) Velocity() utils.Vec3     { return p.Vel }
func (p *Player) Radius() float64          { return p.R }
func (p *Player) Alive() bool              { return p.HP > 0 }
func (p *Player) Health() int              { return p.HP }
func (p *Player) Ammo() int                { return p.AmmoN }
func (p *Player) Grenades() int            { return p.Nades }

func (p *Player) TakeDamage(amount int) {
	p.Damage = append(p.Damage, amount)
	p.HP = max(p.HP-amount, 0)
}

func (p *Player) AddHealth(n int)   { p.HP += n }
func (p *Player) AddAmmo(n int)     { p.AmmoN += n }
func (p *Player) AddGrenades(n int) { p.Nades += n }

func (p *Player) UseAmmo() bool {
	if p.AmmoN <= 0 {
		return false
	}
	p.AmmoN--
	return true
}

func (p *Player) UseGrenade() bool {
	if p.Nades <= 0 {
		return false
	}
	p.Nades--
	return true
}

// DefeatLog records WaveEvents.
type DefeatLog struct {
	Defeated []types.EnemyType
}

func (d *DefeatLog) OnEnemyDefeated(t types.EnemyType) { d.Defeated = append(d.Defeated, t) }
