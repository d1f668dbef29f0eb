package main

import (
	"github.com/gonewx/wavearena/pkg/entities"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/systems"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

const (
	fireInterval    = 0.15 // seconds between shots
	grenadeInterval = 2.0
	clusterRadius   = 5.0 // enemies this close to the target count as a cluster
	clusterSize     = 3
	kiteDistance    = 9.0 // back off when the nearest enemy is closer
	lowAmmo         = 10
)

// bot plays a session: it strafes around the nearest enemy, backs off when
// crowded, walks to ammo when low, shoots the nearest enemy and throws
// grenades into clusters.
type bot struct {
	sim    *systems.Simulation
	player *game.PlayerState

	fireCooldown    float64
	grenadeCooldown float64
}

func newBot(sim *systems.Simulation, player *game.PlayerState) *bot {
	return &bot{sim: sim, player: player}
}

// tick moves and shoots; call it once before every Step.
func (b *bot) tick(dt float64) {
	if b.sim.GameOver() {
		return
	}
	b.fireCooldown -= dt
	b.grenadeCooldown -= dt

	pos := b.player.Position()
	target, ok := b.nearestEnemy(pos)
	b.player.Move(b.heading(pos, target, ok), dt)
	if !ok {
		return
	}

	aim := target.Position().Sub(b.player.Position())
	b.player.Face(aim)
	if b.fireCooldown <= 0 {
		b.sim.FirePlayerBullet(aim)
		b.fireCooldown = fireInterval
	}
	if b.grenadeCooldown <= 0 && b.clusterAround(target.Position()) >= clusterSize {
		if b.sim.ThrowGrenade(aim) {
			b.grenadeCooldown = grenadeInterval
		}
	}
}

func (b *bot) heading(pos utils.Vec3, target *entities.Enemy, ok bool) utils.Vec3 {
	if b.player.Ammo() < lowAmmo {
		for _, p := range b.sim.Pickups().Active() {
			if p.Type() == types.PickupAmmo {
				return p.Position().Sub(pos)
			}
		}
	}
	if !ok {
		// Drift back to the middle between fights.
		return pos.Neg()
	}
	away := pos.Sub(target.Position())
	if away.Flat().Len() < kiteDistance {
		return away
	}
	return away.PerpFlat()
}

func (b *bot) nearestEnemy(pos utils.Vec3) (*entities.Enemy, bool) {
	var best *entities.Enemy
	bestDist := 0.0
	for _, e := range b.sim.Enemies() {
		if !e.IsActive() {
			continue
		}
		if d := e.Position().FlatDist(pos); best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}

func (b *bot) clusterAround(p utils.Vec3) int {
	n := 0
	for _, e := range b.sim.Enemies() {
		if e.IsActive() && e.Position().FlatDist(p) <= clusterRadius {
			n++
		}
	}
	return n
}
