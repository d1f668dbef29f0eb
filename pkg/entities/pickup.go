package entities

import (
	"github.com/gonewx/wavearena/pkg/ecs"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/types"
	"github.com/gonewx/wavearena/pkg/utils"
)

// Pickup is a collectible lying in the arena.
type Pickup struct {
	id     ecs.EntityID
	typ    types.PickupType
	pos    utils.Vec3
	amount int
	radius float64
	active bool
}

func (p *Pickup) ID() ecs.EntityID       { return p.id }
func (p *Pickup) Type() types.PickupType { return p.typ }
func (p *Pickup) Position() utils.Vec3   { return p.pos }
func (p *Pickup) Amount() int            { return p.amount }
func (p *Pickup) Radius() float64        { return p.radius }
func (p *Pickup) Active() bool           { return p.active }

// Collect applies the payload to player. Only the first call does anything.
func (p *Pickup) Collect(player game.Player) bool {
	if !p.active {
		return false
	}
	p.active = false
	switch p.typ {
	case types.PickupAmmo:
		player.AddAmmo(p.amount)
	case types.PickupEnergy:
		player.AddHealth(p.amount)
	case types.PickupGrenade:
		player.AddGrenades(p.amount)
	}
	return true
}

// View returns the renderer snapshot.
func (p *Pickup) View() game.EntityView {
	return game.EntityView{
		ID:       p.id,
		Kind:     types.KindPickup,
		Pickup:   p.typ,
		Position: p.pos,
		Radius:   p.radius,
		Scale:    1,
	}
}

// PickupSet holds the pickups currently in the arena. Pickups are few and
// long-lived, so they are not pooled.
type PickupSet struct {
	ids   *ecs.IDAllocator
	items []*Pickup
}

// NewPickupSet creates an empty set sharing the simulation's ID space.
func NewPickupSet(ids *ecs.IDAllocator) *PickupSet {
	if ids == nil {
		ids = ecs.NewIDAllocator()
	}
	return &PickupSet{ids: ids}
}

// Spawn places a pickup carrying amount of typ at pos.
func (s *PickupSet) Spawn(typ types.PickupType, pos utils.Vec3, amount int, radius float64) *Pickup {
	p := &Pickup{
		id:     s.ids.Next(),
		typ:    typ,
		pos:    pos,
		amount: amount,
		radius: radius,
		active: true,
	}
	s.items = append(s.items, p)
	return p
}

// Active returns the pickups that can still be collected.
func (s *PickupSet) Active() []*Pickup { return s.items }

// HasActive reports whether an uncollected pickup of typ exists.
func (s *PickupSet) HasActive(typ types.PickupType) bool {
	for _, p := range s.items {
		if p.active && p.typ == typ {
			return true
		}
	}
	return false
}

// Count returns the number of uncollected pickups.
func (s *PickupSet) Count() int {
	n := 0
	for _, p := range s.items {
		if p.active {
			n++
		}
	}
	return n
}

// Sweep drops collected pickups, calling removed for each one.
func (s *PickupSet) Sweep(removed func(*Pickup)) int {
	kept := s.items[:0]
	n := 0
	for _, p := range s.items {
		if p.active {
			kept = append(kept, p)
			continue
		}
		n++
		if removed != nil {
			removed(p)
		}
	}
	clear(s.items[len(kept):])
	s.items = kept
	return n
}

// Clear removes every pickup.
func (s *PickupSet) Clear(removed func(*Pickup)) {
	for _, p := range s.items {
		p.active = false
	}
	s.Sweep(removed)
}
