// Package ecs provides entity identity and the reusable entity pool.
package ecs

// EntityID uniquely identifies a live entity instance.
// A pooled instance gets a fresh ID every time it is acquired.
type EntityID uint64

// InvalidID is never handed out.
const InvalidID EntityID = 0

// IDAllocator hands out entity IDs. It is shared by every pool of a
// simulation so IDs are unique across entity kinds.
type IDAllocator struct {
	nextID uint64
}

// NewIDAllocator creates an allocator starting at 1; 0 is reserved as invalid.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{nextID: 1}
}

// Next returns a new ID.
func (a *IDAllocator) Next() EntityID {
	if a.nextID == 0 {
		a.nextID = 1
	}
	id := EntityID(a.nextID)
	a.nextID++
	return id
}

// Issued returns the number of IDs handed out so far.
func (a *IDAllocator) Issued() uint64 {
	if a.nextID == 0 {
		return 0
	}
	return a.nextID - 1
}
