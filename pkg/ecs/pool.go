package ecs

import "log"

// Poolable is an entity that a Pool can recycle.
//
// A is the argument type used to (re)initialize an instance and C is the
// per-tick context passed to Update.
type Poolable[A, C any] interface {
	comparable
	// Reset clears every mutable field and initializes the instance from args.
	Reset(id EntityID, args A)
	// Update advances the instance by dt seconds.
	Update(dt float64, ctx C)
	// Terminated reports whether the instance reached its terminal state.
	Terminated() bool
	// Deactivate stops the instance; it must be safe to call more than once.
	Deactivate()
}

// PoolConfig sizes a pool.
type PoolConfig struct {
	Name     string
	Prealloc int // instances created up front
	Max      int // population cap; beyond it the oldest active instance is repossessed
}

// Pool recycles entity instances.
//
// Instances are partitioned into a free list and an active list ordered by
// acquisition time. Acquire prefers a free instance, then grows the pool up
// to Max, then repossesses the oldest active instance. Release is
// idempotent. Update and Sweep are split so callers can resolve collisions
// between advancing entities and recycling terminated ones.
type Pool[T Poolable[A, C], A, C any] struct {
	name    string
	max     int
	newFn   func() T
	ids     *IDAllocator
	free    []T
	active  []T
	members map[T]bool // every instance ever created -> active
	scratch []T

	steals    int
	verbose   bool
	onAcquire func(T)
	onRelease func(T)
	onSteal   func(T)
}

// NewPool creates a pool that builds instances with newFn.
func NewPool[T Poolable[A, C], A, C any](cfg PoolConfig, ids *IDAllocator, newFn func() T) *Pool[T, A, C] {
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Prealloc > cfg.Max {
		cfg.Prealloc = cfg.Max
	}
	if ids == nil {
		ids = NewIDAllocator()
	}
	p := &Pool[T, A, C]{
		name:    cfg.Name,
		max:     cfg.Max,
		newFn:   newFn,
		ids:     ids,
		free:    make([]T, 0, cfg.Prealloc),
		active:  make([]T, 0, cfg.Prealloc),
		members: make(map[T]bool, cfg.Prealloc),
	}
	for i := 0; i < cfg.Prealloc; i++ {
		e := newFn()
		p.members[e] = false
		p.free = append(p.free, e)
	}
	return p
}

// SetVerbose enables repossession logging.
func (p *Pool[T, A, C]) SetVerbose(v bool) { p.verbose = v }

// OnAcquire registers a hook called after an instance is reset for use.
func (p *Pool[T, A, C]) OnAcquire(fn func(T)) { p.onAcquire = fn }

// OnRelease registers a hook called after an instance returns to the free list.
func (p *Pool[T, A, C]) OnRelease(fn func(T)) { p.onRelease = fn }

// OnSteal registers a hook called before an active instance is repossessed.
func (p *Pool[T, A, C]) OnSteal(fn func(T)) { p.onSteal = fn }

// Acquire returns an instance reset with args. It never fails.
func (p *Pool[T, A, C]) Acquire(args A) T {
	var e T
	switch {
	case len(p.free) > 0:
		last := len(p.free) - 1
		e = p.free[last]
		var zero T
		p.free[last] = zero
		p.free = p.free[:last]
	case len(p.members) < p.max:
		e = p.newFn()
	default:
		e = p.active[0]
		p.removeActive(0)
		p.steals++
		if p.verbose {
			log.Printf("[Pool:%s] capacity %d reached, repossessing oldest instance", p.name, p.max)
		}
		if p.onSteal != nil {
			p.onSteal(e)
		}
		e.Deactivate()
	}

	e.Reset(p.ids.Next(), args)
	p.members[e] = true
	p.active = append(p.active, e)
	if p.onAcquire != nil {
		p.onAcquire(e)
	}
	return e
}

// Release returns e to the free list. Releasing an instance that is not
// active, or that this pool never created, is a no-op.
func (p *Pool[T, A, C]) Release(e T) {
	if !p.members[e] {
		return
	}
	for i, a := range p.active {
		if a == e {
			p.removeActive(i)
			break
		}
	}
	p.members[e] = false
	e.Deactivate()
	p.free = append(p.free, e)
	if p.onRelease != nil {
		p.onRelease(e)
	}
}

// Update advances every instance that is active when the call starts.
// Instances acquired during the pass are not advanced until the next tick.
func (p *Pool[T, A, C]) Update(dt float64, ctx C) {
	p.scratch = append(p.scratch[:0], p.active...)
	for _, e := range p.scratch {
		if p.members[e] && !e.Terminated() {
			e.Update(dt, ctx)
		}
	}
	clear(p.scratch)
}

// Sweep releases every terminated instance and returns how many were released.
func (p *Pool[T, A, C]) Sweep() int {
	released := 0
	for i := 0; i < len(p.active); {
		e := p.active[i]
		if !e.Terminated() {
			i++
			continue
		}
		p.removeActive(i)
		p.members[e] = false
		e.Deactivate()
		p.free = append(p.free, e)
		if p.onRelease != nil {
			p.onRelease(e)
		}
		released++
	}
	return released
}

// UpdateAll advances all active instances, releases the terminated ones and
// returns the ones still active.
func (p *Pool[T, A, C]) UpdateAll(dt float64, ctx C) []T {
	p.Update(dt, ctx)
	p.Sweep()
	return p.Active()
}

// Active returns the active instances, oldest first. The slice is owned by
// the pool and is only valid until the next mutating call.
func (p *Pool[T, A, C]) Active() []T { return p.active }

// ActiveCount returns the number of active instances.
func (p *Pool[T, A, C]) ActiveCount() int { return len(p.active) }

// FreeCount returns the number of idle instances.
func (p *Pool[T, A, C]) FreeCount() int { return len(p.free) }

// Created returns the number of instances ever built.
func (p *Pool[T, A, C]) Created() int { return len(p.members) }

// Steals returns how many times an active instance was repossessed.
func (p *Pool[T, A, C]) Steals() int { return p.steals }

// Name returns the configured pool name.
func (p *Pool[T, A, C]) Name() string { return p.name }

// IsActive reports whether e is currently active in this pool.
func (p *Pool[T, A, C]) IsActive(e T) bool { return p.members[e] }

// ReleaseAll returns every active instance to the free list.
func (p *Pool[T, A, C]) ReleaseAll() {
	for len(p.active) > 0 {
		p.Release(p.active[len(p.active)-1])
	}
}

func (p *Pool[T, A, C]) removeActive(i int) {
	copy(p.active[i:], p.active[i+1:])
	var zero T
	p.active[len(p.active)-1] = zero
	p.active = p.active[:len(p.active)-1]
}
