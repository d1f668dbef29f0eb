package ecs

import "testing"

func TestIDAllocatorStartsAtOne(t *testing.T) {
	a := NewIDAllocator()
	id1 := a.Next()
	id2 := a.Next()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}
	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
	if a.Issued() != 2 {
		t.Errorf("Issued() = %d, want 2", a.Issued())
	}
}

func TestIDAllocatorZeroValue(t *testing.T) {
	var a IDAllocator
	if id := a.Next(); id == InvalidID {
		t.Error("zero-value allocator must not hand out the invalid ID")
	}
}

func TestPoolsShareAllocator(t *testing.T) {
	ids := NewIDAllocator()
	newFn := func() *testEntity { return &testEntity{} }
	p1 := NewPool[*testEntity, testArgs, *testCtx](PoolConfig{Name: "a", Max: 2}, ids, newFn)
	p2 := NewPool[*testEntity, testArgs, *testCtx](PoolConfig{Name: "b", Max: 2}, ids, newFn)

	a := p1.Acquire(testArgs{hp: 1})
	b := p2.Acquire(testArgs{hp: 1})

	if a.id == b.id {
		t.Errorf("entities from different pools share ID %d", a.id)
	}
}
