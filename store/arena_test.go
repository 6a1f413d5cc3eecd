package store

import (
	"testing"

	"github.com/daicang/ordmap/kv"
	"github.com/daicang/ordmap/tree"
)

func TestArenaReserveAssignGet(t *testing.T) {
	a := New[int, string, struct{}](4, 4)

	id, leaf := a.NewLeaf()
	leaf.Upsert(kv.Ordered[int](), 4, 1, "v")

	got := a.GetLeaf(id)
	if got.Size() != 1 {
		t.Fatalf("GetLeaf: expect size 1, get %d", got.Size())
	}
}

func TestArenaFreeLeafReusesIndex(t *testing.T) {
	a := New[int, string, struct{}](4, 4)

	id1, _ := a.NewLeaf()
	a.FreeLeaf(id1)
	id2, _ := a.NewLeaf()

	if id1 != id2 {
		t.Errorf("freed index not reused: id1=%v id2=%v", id1, id2)
	}
}

func TestArenaCacheHitAndMiss(t *testing.T) {
	a := New[int, string, struct{}](4, 4)
	less := kv.Ordered[int]()

	id, leaf := a.NewLeaf()
	leaf.Upsert(less, 4, 10, "v")
	leaf.Upsert(less, 4, 20, "v")

	a.CacheLeaf(id)

	if _, ok := a.TryCache(less, 15); !ok {
		t.Errorf("TryCache(15): expect hit within [10, 20]")
	}
	if _, ok := a.TryCache(less, 25); ok {
		t.Errorf("TryCache(25): expect miss outside [10, 20]")
	}

	a.InvalidateCache()
	if _, ok := a.TryCache(less, 15); ok {
		t.Errorf("TryCache after InvalidateCache: expect miss")
	}
}

func TestArenaFreeInvalidatesMatchingCache(t *testing.T) {
	a := New[int, string, struct{}](4, 4)
	less := kv.Ordered[int]()

	id, leaf := a.NewLeaf()
	leaf.Upsert(less, 4, 10, "v")
	a.CacheLeaf(id)
	a.FreeLeaf(id)

	if _, ok := a.TryCache(less, 10); ok {
		t.Errorf("TryCache after FreeLeaf: expect miss")
	}
}

func TestArenaFanoutReporting(t *testing.T) {
	a := New[int, string, struct{}](7, 9)
	if a.InnerFanout() != 7 {
		t.Errorf("InnerFanout(): expect 7, get %d", a.InnerFanout())
	}
	if a.LeafFanout() != 9 {
		t.Errorf("LeafFanout(): expect 9, get %d", a.LeafFanout())
	}
}

var _ tree.Store[int, string, struct{}] = New[int, string, struct{}](4, 4)
