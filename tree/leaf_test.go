package tree

import (
	"fmt"
	"testing"

	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/kv"
)

func intLess() kv.Less[int] { return kv.Ordered[int]() }

func TestLeafUpsertInsertsInOrder(t *testing.T) {
	less := intLess()
	l := newLeaf[int, string]()

	for _, k := range []int{5, 1, 3, 2, 4} {
		res := l.Upsert(less, 10, k, "v")
		if res.Kind != Inserted {
			t.Fatalf("Upsert(%d): expect Inserted, get %v", k, res.Kind)
		}
	}

	want := []int{1, 2, 3, 4, 5}
	if l.Size() != len(want) {
		t.Fatalf("Size(): expect %d, get %d", len(want), l.Size())
	}
	for i, k := range want {
		if l.Keys()[i] != k {
			t.Errorf("Keys()[%d]: expect %d, get %d", i, k, l.Keys()[i])
		}
	}
}

func TestLeafUpsertUpdatesExisting(t *testing.T) {
	less := intLess()
	l := newLeaf[int, string]()
	l.Upsert(less, 10, 1, "first")

	res := l.Upsert(less, 10, 1, "second")
	if res.Kind != Updated {
		t.Fatalf("Upsert: expect Updated, get %v", res.Kind)
	}
	if res.Prev != "first" {
		t.Errorf("Prev: expect %q, get %q", "first", res.Prev)
	}
	if l.Values()[0] != "second" {
		t.Errorf("Values()[0]: expect %q, get %q", "second", l.Values()[0])
	}
}

func TestLeafUpsertFullReportsLeafFull(t *testing.T) {
	less := intLess()
	l := newLeaf[int, string]()
	for i := 0; i < 4; i++ {
		l.Upsert(less, 4, i, "v")
	}

	res := l.Upsert(less, 4, 10, "v")
	if res.Kind != LeafFull {
		t.Fatalf("Upsert: expect LeafFull, get %v", res.Kind)
	}
	if res.Idx != 4 {
		t.Errorf("Idx: expect 4, get %d", res.Idx)
	}
}

func TestLeafDeleteUnderSize(t *testing.T) {
	less := intLess()
	l := newLeaf[int, string]()
	l.Upsert(less, 10, 1, "a")
	l.Upsert(less, 10, 2, "b")

	res := l.Delete(less, 2, 1)
	if res.Kind != UnderSize {
		t.Fatalf("Delete: expect UnderSize, get %v", res.Kind)
	}
	if res.Idx != 0 {
		t.Errorf("Idx: expect 0, get %d", res.Idx)
	}
	// Delete must not have mutated the leaf when reporting UnderSize.
	if l.Size() != 2 {
		t.Errorf("Size() after UnderSize report: expect 2, get %d", l.Size())
	}
}

func TestLeafSplitNewLeaf(t *testing.T) {
	less := intLess()
	l := newLeaf[int, string]()
	for _, k := range []int{1, 2, 3, 4} {
		l.Upsert(less, 4, k, "v")
	}

	selfID := common.LeafId(0)
	newID := common.LeafId(1)
	right := l.SplitNewLeaf(4, 4, 5, "v", selfID, newID)

	if l.Size()+right.Size() != 5 {
		t.Fatalf("total size after split: expect 5, get %d", l.Size()+right.Size())
	}
	if l.Next() != newID {
		t.Errorf("l.Next(): expect %v, get %v", newID, l.Next())
	}
	if right.Prev() != selfID {
		t.Errorf("right.Prev(): expect %v, get %v", selfID, right.Prev())
	}
	first, last, _ := right.KeyRange()
	if first > last {
		t.Errorf("right key range disordered: %d > %d", first, last)
	}
	for i := 1; i < l.Size(); i++ {
		if !less(l.Keys()[i-1], l.Keys()[i]) {
			t.Errorf("left half not sorted at %d", i)
		}
	}
}

// TestLeafSplitNewLeafAllInsertionSlots inserts 0..4 at every possible
// insertion slot of a full 4-entry leaf, checking the split point lands
// at half the fanout and the new key ends up in the correct half every
// time.
func TestLeafSplitNewLeafAllInsertionSlots(t *testing.T) {
	less := intLess()
	all := []int{0, 1, 2, 3, 4}

	for newKeyPos := 0; newKeyPos < len(all); newKeyPos++ {
		newKeyPos := newKeyPos
		t.Run(fmt.Sprintf("newKeyAtRank%d", newKeyPos), func(t *testing.T) {
			newKey := all[newKeyPos]

			l := newLeaf[int, string]()
			base := make([]int, 0, 4)
			for i, k := range all {
				if i == newKeyPos {
					continue
				}
				base = append(base, k)
			}
			for _, k := range base {
				l.Upsert(less, 4, k, "v")
			}

			found, insertIdx := l.locateSlot(less, newKey)
			if found {
				t.Fatalf("newKey %d unexpectedly already present", newKey)
			}

			selfID := common.LeafId(0)
			newID := common.LeafId(1)
			right := l.SplitNewLeaf(4, insertIdx, newKey, "v", selfID, newID)

			wantSplit := 4 / 2
			if got := l.Size() + right.Size(); got != 5 {
				t.Fatalf("total size after split: expect 5, get %d", got)
			}

			allKeys := append(append([]int{}, l.Keys()...), right.Keys()...)
			for i, k := range all {
				if allKeys[i] != k {
					t.Fatalf("merged keys out of order: expect %v, get %v", all, allKeys)
				}
			}

			if insertIdx >= wantSplit {
				found, _ := right.locateSlot(less, newKey)
				if !found {
					t.Errorf("newKey %d (insertIdx %d): expect to land in right half", newKey, insertIdx)
				}
			} else {
				found, _ := l.locateSlot(less, newKey)
				if !found {
					t.Errorf("newKey %d (insertIdx %d): expect to land in left half", newKey, insertIdx)
				}
			}

			if l.Next() != newID {
				t.Errorf("l.Next(): expect %v, get %v", newID, l.Next())
			}
			if right.Prev() != selfID {
				t.Errorf("right.Prev(): expect %v, get %v", selfID, right.Prev())
			}
		})
	}
}

func TestLeafMergeRightDeleteFirst(t *testing.T) {
	less := intLess()
	left := newLeaf[int, string]()
	left.Upsert(less, 10, 1, "a")
	left.Upsert(less, 10, 2, "b")

	right := newLeaf[int, string]()
	right.Upsert(less, 10, 3, "c")
	right.Upsert(less, 10, 4, "d")
	right.Upsert(less, 10, 5, "e")

	dk, dv := left.MergeRightDeleteFirst(0, right)
	if dk != 3 || dv != "c" {
		t.Errorf("deleted pair: expect (3, c), get (%d, %s)", dk, dv)
	}
	want := []int{1, 2, 4, 5}
	if left.Size() != len(want) {
		t.Fatalf("Size(): expect %d, get %d", len(want), left.Size())
	}
	for i, k := range want {
		if left.Keys()[i] != k {
			t.Errorf("Keys()[%d]: expect %d, get %d", i, k, left.Keys()[i])
		}
	}
}

func TestLeafRotatePreservesOrder(t *testing.T) {
	less := intLess()
	left := newLeaf[int, string]()
	for _, k := range []int{1, 2, 3, 4} {
		left.Upsert(less, 10, k, "v")
	}
	right := newLeaf[int, string]()
	right.Upsert(less, 10, 5, "v")

	k, v := left.Pop(2)
	right.insertAt(0, k, v)

	if right.Keys()[0] != 4 {
		t.Errorf("rotated key: expect 4, get %d", right.Keys()[0])
	}
	if left.Size() != 3 {
		t.Errorf("left size after Pop: expect 3, get %d", left.Size())
	}
	_ = v
}
