package aug

import (
	"testing"

	"github.com/daicang/ordmap/kv"
)

func TestGroupCountFromLeafSingleGroup(t *testing.T) {
	gc := GroupCount[int, int]{KeyGroup: func(k int) int { return k / 10 }}
	s := gc.FromLeaf([]int{10, 11, 12})

	if s.Groups != 1 {
		t.Fatalf("Groups: expect 1, get %d", s.Groups)
	}
	if s.Min != s.Max {
		t.Errorf("Min/Max: expect equal for a single group, get %v / %v", s.Min, s.Max)
	}
	if s.Min.N != 3 {
		t.Errorf("Min.N: expect 3, get %d", s.Min.N)
	}
}

func TestGroupCountFromLeafMultipleGroups(t *testing.T) {
	gc := GroupCount[int, int]{KeyGroup: func(k int) int { return k }}
	s := gc.FromLeaf([]int{1, 1, 1, 2, 3, 4})

	if s.Groups != 4 {
		t.Fatalf("Groups: expect 4, get %d", s.Groups)
	}
	if s.Min.Group != 1 || s.Min.N != 3 {
		t.Errorf("Min: expect {1 3}, get %+v", s.Min)
	}
	if s.Max.Group != 4 || s.Max.N != 1 {
		t.Errorf("Max: expect {4 1}, get %+v", s.Max)
	}
}

func TestGroupCountFromInnerMergesBoundary(t *testing.T) {
	gc := GroupCount[int, int]{KeyGroup: func(k int) int { return k }}

	// Groups 1,1,1,2,3,4 split as two leaves [1,1,1] and [2,3,4].
	left := gc.FromLeaf([]int{1, 1, 1})
	right := gc.FromLeaf([]int{2, 3, 4})

	root := gc.FromInner(nil, []Summary[int]{left, right})

	if root.Groups != 4 {
		t.Fatalf("root.Groups: expect 4, get %d", root.Groups)
	}
	if root.Min.Group != 1 || root.Min.N != 3 {
		t.Errorf("root.Min: expect {1 3}, get %+v", root.Min)
	}
	if root.Max.Group != 4 || root.Max.N != 1 {
		t.Errorf("root.Max: expect {4 1}, get %+v", root.Max)
	}
}

func TestGroupCountFromInnerCoalescesSharedBoundaryGroup(t *testing.T) {
	gc := GroupCount[int, int]{KeyGroup: func(k int) int { return k }}

	left := gc.FromLeaf([]int{1, 1, 2})  // groups: 1(x2), 2(x1)
	right := gc.FromLeaf([]int{2, 2, 3}) // groups: 2(x2), 3(x1)

	root := gc.FromInner(nil, []Summary[int]{left, right})

	// Group 2 straddles the boundary: 1 (left) + 2 (right) = 3, and the
	// total distinct group count must not double-count it.
	if root.Groups != 3 {
		t.Fatalf("root.Groups: expect 3, get %d", root.Groups)
	}
}

func TestGroupCountLocateInLeaf(t *testing.T) {
	gc := GroupCount[int, int]{KeyGroup: func(k int) int { return k / 10 }, GroupLess: kv.Ordered[int]()}
	keys := []int{10, 11, 12, 20, 21}

	idx, ok := gc.LocateInLeaf(GroupQuery[int]{Group: 1, Offset: 0}, keys)
	if !ok || idx != 0 {
		t.Errorf("LocateInLeaf offset 0: expect (0, true), get (%d, %v)", idx, ok)
	}

	idx, ok = gc.LocateInLeaf(GroupQuery[int]{Group: 2, Offset: 1}, keys)
	if !ok || idx != 4 {
		t.Errorf("LocateInLeaf group 2 offset 1: expect (4, true), get (%d, %v)", idx, ok)
	}

	_, ok = gc.LocateInLeaf(GroupQuery[int]{Group: 9, Offset: 0}, keys)
	if ok {
		t.Errorf("LocateInLeaf group 9: expect not found")
	}
}

func TestGroupCountLocateInInner(t *testing.T) {
	gc := GroupCount[int, int]{KeyGroup: func(k int) int { return k }, GroupLess: kv.Ordered[int]()}

	left := gc.FromLeaf([]int{1, 1, 1})
	right := gc.FromLeaf([]int{2, 3, 4})
	children := []Summary[int]{left, right}

	slot, next, ok := gc.LocateInInner(GroupQuery[int]{Group: 1, Offset: 2}, nil, children)
	if !ok || slot != 0 || next.Offset != 2 {
		t.Errorf("LocateInInner group 1 offset 2: expect (0, offset 2, true), get (%d, %+v, %v)", slot, next, ok)
	}

	// Group 3 is interior to right ({2,3,4}, Min.Group=2, Max.Group=4):
	// it touches neither edge, so this exercises the ordered-descend path
	// rather than an edge-contribution match.
	slot, _, ok = gc.LocateInInner(GroupQuery[int]{Group: 3, Offset: 0}, nil, children)
	if !ok || slot != 1 {
		t.Errorf("LocateInInner group 3: expect slot 1, get (%d, %v)", slot, ok)
	}

	if _, _, ok := gc.LocateInInner(GroupQuery[int]{Group: 9, Offset: 0}, nil, children); ok {
		t.Errorf("LocateInInner group 9: expect not found")
	}
}
