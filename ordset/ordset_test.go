package ordset_test

import (
	"testing"

	"github.com/daicang/ordmap/internal/testsupport"
	"github.com/daicang/ordmap/ordmap"
	"github.com/daicang/ordmap/ordset"
)

func TestSetInsertContainsRemove(t *testing.T) {
	s := ordset.NewOrdered[int](ordmap.Options{InnerFanout: 4, LeafFanout: 4})

	perm := testsupport.Permutation(100)
	for _, k := range perm {
		if inserted := s.Insert(k); !inserted {
			t.Fatalf("Insert(%d): expect newly inserted", k)
		}
	}
	if s.Len() != 100 {
		t.Fatalf("Len(): expect 100, get %d", s.Len())
	}

	for _, k := range perm {
		if !s.Contains(k) {
			t.Errorf("Contains(%d): expect true", k)
		}
	}

	for _, k := range perm {
		if !s.Remove(k) {
			t.Errorf("Remove(%d): expect true", k)
		}
	}
	if !s.IsEmpty() {
		t.Errorf("IsEmpty(): expect true after draining")
	}
}

func TestSetInsertDuplicateReportsNotInserted(t *testing.T) {
	s := ordset.NewOrdered[int](ordmap.Options{})
	if inserted := s.Insert(1); !inserted {
		t.Fatalf("Insert(1): expect newly inserted")
	}
	if inserted := s.Insert(1); inserted {
		t.Errorf("Insert(1) again: expect not inserted")
	}
	if s.Len() != 1 {
		t.Errorf("Len(): expect 1, get %d", s.Len())
	}
}

func TestSetFirstLast(t *testing.T) {
	s := ordset.NewOrdered[int](ordmap.Options{InnerFanout: 4, LeafFanout: 4})
	for _, k := range []int{5, 1, 9, 3} {
		s.Insert(k)
	}

	first, ok := s.First()
	if !ok || first != 1 {
		t.Errorf("First(): expect 1, get %d", first)
	}
	last, ok := s.Last()
	if !ok || last != 9 {
		t.Errorf("Last(): expect 9, get %d", last)
	}
}

func TestSetIterAscending(t *testing.T) {
	s := ordset.NewOrdered[int](ordmap.Options{InnerFanout: 4, LeafFanout: 4})
	for _, k := range testsupport.Permutation(30) {
		s.Insert(k)
	}

	it := s.Iter()
	prev := -1
	count := 0
	for {
		k, ok := it.Next()
		if !ok {
			break
		}
		if k <= prev {
			t.Fatalf("out of order: %d after %d", k, prev)
		}
		prev = k
		count++
	}
	if count != 30 {
		t.Errorf("count: expect 30, get %d", count)
	}
}

func TestSetIntoIterDrainsAndEmpties(t *testing.T) {
	s := ordset.NewOrdered[int](ordmap.Options{InnerFanout: 4, LeafFanout: 4})
	for _, k := range []int{1, 2, 3} {
		s.Insert(k)
	}

	var drained []int
	s.IntoIter(func(k int) { drained = append(drained, k) })

	if len(drained) != 3 {
		t.Fatalf("drained count: expect 3, get %d", len(drained))
	}
	if !s.IsEmpty() {
		t.Errorf("IsEmpty() after IntoIter: expect true")
	}
}

func TestSetCursorNavigation(t *testing.T) {
	s := ordset.NewOrdered[int](ordmap.Options{InnerFanout: 4, LeafFanout: 4})
	for _, k := range []int{10, 20, 30} {
		s.Insert(k)
	}

	c := s.CursorFirst()
	if !c.Valid() || c.Key() != 10 {
		t.Fatalf("CursorFirst: expect key 10, get %d", c.Key())
	}
	c = s.CursorNext(c)
	if !c.Valid() || c.Key() != 20 {
		t.Errorf("CursorNext: expect key 20, get %d", c.Key())
	}
}
