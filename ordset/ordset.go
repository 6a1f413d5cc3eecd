// Package ordset is the public ordered-set facade, a thin projection over
// ordmap.Map[K, struct{}]: a set is a map that only ever cares about its
// keys.
package ordset

import (
	"github.com/daicang/ordmap/kv"
	"github.com/daicang/ordmap/ordmap"
	"github.com/daicang/ordmap/tree"
	"golang.org/x/exp/constraints"
)

// Set is an ordered collection of unique keys backed by a B+ tree.
type Set[K any] struct {
	m *ordmap.Map[K, struct{}]
}

// New builds an empty Set ordering keys with less.
func New[K any](less kv.Less[K], opts ordmap.Options) *Set[K] {
	return &Set[K]{m: ordmap.New[K, struct{}](less, opts)}
}

// NewOrdered builds an empty Set for a primitive key type.
func NewOrdered[K constraints.Ordered](opts ordmap.Options) *Set[K] {
	return &Set[K]{m: ordmap.NewOrdered[K, struct{}](opts)}
}

// Len reports the number of members.
func (s *Set[K]) Len() int { return s.m.Len() }

// IsEmpty reports whether the set is empty.
func (s *Set[K]) IsEmpty() bool { return s.m.IsEmpty() }

// Clear empties the set.
func (s *Set[K]) Clear() { s.m.Clear() }

// Insert adds k, reporting whether it was newly inserted (false when k
// was already a member).
func (s *Set[K]) Insert(k K) bool {
	_, existed := s.m.Insert(k, struct{}{})
	return !existed
}

// Contains reports whether k is a member.
func (s *Set[K]) Contains(k K) bool {
	_, ok := s.m.Get(k)
	return ok
}

// Remove deletes k, reporting whether it was present.
func (s *Set[K]) Remove(k K) bool {
	_, ok := s.m.Remove(k)
	return ok
}

// First returns the smallest member.
func (s *Set[K]) First() (K, bool) {
	k, _, ok := s.m.First()
	return k, ok
}

// Last returns the largest member.
func (s *Set[K]) Last() (K, bool) {
	k, _, ok := s.m.Last()
	return k, ok
}

// setIterator adapts a Map iterator to yield keys only.
type setIterator[K any] struct {
	inner *tree.Iterator[K, struct{}, struct{}]
}

// Next returns the next member in ascending order.
func (it *setIterator[K]) Next() (K, bool) {
	k, _, ok := it.inner.Next()
	return k, ok
}

// NextBack returns the next member in descending order.
func (it *setIterator[K]) NextBack() (K, bool) {
	k, _, ok := it.inner.NextBack()
	return k, ok
}

// Remaining reports how many members have not yet been consumed.
func (it *setIterator[K]) Remaining() int { return it.inner.Remaining() }

// Drain consumes the rest of the iterator, calling fn for each remaining
// member in ascending order.
func (it *setIterator[K]) Drain(fn func(K)) {
	it.inner.Drain(func(k K, _ struct{}) { fn(k) })
}

// Iter returns an iterator over the whole set in ascending key order.
func (s *Set[K]) Iter() *setIterator[K] {
	return &setIterator[K]{inner: s.m.Iter()}
}

// IntoIter drains the set in ascending order, calling fn for each member.
// The set is left empty afterward.
func (s *Set[K]) IntoIter(fn func(K)) {
	s.m.IntoIter(func(k K, _ struct{}) { fn(k) })
}

// CursorFirst returns a cursor at the smallest member.
func (s *Set[K]) CursorFirst() tree.Cursor[K] { return s.m.CursorFirst() }

// GetCursor returns a cursor at k, or an invalid cursor if absent.
func (s *Set[K]) GetCursor(k K) tree.Cursor[K] { return s.m.GetCursor(k) }

// CursorNext returns a cursor at the next member after c's.
func (s *Set[K]) CursorNext(c tree.Cursor[K]) tree.Cursor[K] { return s.m.CursorNext(c) }

// CursorPrev returns a cursor at the member before c's.
func (s *Set[K]) CursorPrev(c tree.Cursor[K]) tree.Cursor[K] { return s.m.CursorPrev(c) }
