// Package ordmap is the public facade over the tree engine: an ordered
// key/value container with no augmentation attached.
package ordmap

import (
	"github.com/daicang/ordmap/aug"
	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/kv"
	"github.com/daicang/ordmap/logs"
	"github.com/daicang/ordmap/store"
	"github.com/daicang/ordmap/tree"
	"golang.org/x/exp/constraints"
)

// DefaultFanout is the (InnerFanout, LeafFanout) pair used when callers
// do not supply their own via Options.
const DefaultFanout = 64

// Options configures a Map's node store. Zero values fall back to
// DefaultFanout.
type Options struct {
	InnerFanout int
	LeafFanout  int
}

// Map is an ordered key/value container backed by a B+ tree.
type Map[K any, V any] struct {
	t *tree.Tree[K, V, struct{}]
}

// ResolveFanout applies DefaultFanout to any zero field of o, for callers
// (e.g. package bulk) that build a store directly instead of through New.
func ResolveFanout(o Options) (int, int) {
	in, ln := o.InnerFanout, o.LeafFanout
	if in <= 0 {
		in = DefaultFanout
	}
	if ln <= 0 {
		ln = DefaultFanout
	}
	return in, ln
}

// New builds an empty Map ordering keys with less.
func New[K any, V any](less kv.Less[K], opts Options) *Map[K, V] {
	in, ln := ResolveFanout(opts)
	s := store.New[K, V, struct{}](in, ln)
	t := tree.New[K, V, struct{}](s, less, aug.None[K]{}, logs.Discard())
	return &Map[K, V]{t: t}
}

// NewOrdered builds an empty Map for a primitive key type, ordering keys
// with the natural `<` via golang.org/x/exp/constraints.Ordered.
func NewOrdered[K constraints.Ordered, V any](opts Options) *Map[K, V] {
	return New[K, V](kv.Ordered[K](), opts)
}

// FromTree wraps an already-built tree.Tree as a Map, for package bulk's
// bottom-up construction path.
func FromTree[K any, V any](t *tree.Tree[K, V, struct{}]) *Map[K, V] {
	return &Map[K, V]{t: t}
}

// Len reports the number of entries.
func (m *Map[K, V]) Len() int { return m.t.Len() }

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.t.IsEmpty() }

// Clear empties the map.
func (m *Map[K, V]) Clear() { m.t.Clear() }

// Insert inserts or updates (k, v), returning the previous value if k was
// already present.
func (m *Map[K, V]) Insert(k K, v V) (V, bool) { return m.t.Insert(k, v) }

// Get returns the value stored at k.
func (m *Map[K, V]) Get(k K) (V, bool) { return m.t.Get(k) }

// GetMut returns a pointer to the value stored at k, allowing in-place
// mutation without a remove/insert round trip. The pointer is invalidated
// by any subsequent structural mutation of the map.
func (m *Map[K, V]) GetMut(k K) (*V, bool) { return tree.GetMut(m.t, k) }

// Remove deletes k, returning its value if present.
func (m *Map[K, V]) Remove(k K) (V, bool) { return m.t.Remove(k) }

// First returns the smallest key and its value.
func (m *Map[K, V]) First() (K, V, bool) { return m.t.First() }

// Last returns the largest key and its value.
func (m *Map[K, V]) Last() (K, V, bool) { return m.t.Last() }

// Iter returns an iterator over the whole map in ascending key order,
// supporting Next and NextBack from both ends.
func (m *Map[K, V]) Iter() *tree.Iterator[K, V, struct{}] { return tree.Iter(m.t) }

// IntoIter drains the map in ascending key order, calling fn for each
// entry. The map is left empty afterward.
func (m *Map[K, V]) IntoIter(fn func(K, V)) {
	tree.Iter(m.t).Drain(fn)
	m.t.Clear()
}

// CursorFirst returns a cursor at the smallest key.
func (m *Map[K, V]) CursorFirst() tree.Cursor[K] { return tree.CursorFirst(m.t) }

// GetCursor returns a cursor at k, or an invalid cursor if absent.
func (m *Map[K, V]) GetCursor(k K) tree.Cursor[K] { return tree.GetCursor(m.t, k) }

// CursorValue returns the value at c's key.
func (m *Map[K, V]) CursorValue(c tree.Cursor[K]) (V, bool) { return tree.CursorValue(m.t, c) }

// CursorNext returns a cursor at the next key after c's.
func (m *Map[K, V]) CursorNext(c tree.Cursor[K]) tree.Cursor[K] { return tree.CursorNext(m.t, c) }

// CursorPrev returns a cursor at the key before c's.
func (m *Map[K, V]) CursorPrev(c tree.Cursor[K]) tree.Cursor[K] { return tree.CursorPrev(m.t, c) }

// Statistic exposes the rotate/merge/split counters for observability.
func (m *Map[K, V]) Statistic() common.Statistic { return m.t.Statistic() }

// Dump renders the tree's structure for debugging.
func (m *Map[K, V]) Dump() string { return m.t.Dump() }
