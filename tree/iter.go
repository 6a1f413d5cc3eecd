package tree

import "github.com/daicang/ordmap/common"

// Iterator walks a tree's entries in key order via the leaf chain,
// supporting iteration from both ends at once. front and
// back converge toward each other; remaining tracks how many entries are
// left so the two never cross.
type Iterator[K any, V any, A any] struct {
	t *Tree[K, V, A]

	frontLeaf common.NodeId
	frontSlot int
	backLeaf  common.NodeId
	backSlot  int

	remaining int
}

// Iter returns an iterator over the whole tree in ascending key order.
func Iter[K any, V any, A any](t *Tree[K, V, A]) *Iterator[K, V, A] {
	it := &Iterator[K, V, A]{t: t, remaining: t.len}
	if t.len == 0 {
		return it
	}
	it.frontLeaf = t.firstLeafID()
	it.frontSlot = 0
	it.backLeaf = t.lastLeafID()
	it.backSlot = t.store.GetLeaf(it.backLeaf).Size() - 1
	return it
}

// Next returns the next entry in ascending order, or false when
// exhausted.
func (it *Iterator[K, V, A]) Next() (K, V, bool) {
	var zk K
	var zv V
	if it.remaining == 0 {
		return zk, zv, false
	}

	leaf := it.t.store.GetLeaf(it.frontLeaf)
	k := leaf.Keys()[it.frontSlot]
	v := leaf.Values()[it.frontSlot]
	it.remaining--

	if it.remaining > 0 {
		if it.frontSlot+1 < leaf.Size() {
			it.frontSlot++
		} else {
			it.frontLeaf = leaf.Next()
			it.frontSlot = 0
		}
	}

	return k, v, true
}

// NextBack returns the next entry in descending order, or false when
// exhausted.
func (it *Iterator[K, V, A]) NextBack() (K, V, bool) {
	var zk K
	var zv V
	if it.remaining == 0 {
		return zk, zv, false
	}

	leaf := it.t.store.GetLeaf(it.backLeaf)
	k := leaf.Keys()[it.backSlot]
	v := leaf.Values()[it.backSlot]
	it.remaining--

	if it.remaining > 0 {
		if it.backSlot > 0 {
			it.backSlot--
		} else {
			it.backLeaf = leaf.Prev()
			it.backSlot = it.t.store.GetLeaf(it.backLeaf).Size() - 1
		}
	}

	return k, v, true
}

// Remaining reports how many entries have not yet been consumed from
// either end.
func (it *Iterator[K, V, A]) Remaining() int { return it.remaining }

// Drain consumes the rest of the iterator, calling fn for each remaining
// entry in ascending order.
func (it *Iterator[K, V, A]) Drain(fn func(K, V)) {
	for {
		k, v, ok := it.Next()
		if !ok {
			return
		}
		fn(k, v)
	}
}
