// Package store provides the concrete in-memory node arena backing a
// tree.Tree: two growable slices (one per node kind), a free-index list
// for slot reuse, and the tree's single-slot leaf cache. The arena only
// ever allocates one slot at a time, so the free lists are plain LIFO
// stacks of single indices.
package store

import (
	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/kv"
	"github.com/daicang/ordmap/tree"
)

// Arena is a tree.Store[K, V, A] backed by two slices of nodes, with
// freed slots recycled before the slices grow.
type Arena[K any, V any, A any] struct {
	leaves    []*tree.Leaf[K, V]
	leafFree  []uint32
	inners    []*tree.Inner[K, A]
	innerFree []uint32

	innerFanout int
	leafFanout  int

	cached    common.NodeId
	haveCache bool
}

var _ tree.Store[int, int, struct{}] = (*Arena[int, int, struct{}])(nil)

// New builds an empty arena with the given per-node fanout limits.
// innerFanout bounds an inner node's separator keys (IN); leafFanout
// bounds a leaf's entries (LN).
func New[K any, V any, A any](innerFanout, leafFanout int) *Arena[K, V, A] {
	return &Arena[K, V, A]{
		innerFanout: innerFanout,
		leafFanout:  leafFanout,
		cached:      common.NilId,
	}
}

func (a *Arena[K, V, A]) ReserveLeaf() common.NodeId {
	if n := len(a.leafFree); n > 0 {
		idx := a.leafFree[n-1]
		a.leafFree = a.leafFree[:n-1]
		return common.LeafId(idx)
	}
	idx := uint32(len(a.leaves))
	a.leaves = append(a.leaves, nil)
	return common.LeafId(idx)
}

func (a *Arena[K, V, A]) AssignLeaf(id common.NodeId, leaf *tree.Leaf[K, V]) {
	a.leaves[id.Idx] = leaf
}

func (a *Arena[K, V, A]) NewLeaf() (common.NodeId, *tree.Leaf[K, V]) {
	id := a.ReserveLeaf()
	leaf := tree.NewLeaf[K, V]()
	a.AssignLeaf(id, leaf)
	return id, leaf
}

func (a *Arena[K, V, A]) GetLeaf(id common.NodeId) *tree.Leaf[K, V] {
	return a.leaves[id.Idx]
}

func (a *Arena[K, V, A]) FreeLeaf(id common.NodeId) {
	a.leaves[id.Idx] = nil
	a.leafFree = append(a.leafFree, id.Idx)
	if a.haveCache && a.cached == id {
		a.haveCache = false
	}
}

func (a *Arena[K, V, A]) ReserveInner() common.NodeId {
	if n := len(a.innerFree); n > 0 {
		idx := a.innerFree[n-1]
		a.innerFree = a.innerFree[:n-1]
		return common.InnerId(idx)
	}
	idx := uint32(len(a.inners))
	a.inners = append(a.inners, nil)
	return common.InnerId(idx)
}

func (a *Arena[K, V, A]) AssignInner(id common.NodeId, inner *tree.Inner[K, A]) {
	a.inners[id.Idx] = inner
}

func (a *Arena[K, V, A]) NewInner() (common.NodeId, *tree.Inner[K, A]) {
	id := a.ReserveInner()
	inner := tree.NewInner[K, A]()
	a.AssignInner(id, inner)
	return id, inner
}

func (a *Arena[K, V, A]) GetInner(id common.NodeId) *tree.Inner[K, A] {
	return a.inners[id.Idx]
}

func (a *Arena[K, V, A]) FreeInner(id common.NodeId) {
	a.inners[id.Idx] = nil
	a.innerFree = append(a.innerFree, id.Idx)
}

// CacheLeaf records id as the most recently touched leaf.
func (a *Arena[K, V, A]) CacheLeaf(id common.NodeId) {
	a.cached = id
	a.haveCache = true
}

// TryCache reports the cached leaf when k lies within its key range.
func (a *Arena[K, V, A]) TryCache(less kv.Less[K], k K) (common.NodeId, bool) {
	if !a.haveCache {
		return common.NilId, false
	}
	leaf := a.leaves[a.cached.Idx]
	first, last, ok := leaf.KeyRange()
	if !ok {
		return common.NilId, false
	}
	if less(k, first) || less(last, k) {
		return common.NilId, false
	}
	return a.cached, true
}

// InvalidateCache clears the cache unconditionally.
func (a *Arena[K, V, A]) InvalidateCache() {
	a.haveCache = false
}

// InnerFanout reports the maximum separator keys per inner node.
func (a *Arena[K, V, A]) InnerFanout() int { return a.innerFanout }

// LeafFanout reports the maximum entries per leaf.
func (a *Arena[K, V, A]) LeafFanout() int { return a.leafFanout }
