package tree

import (
	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/kv"
)

// Store is the node store contract: an arena that allocates, addresses,
// and reclaims leaf and inner nodes by id, and owns the tree's
// single-slot leaf cache.
//
// Go pointers already give exclusive, safe mutable access to a node, so
// this contract needs no take/put-back dance to let the driver hold one
// node while still touching the rest of the store - GetLeaf/GetInner
// return a live pointer straight into the arena. Reserve+Assign is kept because
// the driver genuinely needs it: SplitNewLeaf must wire a leaf's prev and
// next links to the *id* its new sibling will live at before that sibling
// has been built, so the id has to exist before the node does.
type Store[K any, V any, A any] interface {
	// ReserveLeaf allocates a leaf id with no content yet.
	ReserveLeaf() common.NodeId
	// AssignLeaf stores leaf under the previously reserved id.
	AssignLeaf(id common.NodeId, leaf *Leaf[K, V])
	// NewLeaf reserves and assigns an empty leaf in one step.
	NewLeaf() (common.NodeId, *Leaf[K, V])
	// GetLeaf returns the leaf stored at id.
	GetLeaf(id common.NodeId) *Leaf[K, V]
	// FreeLeaf reclaims id for reuse by a future ReserveLeaf/NewLeaf.
	FreeLeaf(id common.NodeId)

	// ReserveInner allocates an inner id with no content yet.
	ReserveInner() common.NodeId
	// AssignInner stores inner under the previously reserved id.
	AssignInner(id common.NodeId, inner *Inner[K, A])
	// NewInner reserves and assigns an empty inner node in one step.
	NewInner() (common.NodeId, *Inner[K, A])
	// GetInner returns the inner node stored at id.
	GetInner(id common.NodeId) *Inner[K, A]
	// FreeInner reclaims id for reuse.
	FreeInner(id common.NodeId)

	// CacheLeaf records id as the most recently touched leaf.
	CacheLeaf(id common.NodeId)
	// TryCache returns the cached leaf id when k lies within its key
	// range (inclusive), else false. A cache invalidated by a structural
	// change must never return true here until CacheLeaf is called again.
	TryCache(less kv.Less[K], k K) (common.NodeId, bool)
	// InvalidateCache clears the cache unconditionally.
	InvalidateCache()

	// InnerFanout reports the maximum separator keys per inner node (IN).
	InnerFanout() int
	// LeafFanout reports the maximum entries per leaf (LN).
	LeafFanout() int
}
