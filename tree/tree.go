// Package tree implements the B+ tree engine: leaf and inner node layout
// (leaf.go, inner.go), the node store contract (store.go), and the tree
// driver (this file) that ties them together with split/merge/rotate
// rebalancing, the leaf cache fast path, cursor stability, and
// augmentation refresh.
package tree

import (
	"github.com/daicang/ordmap/aug"
	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/kv"
	"github.com/go-logr/logr"
)

// Tree is the B+ tree driver: root pointer, length, and the split/merge/
// rotate algorithms behind Get/Insert/Remove and friends, run iteratively
// over an explicit descent stack.
type Tree[K any, V any, A any] struct {
	store Store[K, V, A]
	less  kv.Less[K]
	aug   aug.Augmentation[K, A]
	log   logr.Logger

	root common.NodeId
	len  int
	stat common.Statistic

	// augmented is false when aug is the zero-cost aug.None[K], letting
	// the leaf-cache fast path skip the ancestor re-descend that
	// augmentation refresh would otherwise require on every key
	// insertion and removal.
	augmented bool
}

// frame is one step of a root-to-leaf descent: the inner node visited and
// which of its children the search continued into. The tree driver keeps
// this explicit stack instead of parent pointers on nodes; parent
// pointers would have to be rewired on every split and merge.
type frame struct {
	id   common.NodeId
	slot int
}

// New builds an empty tree backed by store, ordering keys with less and
// summarizing subtrees with augmentation (pass aug.None[K]{} for no
// summary). log receives structural diagnostics (split/merge/root growth
// and shrink) at verbosity 1; rotations are counted in Statistic but not
// logged.
func New[K any, V any, A any](store Store[K, V, A], less kv.Less[K], augmentation aug.Augmentation[K, A], log logr.Logger) *Tree[K, V, A] {
	rootID, _ := store.NewLeaf()
	return &Tree[K, V, A]{
		store:     store,
		less:      less,
		aug:       augmentation,
		log:       log,
		root:      rootID,
		augmented: !isNoneAugmentation[K, A](augmentation),
	}
}

// isNoneAugmentation reports whether augmentation is the zero-cost
// aug.None[K]. The type assertion only succeeds when A is struct{}; for
// any other A it simply reports false, which is what we want.
func isNoneAugmentation[K any, A any](a aug.Augmentation[K, A]) bool {
	_, ok := any(a).(aug.None[K])
	return ok
}

// NewFromRoot builds a tree around an already-constructed node chain,
// for bulk-load construction (package bulk) that assembles a B+ tree
// bottom-up instead of via repeated Insert calls. root must already
// satisfy every structural invariant the driver assumes (sorted leaf
// chain, separator rule, minimum occupancy), including any stored
// augmentation summaries - NewFromRoot does not compute them.
func NewFromRoot[K any, V any, A any](store Store[K, V, A], less kv.Less[K], augmentation aug.Augmentation[K, A], log logr.Logger, root common.NodeId, length int) *Tree[K, V, A] {
	return &Tree[K, V, A]{
		store:     store,
		less:      less,
		aug:       augmentation,
		log:       log,
		root:      root,
		len:       length,
		augmented: !isNoneAugmentation[K, A](augmentation),
	}
}

// newRootInner builds a fresh inner node holding exactly one separator,
// used when a split climbs past the old root and the tree grows a level.
func newRootInner[K any, A any](leftChild common.NodeId, key K, rightChild common.NodeId) *Inner[K, A] {
	n := newInner[K, A]()
	n.keys = append(n.keys, key)
	n.children = append(n.children, leftChild, rightChild)
	return n
}

// Len reports the number of entries.
func (t *Tree[K, V, A]) Len() int { return t.len }

// IsEmpty reports whether the tree holds no entries.
func (t *Tree[K, V, A]) IsEmpty() bool { return t.len == 0 }

// Statistic exposes the rotate/merge/split counters for observability.
func (t *Tree[K, V, A]) Statistic() common.Statistic { return t.stat }

// Summary returns the augmentation summary of the whole tree's contents.
// Only inner nodes persist a stored summary, so when the root is still a
// leaf (a small tree that never grew a level) this folds it on demand via
// childSummary, the same helper ancestor refresh uses.
func (t *Tree[K, V, A]) Summary() A { return t.childSummary(t.root) }

// GetByAugmentation answers an order-statistic-style query by descending
// the tree through the augmentation's search contract: at each inner node, LocateInInner picks which child to descend into and
// adjusts the query for the entries already passed over in earlier
// siblings; at the leaf, LocateInLeaf resolves the final index. Returns
// false if the tree's augmentation does not implement aug.Query[K, A, Q]
// for this Q, or if the query is not answered by anything in the tree.
func GetByAugmentation[K any, V any, A any, Q any](t *Tree[K, V, A], query Q) (K, V, bool) {
	var zk K
	var zv V

	q, ok := t.aug.(aug.Query[K, A, Q])
	if !ok {
		return zk, zv, false
	}

	id := t.root
	for id.IsInner() {
		inner := t.store.GetInner(id)
		children := inner.Children()
		summaries := make([]A, len(children))
		for i, cid := range children {
			summaries[i] = t.childSummary(cid)
		}

		slot, next, found := q.LocateInInner(query, inner.Keys(), summaries)
		if !found {
			return zk, zv, false
		}
		query = next
		id = inner.Child(slot)
	}

	leaf := t.store.GetLeaf(id)
	idx, found := q.LocateInLeaf(query, leaf.Keys())
	if !found {
		return zk, zv, false
	}
	return leaf.Keys()[idx], leaf.Values()[idx], true
}

// Clear empties the tree. It does not reclaim the old arena slots; drop
// the store (or the whole tree) to release that memory.
func (t *Tree[K, V, A]) Clear() {
	t.root, _ = t.store.NewLeaf()
	t.len = 0
	t.store.InvalidateCache()
}

func (t *Tree[K, V, A]) leafMin() int  { return (t.store.LeafFanout() + 1) / 2 }
func (t *Tree[K, V, A]) innerMin() int { return (t.store.InnerFanout() + 1) / 2 }

// descend walks from the root to the leaf that would hold k, recording
// each inner node visited and the child slot taken.
func (t *Tree[K, V, A]) descend(k K) (common.NodeId, []frame) {
	var stack []frame
	id := t.root
	for id.IsInner() {
		inner := t.store.GetInner(id)
		slot, child := inner.LocateChild(t.less, k)
		stack = append(stack, frame{id: id, slot: slot})
		id = child
	}
	return id, stack
}

func (t *Tree[K, V, A]) firstLeafID() common.NodeId {
	id := t.root
	for id.IsInner() {
		id = t.store.GetInner(id).Child(0)
	}
	return id
}

func (t *Tree[K, V, A]) lastLeafID() common.NodeId {
	id := t.root
	for id.IsInner() {
		inner := t.store.GetInner(id)
		id = inner.Child(inner.Size())
	}
	return id
}

// childSummary returns the augmentation summary of the subtree rooted at
// id: a leaf's summary is folded on demand from its keys, since only
// inner nodes persist a stored summary.
func (t *Tree[K, V, A]) childSummary(id common.NodeId) A {
	if id.IsLeaf() {
		return t.aug.FromLeaf(t.store.GetLeaf(id).Keys())
	}
	return t.store.GetInner(id).Summary()
}

func (t *Tree[K, V, A]) refreshInner(inner *Inner[K, A]) {
	children := inner.Children()
	summaries := make([]A, len(children))
	for i, cid := range children {
		summaries[i] = t.childSummary(cid)
	}
	inner.Refresh(t.aug, summaries)
}

// refreshStack recomputes every inner node on stack, deepest first, so a
// parent always folds its child's already-fresh summary.
func (t *Tree[K, V, A]) refreshStack(stack []frame) {
	for i := len(stack) - 1; i >= 0; i-- {
		t.refreshInner(t.store.GetInner(stack[i].id))
	}
}

// refreshAncestors re-descends to k and refreshes the inner nodes on its
// path. Used only by the leaf-cache fast path, which does not keep a
// descent stack around; skipped entirely for unaugmented trees, since a
// key-only change can never affect an aug.None[K] summary.
func (t *Tree[K, V, A]) refreshAncestors(k K) {
	if !t.augmented {
		return
	}
	_, stack := t.descend(k)
	t.refreshStack(stack)
}

// Get returns the value stored at k.
func (t *Tree[K, V, A]) Get(k K) (V, bool) {
	var zero V

	if leafID, ok := t.store.TryCache(t.less, k); ok {
		leaf := t.store.GetLeaf(leafID)
		if found, idx := leaf.LocateSlot(t.less, k); found {
			return leaf.Values()[idx], true
		}
		return zero, false
	}

	leafID, _ := t.descend(k)
	leaf := t.store.GetLeaf(leafID)
	t.store.CacheLeaf(leafID)
	if found, idx := leaf.LocateSlot(t.less, k); found {
		return leaf.Values()[idx], true
	}
	return zero, false
}

// GetMut returns a pointer to the value stored at k, letting the caller
// mutate it in place without a remove/insert round trip. The pointer is
// invalidated by any subsequent structural mutation of the tree. Free
// function, not a method, so it can be called with the tree's own type
// parameters from client facade packages.
func GetMut[K any, V any, A any](t *Tree[K, V, A], k K) (*V, bool) {
	if leafID, ok := t.store.TryCache(t.less, k); ok {
		leaf := t.store.GetLeaf(leafID)
		if found, idx := leaf.LocateSlot(t.less, k); found {
			return &leaf.values[idx], true
		}
		return nil, false
	}

	leafID, _ := t.descend(k)
	leaf := t.store.GetLeaf(leafID)
	t.store.CacheLeaf(leafID)
	if found, idx := leaf.LocateSlot(t.less, k); found {
		return &leaf.values[idx], true
	}
	return nil, false
}

// First returns the smallest key and its value.
func (t *Tree[K, V, A]) First() (K, V, bool) {
	var zk K
	var zv V
	leaf := t.store.GetLeaf(t.firstLeafID())
	if leaf.Size() == 0 {
		return zk, zv, false
	}
	return leaf.Keys()[0], leaf.Values()[0], true
}

// Last returns the largest key and its value.
func (t *Tree[K, V, A]) Last() (K, V, bool) {
	var zk K
	var zv V
	leaf := t.store.GetLeaf(t.lastLeafID())
	n := leaf.Size()
	if n == 0 {
		return zk, zv, false
	}
	return leaf.Keys()[n-1], leaf.Values()[n-1], true
}

// Insert inserts or updates (k, v), returning the previous value if k was
// already present.
func (t *Tree[K, V, A]) Insert(k K, v V) (V, bool) {
	var zero V

	if leafID, ok := t.store.TryCache(t.less, k); ok {
		leaf := t.store.GetLeaf(leafID)
		if leaf.Size() < t.store.LeafFanout() {
			res := leaf.Upsert(t.less, t.store.LeafFanout(), k, v)
			switch res.Kind {
			case Updated:
				return res.Prev, true
			case Inserted:
				t.len++
				t.store.CacheLeaf(leafID)
				t.refreshAncestors(k)
				return zero, false
			}
			// LeafFull cannot occur: Size() < fanout was just checked.
		}
	}

	return t.insertDescend(k, v)
}

func (t *Tree[K, V, A]) insertDescend(k K, v V) (V, bool) {
	var zero V
	leafID, stack := t.descend(k)
	leaf := t.store.GetLeaf(leafID)

	res := leaf.Upsert(t.less, t.store.LeafFanout(), k, v)
	switch res.Kind {
	case Updated:
		t.store.CacheLeaf(leafID)
		return res.Prev, true
	case Inserted:
		t.len++
		t.store.CacheLeaf(leafID)
		t.refreshStack(stack)
		return zero, false
	}

	// LeafFull: split this leaf and propagate the promoted key upward.
	t.stat.Splits++
	newID := t.store.ReserveLeaf()
	right := leaf.SplitNewLeaf(t.store.LeafFanout(), res.Idx, k, v, leafID, newID)
	if right.Next().Valid() {
		t.store.GetLeaf(right.Next()).SetPrev(newID)
	}
	t.store.AssignLeaf(newID, right)

	promoted, _, _ := right.KeyRange()
	if res.Idx >= t.store.LeafFanout()/2 {
		t.store.CacheLeaf(newID)
	} else {
		t.store.CacheLeaf(leafID)
	}
	t.len++

	t.log.V(1).Info("leaf split", "promoted", promoted)
	t.propagateSplit(stack, promoted, newID)
	return zero, false
}

// propagateSplit walks the descent stack bottom-up, inserting the
// promoted separator into each ancestor until one has room, splitting
// ancestors that are themselves full, and finally growing a new root if
// the whole stack was consumed.
func (t *Tree[K, V, A]) propagateSplit(stack []frame, key K, rightID common.NodeId) {
	for i := len(stack) - 1; i >= 0; i-- {
		f := stack[i]
		inner := t.store.GetInner(f.id)

		if !inner.IsFull(t.store.InnerFanout()) {
			inner.InsertAt(f.slot, key, rightID)
			t.refreshStack(stack[:i+1])
			return
		}

		t.stat.Splits++
		promoted, right := inner.Split(f.slot, key, rightID)
		newID := t.store.ReserveInner()
		t.store.AssignInner(newID, right)

		t.refreshInner(inner)
		t.refreshInner(right)
		t.log.V(1).Info("inner split", "promoted", promoted)

		key = promoted
		rightID = newID
	}

	newRootID := t.store.ReserveInner()
	newRoot := newRootInner[K, A](t.root, key, rightID)
	t.store.AssignInner(newRootID, newRoot)
	t.refreshInner(newRoot)

	t.log.V(1).Info("root grown")
	t.root = newRootID
}

// Remove deletes k, returning its value if present.
func (t *Tree[K, V, A]) Remove(k K) (V, bool) {
	var zero V

	if leafID, ok := t.store.TryCache(t.less, k); ok {
		leaf := t.store.GetLeaf(leafID)
		if leafID == t.root || leaf.AbleToLend(t.leafMin()) {
			found, idx := leaf.LocateSlot(t.less, k)
			if !found {
				return zero, false
			}
			_, v := leaf.DeleteAt(idx)
			t.len--
			t.store.CacheLeaf(leafID)
			t.refreshAncestors(k)
			t.maybeShrinkRoot()
			return v, true
		}
	}

	v, ok := t.removeDescend(k)
	if ok {
		t.maybeShrinkRoot()
	}
	return v, ok
}

func (t *Tree[K, V, A]) removeDescend(k K) (V, bool) {
	var zero V
	leafID, stack := t.descend(k)
	leaf := t.store.GetLeaf(leafID)

	if len(stack) == 0 {
		// Root is a leaf; it has no minimum occupancy.
		found, idx := leaf.LocateSlot(t.less, k)
		if !found {
			return zero, false
		}
		_, v := leaf.DeleteAt(idx)
		t.len--
		t.store.CacheLeaf(leafID)
		return v, true
	}

	res := leaf.Delete(t.less, t.leafMin(), k)
	switch res.Kind {
	case NotFound:
		return zero, false
	case Done:
		t.len--
		t.store.CacheLeaf(leafID)
		t.refreshStack(stack)
		return res.Value, true
	}

	value := t.rebalanceLeaf(stack, leafID, leaf, res.Idx)
	t.len--
	return value, true
}

// rebalanceLeaf resolves an UnderSize leaf deletion: rotate from
// whichever sibling can lend (ties favor the
// larger sibling, rotate-right over rotate-left), else merge with the
// left sibling if one exists, else the right.
func (t *Tree[K, V, A]) rebalanceLeaf(stack []frame, leafID common.NodeId, leaf *Leaf[K, V], idx int) V {
	parentFrame := stack[len(stack)-1]
	parent := t.store.GetInner(parentFrame.id)
	slot := parentFrame.slot
	min := t.leafMin()

	leftID, rightID := common.NilId, common.NilId
	var left, right *Leaf[K, V]
	var leftLend, rightLend bool

	if slot > 0 {
		leftID = parent.Child(slot - 1)
		left = t.store.GetLeaf(leftID)
		leftLend = left.AbleToLend(min)
	}
	if slot < parent.Size() {
		rightID = parent.Child(slot + 1)
		right = t.store.GetLeaf(rightID)
		rightLend = right.AbleToLend(min)
	}

	var value V

	switch {
	case leftLend && rightLend:
		if left.Size() >= right.Size() {
			value = t.rotateRightLeaf(parent, slot, left, leaf, idx)
		} else {
			value = t.rotateLeftLeaf(parent, slot, leaf, right, idx)
		}
		t.stat.Rotates++
		t.store.CacheLeaf(leafID)
		t.refreshStack(stack)

	case leftLend:
		value = t.rotateRightLeaf(parent, slot, left, leaf, idx)
		t.stat.Rotates++
		t.store.CacheLeaf(leafID)
		t.refreshStack(stack)

	case rightLend:
		value = t.rotateLeftLeaf(parent, slot, leaf, right, idx)
		t.stat.Rotates++
		t.store.CacheLeaf(leafID)
		t.refreshStack(stack)

	case leftID.Valid():
		_, value = left.MergeRightDeleteFirst(idx, leaf)
		if left.Next().Valid() {
			t.store.GetLeaf(left.Next()).SetPrev(leftID)
		}
		t.store.FreeLeaf(leafID)
		t.stat.Merges++
		t.store.CacheLeaf(leftID)
		res := parent.RemoveSlotWithRight(t.innerMin(), slot-1)
		t.log.V(1).Info("leaf merge", "with", "left")
		t.finishLeafMerge(stack, res)

	case rightID.Valid():
		_, value = leaf.DeleteAt(idx)
		leaf.MergeRight(right)
		if leaf.Next().Valid() {
			t.store.GetLeaf(leaf.Next()).SetPrev(leafID)
		}
		t.store.FreeLeaf(rightID)
		t.stat.Merges++
		t.store.CacheLeaf(leafID)
		res := parent.RemoveSlotWithRight(t.innerMin(), slot)
		t.log.V(1).Info("leaf merge", "with", "right")
		t.finishLeafMerge(stack, res)

	default:
		// Sole child of the root; no sibling to rotate or merge with.
		// The root-shrink check after this call resolves it.
		_, value = leaf.DeleteAt(idx)
		t.store.CacheLeaf(leafID)
		t.refreshStack(stack)
	}

	return value
}

func (t *Tree[K, V, A]) rotateRightLeaf(parent *Inner[K, A], slot int, left, leaf *Leaf[K, V], idx int) V {
	k, v := left.Pop(t.leafMin())
	_, dv := leaf.DeleteWithPushFront(idx, k, v)
	first, _, _ := leaf.KeyRange()
	parent.SetKey(slot-1, first)
	return dv
}

func (t *Tree[K, V, A]) rotateLeftLeaf(parent *Inner[K, A], slot int, leaf, right *Leaf[K, V], idx int) V {
	k, v := right.PopFront(t.leafMin())
	_, dv := leaf.DeleteWithPush(idx, k, v)
	first, _, _ := right.KeyRange()
	parent.SetKey(slot, first)
	return dv
}

// finishLeafMerge propagates an inner-node under-size, if any, caused by
// collapsing the leaf's parent after a leaf merge.
func (t *Tree[K, V, A]) finishLeafMerge(stack []frame, res RemoveSlotResult[K]) {
	ancestors := stack[:len(stack)-1]
	if res.Kind == RemoveDone || len(ancestors) == 0 {
		t.refreshStack(stack)
		return
	}
	t.rebalanceInner(ancestors, stack[len(stack)-1].id)
}

// rebalanceInner propagates an under-size inner node upward exactly like
// rebalanceLeaf, but at the granularity of whole (key, child) pairs
// rather than single entries, since the thing being absorbed is an
// entire sibling subtree, not one key/value.
func (t *Tree[K, V, A]) rebalanceInner(ancestors []frame, nodeID common.NodeId) {
	for {
		if len(ancestors) == 0 {
			// nodeID is root; root has no minimum.
			return
		}

		parentFrame := ancestors[len(ancestors)-1]
		parent := t.store.GetInner(parentFrame.id)
		slot := parentFrame.slot
		min := t.innerMin()

		leftID, rightID := common.NilId, common.NilId
		var left, right *Inner[K, A]
		var leftLend, rightLend bool

		if slot > 0 {
			leftID = parent.Child(slot - 1)
			left = t.store.GetInner(leftID)
			leftLend = left.AbleToLend(min)
		}
		if slot < parent.Size() {
			rightID = parent.Child(slot + 1)
			right = t.store.GetInner(rightID)
			rightLend = right.AbleToLend(min)
		}

		node := t.store.GetInner(nodeID)

		switch {
		case leftLend && rightLend:
			if left.Size() >= right.Size() {
				t.rotateRightInner(parent, slot, left, node)
			} else {
				t.rotateLeftInner(parent, slot, node, right)
			}
			t.stat.Rotates++
			t.refreshStack(ancestors)
			return

		case leftLend:
			t.rotateRightInner(parent, slot, left, node)
			t.stat.Rotates++
			t.refreshStack(ancestors)
			return

		case rightLend:
			t.rotateLeftInner(parent, slot, node, right)
			t.stat.Rotates++
			t.refreshStack(ancestors)
			return

		case leftID.Valid():
			sep := parent.Keys()[slot-1]
			left.MergeNext(sep, node)
			t.store.FreeInner(nodeID)
			t.refreshInner(left)
			t.stat.Merges++
			t.log.V(1).Info("inner merge", "with", "left")

			res := parent.RemoveSlotWithRight(min, slot-1)
			t.refreshInner(parent)
			nodeID = parentFrame.id
			ancestors = ancestors[:len(ancestors)-1]
			if res.Kind == RemoveDone || len(ancestors) == 0 {
				t.refreshStack(ancestors)
				return
			}

		default:
			sep := parent.Keys()[slot]
			node.MergeNext(sep, right)
			t.store.FreeInner(rightID)
			t.refreshInner(node)
			t.stat.Merges++
			t.log.V(1).Info("inner merge", "with", "right")

			res := parent.RemoveSlotWithRight(min, slot)
			t.refreshInner(parent)
			nodeID = parentFrame.id
			ancestors = ancestors[:len(ancestors)-1]
			if res.Kind == RemoveDone || len(ancestors) == 0 {
				t.refreshStack(ancestors)
				return
			}
		}
	}
}

func (t *Tree[K, V, A]) rotateRightInner(parent *Inner[K, A], slot int, left, node *Inner[K, A]) {
	sep := parent.Keys()[slot-1]
	lastKey, lastChild := left.Pop(t.innerMin())
	node.PushFront(sep, lastChild)
	parent.SetKey(slot-1, lastKey)
	t.refreshInner(left)
	t.refreshInner(node)
}

func (t *Tree[K, V, A]) rotateLeftInner(parent *Inner[K, A], slot int, node, right *Inner[K, A]) {
	sep := parent.Keys()[slot]
	firstKey, firstChild := right.PopFront(t.innerMin())
	node.Push(sep, firstChild)
	parent.SetKey(slot, firstKey)
	t.refreshInner(right)
	t.refreshInner(node)
}

// maybeShrinkRoot promotes an inner root's sole remaining child to be the
// new root.
func (t *Tree[K, V, A]) maybeShrinkRoot() {
	if !t.root.IsInner() {
		return
	}
	root := t.store.GetInner(t.root)
	if root.Size() > 0 {
		return
	}
	old := t.root
	t.root = root.Child(0)
	t.store.FreeInner(old)
	t.log.V(1).Info("root shrunk")
}
