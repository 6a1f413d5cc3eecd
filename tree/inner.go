package tree

import (
	"sort"

	"github.com/daicang/ordmap/aug"
	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/internal/invariant"
	"github.com/daicang/ordmap/kv"
)

// Inner is a B+ tree inner node: up to the store's inner fanout separator
// keys and fanout+1 child ids, plus an optional augmentation summary of
// its subtree.
type Inner[K any, A any] struct {
	keys     []K
	children []common.NodeId
	summary  A
}

func newInner[K any, A any]() *Inner[K, A] {
	return &Inner[K, A]{}
}

// NewInner builds an empty inner node, for use by Store implementations
// outside this package.
func NewInner[K any, A any]() *Inner[K, A] { return newInner[K, A]() }

// NewInnerWithFirstChild builds an inner node with no separators yet but
// already wired to first as its sole (leftmost) child, for bulk
// construction that appends further (key, child) pairs left to right via
// Push.
func NewInnerWithFirstChild[K any, A any](first common.NodeId) *Inner[K, A] {
	n := newInner[K, A]()
	n.children = append(n.children, first)
	return n
}

func (n *Inner[K, A]) size() int { return len(n.keys) }

// Size reports the number of separator keys.
func (n *Inner[K, A]) Size() int { return len(n.keys) }

// IsFull reports whether the node holds the maximum in separator keys.
func (n *Inner[K, A]) IsFull(in int) bool { return n.size() == in }

// AbleToLend reports whether this node can donate one separator/child
// pair without dropping below min.
func (n *Inner[K, A]) AbleToLend(min int) bool { return n.size() > min }

// Keys exposes the separator keys in order.
func (n *Inner[K, A]) Keys() []K { return n.keys }

// Children exposes the child ids in order; len(Children()) == len(Keys())+1.
func (n *Inner[K, A]) Children() []common.NodeId { return n.children }

// Child returns the child id at slot.
func (n *Inner[K, A]) Child(slot int) common.NodeId { return n.children[slot] }

// SetKey overwrites the separator at i, used when a rotation changes
// which key divides two siblings.
func (n *Inner[K, A]) SetKey(i int, k K) { n.keys[i] = k }

// Summary returns the node's current augmentation summary.
func (n *Inner[K, A]) Summary() A { return n.summary }

// Refresh recomputes the node's summary from its children's summaries;
// any structural change to this node must be followed by a Refresh.
func (n *Inner[K, A]) Refresh(augmentation aug.Augmentation[K, A], childSummaries []A) {
	n.summary = augmentation.FromInner(n.keys, childSummaries)
}

// LocateChild binary-searches the separators for k. Equality routes
// right: key(i) is the first key of child(i+1), so child(i) holds keys
// strictly less than key(i).
func (n *Inner[K, A]) LocateChild(less kv.Less[K], k K) (slot int, id common.NodeId) {
	i := sort.Search(len(n.keys), func(i int) bool { return less(k, n.keys[i]) })
	return i, n.children[i]
}

// InsertAt inserts a separator key and its right child at slot. Callers
// must ensure the node is not already full, except when called from
// Split, which transiently overflows the node by one before dividing it.
func (n *Inner[K, A]) InsertAt(slot int, key K, rightChild common.NodeId) {
	var zeroK K

	n.keys = append(n.keys, zeroK)
	copy(n.keys[slot+1:], n.keys[slot:])
	n.keys[slot] = key

	n.children = append(n.children, common.NilId)
	copy(n.children[slot+2:], n.children[slot+1:])
	n.children[slot+1] = rightChild
}

// Split divides a full node into two halves after inserting (key,
// rightChild) at slot. Returns the promoted key - the separator that
// correctly divides the two halves, lifted into the parent rather than
// kept in either child - and the newly allocated right half.
func (n *Inner[K, A]) Split(slot int, key K, rightChild common.NodeId) (promoted K, right *Inner[K, A]) {
	n.InsertAt(slot, key, rightChild)

	mid := len(n.keys) / 2
	promoted = n.keys[mid]

	right = newInner[K, A]()
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)

	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	return promoted, right
}

// Pop removes and returns the last (key, rightChild) pair. Requires
// AbleToLend(min).
func (n *Inner[K, A]) Pop(min int) (K, common.NodeId) {
	invariant.Assert(n.AbleToLend(min), "pop from inner node at minimum occupancy")

	k := n.keys[len(n.keys)-1]
	c := n.children[len(n.children)-1]
	n.keys = n.keys[:len(n.keys)-1]
	n.children = n.children[:len(n.children)-1]
	return k, c
}

// PopFront removes and returns the first (key, leftChild) pair. Requires
// AbleToLend(min).
func (n *Inner[K, A]) PopFront(min int) (K, common.NodeId) {
	invariant.Assert(n.AbleToLend(min), "pop-front from inner node at minimum occupancy")

	k := n.keys[0]
	c := n.children[0]

	copy(n.keys, n.keys[1:])
	n.keys = n.keys[:len(n.keys)-1]

	copy(n.children, n.children[1:])
	n.children = n.children[:len(n.children)-1]

	return k, c
}

// Push appends a separator key and its right child at the tail.
func (n *Inner[K, A]) Push(key K, child common.NodeId) {
	n.keys = append(n.keys, key)
	n.children = append(n.children, child)
}

// PushFront prepends a separator key and its left child at the head.
func (n *Inner[K, A]) PushFront(key K, child common.NodeId) {
	var zeroK K
	n.keys = append(n.keys, zeroK)
	copy(n.keys[1:], n.keys)
	n.keys[0] = key

	n.children = append(n.children, common.NilId)
	copy(n.children[1:], n.children)
	n.children[0] = child
}

// MergeNext absorbs right into n by appending separator followed by
// right's keys, then all of right's children.
func (n *Inner[K, A]) MergeNext(separator K, right *Inner[K, A]) {
	n.keys = append(n.keys, separator)
	n.keys = append(n.keys, right.keys...)
	n.children = append(n.children, right.children...)
}

// RemoveResultKind discriminates the outcome of RemoveSlotWithRight.
type RemoveResultKind int

const (
	// RemoveDone means the node still meets min after the removal.
	RemoveDone RemoveResultKind = iota
	// RemoveUnderSize means the node now violates min and must be
	// rebalanced by its parent.
	RemoveUnderSize
)

// RemoveSlotResult reports the outcome of RemoveSlotWithRight.
type RemoveSlotResult[K any] struct {
	Key  K
	Kind RemoveResultKind
}

// RemoveSlotWithRight removes key(slot) and the child at slot+1 (a merge
// consumed that child), reporting whether the node still meets min.
func (n *Inner[K, A]) RemoveSlotWithRight(min, slot int) RemoveSlotResult[K] {
	k := n.keys[slot]

	copy(n.keys[slot:], n.keys[slot+1:])
	n.keys = n.keys[:len(n.keys)-1]

	copy(n.children[slot+1:], n.children[slot+2:])
	n.children = n.children[:len(n.children)-1]

	kind := RemoveDone
	if n.size() < min {
		kind = RemoveUnderSize
	}
	return RemoveSlotResult[K]{Key: k, Kind: kind}
}
