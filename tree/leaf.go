package tree

import (
	"sort"

	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/internal/invariant"
	"github.com/daicang/ordmap/kv"
)

// Leaf is a B+ tree leaf node: an ordered run of up to the store's leaf
// fanout key/value pairs, plus the prev/next links that form the doubly
// linked leaf chain. The parallel-array layout (separate keys/values
// slices, rather than interleaved pairs) keeps key-only scans
// (locateSlot, KeyRange) off the value slice.
type Leaf[K any, V any] struct {
	keys   []K
	values []V
	prev   common.NodeId
	next   common.NodeId
}

func newLeaf[K any, V any]() *Leaf[K, V] {
	return &Leaf[K, V]{prev: common.NilId, next: common.NilId}
}

// NewLeaf builds an empty leaf, for use by Store implementations outside
// this package.
func NewLeaf[K any, V any]() *Leaf[K, V] { return newLeaf[K, V]() }

func (l *Leaf[K, V]) size() int { return len(l.keys) }

// Size reports the number of initialized entries.
func (l *Leaf[K, V]) Size() int { return len(l.keys) }

// Prev returns the id of the leaf preceding this one in the chain, or
// common.NilId at the start of the chain.
func (l *Leaf[K, V]) Prev() common.NodeId { return l.prev }

// Next returns the id of the leaf following this one in the chain, or
// common.NilId at the end of the chain.
func (l *Leaf[K, V]) Next() common.NodeId { return l.next }

// SetPrev rewires the prev link, used by the tree driver when a
// neighboring leaf is spliced in or removed from the chain.
func (l *Leaf[K, V]) SetPrev(id common.NodeId) { l.prev = id }

// SetNext rewires the next link.
func (l *Leaf[K, V]) SetNext(id common.NodeId) { l.next = id }

// AbleToLend reports whether this leaf can donate one entry to a sibling
// without dropping below min.
func (l *Leaf[K, V]) AbleToLend(min int) bool { return l.size() > min }

// Keys exposes the initialized key prefix, for in-order traversal and
// augmentation folds. Callers must not retain or mutate the slice past
// the next structural change to this leaf.
func (l *Leaf[K, V]) Keys() []K { return l.keys }

// Values exposes the initialized value prefix.
func (l *Leaf[K, V]) Values() []V { return l.values }

// KeyRange returns the leaf's first and last key, and false when the leaf
// is empty (only possible transiently, for the root).
func (l *Leaf[K, V]) KeyRange() (first, last K, ok bool) {
	if len(l.keys) == 0 {
		return first, last, false
	}
	return l.keys[0], l.keys[len(l.keys)-1], true
}

// locateSlot binary-searches for k, returning (found, idx). idx is the
// entry's position when found; otherwise it's the index that keeps keys
// in sorted order if k were inserted there.
func (l *Leaf[K, V]) locateSlot(less kv.Less[K], k K) (bool, int) {
	idx := sort.Search(len(l.keys), func(i int) bool { return !less(l.keys[i], k) })
	if idx < len(l.keys) && less.Equal(l.keys[idx], k) {
		return true, idx
	}
	return false, idx
}

// LocateSlot exposes locateSlot for callers outside the package (cursor
// lookups, the tree driver's descent).
func (l *Leaf[K, V]) LocateSlot(less kv.Less[K], k K) (bool, int) {
	return l.locateSlot(less, k)
}

// UpsertKind discriminates the outcome of Upsert.
type UpsertKind int

const (
	// Inserted means a new entry was added; the leaf was not full.
	Inserted UpsertKind = iota
	// Updated means an existing entry's value was replaced.
	Updated
	// LeafFull means the key was absent and the leaf has no room; the
	// caller must split before inserting.
	LeafFull
)

// UpsertResult reports the outcome of Upsert.
type UpsertResult[K any, V any] struct {
	Kind UpsertKind
	Prev V   // valid when Kind == Updated
	Idx  int // valid when Kind == LeafFull: the provisional insertion point
}

// Upsert inserts or updates (k, v). ln is the leaf's maximum entry count.
func (l *Leaf[K, V]) Upsert(less kv.Less[K], ln int, k K, v V) UpsertResult[K, V] {
	found, idx := l.locateSlot(less, k)
	if found {
		prev := l.values[idx]
		l.values[idx] = v
		return UpsertResult[K, V]{Kind: Updated, Prev: prev}
	}
	if l.size() >= ln {
		return UpsertResult[K, V]{Kind: LeafFull, Idx: idx}
	}
	l.insertAt(idx, k, v)
	return UpsertResult[K, V]{Kind: Inserted}
}

func (l *Leaf[K, V]) insertAt(idx int, k K, v V) {
	var zeroK K
	var zeroV V

	l.keys = append(l.keys, zeroK)
	copy(l.keys[idx+1:], l.keys[idx:])
	l.keys[idx] = k

	l.values = append(l.values, zeroV)
	copy(l.values[idx+1:], l.values[idx:])
	l.values[idx] = v
}

// DeleteKind discriminates the outcome of Delete.
type DeleteKind int

const (
	// NotFound means k is absent.
	NotFound DeleteKind = iota
	// Done means the entry was removed; the leaf still meets its minimum.
	Done
	// UnderSize means the entry exists at Idx but removing it would drop
	// the leaf below minimum; physical removal is left to the caller's
	// rebalancing path.
	UnderSize
)

// DeleteResult reports the outcome of Delete.
type DeleteResult[K any, V any] struct {
	Kind  DeleteKind
	Value V   // valid when Kind == Done
	Idx   int // valid when Kind == UnderSize
}

// Delete removes k if it is present and the leaf can spare it. min is the
// leaf's minimum occupancy.
func (l *Leaf[K, V]) Delete(less kv.Less[K], min int, k K) DeleteResult[K, V] {
	found, idx := l.locateSlot(less, k)
	if !found {
		return DeleteResult[K, V]{Kind: NotFound}
	}
	if l.size() <= min {
		return DeleteResult[K, V]{Kind: UnderSize, Idx: idx}
	}
	_, v := l.deleteAt(idx)
	return DeleteResult[K, V]{Kind: Done, Value: v}
}

func (l *Leaf[K, V]) deleteAt(idx int) (K, V) {
	k := l.keys[idx]
	v := l.values[idx]

	copy(l.keys[idx:], l.keys[idx+1:])
	l.keys = l.keys[:len(l.keys)-1]

	copy(l.values[idx:], l.values[idx+1:])
	l.values = l.values[:len(l.values)-1]

	return k, v
}

// DeleteAt unconditionally removes the entry at idx.
func (l *Leaf[K, V]) DeleteAt(idx int) (K, V) { return l.deleteAt(idx) }

// Pop removes and returns the last entry. Requires AbleToLend(min).
func (l *Leaf[K, V]) Pop(min int) (K, V) {
	invariant.Assert(l.AbleToLend(min), "pop from leaf at minimum occupancy")
	return l.deleteAt(l.size() - 1)
}

// PopFront removes and returns the first entry. Requires AbleToLend(min).
func (l *Leaf[K, V]) PopFront(min int) (K, V) {
	invariant.Assert(l.AbleToLend(min), "pop-front from leaf at minimum occupancy")
	return l.deleteAt(0)
}

// DeleteWithPush atomically removes the entry at idx and appends (k, v)
// at the tail, used by rotate-left so the leaf never dips below min
// mid-rebalance. k must sort after everything remaining in the leaf.
// Returns the removed (not pushed) entry.
func (l *Leaf[K, V]) DeleteWithPush(idx int, k K, v V) (K, V) {
	dk, dv := l.deleteAt(idx)
	l.keys = append(l.keys, k)
	l.values = append(l.values, v)
	return dk, dv
}

// DeleteWithPushFront atomically removes the entry at idx and prepends
// (k, v) at the head, used by rotate-right. k must sort before
// everything remaining in the leaf. Returns the removed (not pushed)
// entry.
func (l *Leaf[K, V]) DeleteWithPushFront(idx int, k K, v V) (K, V) {
	dk, dv := l.deleteAt(idx)
	l.insertAt(0, k, v)
	return dk, dv
}

// SplitNewLeaf splits a full leaf into two, inserting (k, v) into
// whichever half insertIdx (the provisional position reported by Upsert)
// falls into. selfID and newID wire the sibling links: the returned
// right leaf gets prev = selfID, next = l's old next, and l.next is set
// to newID. The caller must still fix the leaf previously at l's old
// next to point prev = newID.
func (l *Leaf[K, V]) SplitNewLeaf(ln int, insertIdx int, k K, v V, selfID, newID common.NodeId) *Leaf[K, V] {
	p := ln / 2
	right := newLeaf[K, V]()

	right.keys = append(right.keys, l.keys[p:]...)
	right.values = append(right.values, l.values[p:]...)
	l.keys = l.keys[:p]
	l.values = l.values[:p]

	right.prev = selfID
	right.next = l.next
	l.next = newID

	if insertIdx >= p {
		right.insertAt(insertIdx-p, k, v)
	} else {
		l.insertAt(insertIdx, k, v)
	}

	return right
}

// MergeRight appends all of right's entries onto l and absorbs its next
// link. right is left logically empty; the caller reclaims its id.
func (l *Leaf[K, V]) MergeRight(right *Leaf[K, V]) {
	l.keys = append(l.keys, right.keys...)
	l.values = append(l.values, right.values...)
	l.next = right.next
}

// MergeRightDeleteFirst absorbs right into l, skipping right's entry at
// idx (the deletion originally requested there), and returns the
// skipped pair.
func (l *Leaf[K, V]) MergeRightDeleteFirst(idx int, right *Leaf[K, V]) (K, V) {
	dk, dv := right.deleteAt(idx)
	l.MergeRight(right)
	return dk, dv
}
