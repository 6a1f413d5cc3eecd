package tree

import "github.com/daicang/ordmap/common"

// Cursor is an owned position in the tree: a key plus the leaf and slot it
// last resolved to. Mutating the tree (insert/remove/split/merge/rotate)
// can move an entry between leaves or shift its slot, so a Cursor is
// never trusted blindly - every access re-validates against the key and
// re-locates on mismatch.
//
// Cursor operations are free functions, not methods on Tree, because a
// method cannot introduce a type parameter beyond its receiver's; Value
// and the navigation functions all need V alongside Tree's K, V, A.
type Cursor[K any] struct {
	key    K
	leafID common.NodeId
	slot   int
	valid  bool
}

// CursorFirst returns a cursor positioned at the smallest key, or an
// invalid cursor if the tree is empty.
func CursorFirst[K any, V any, A any](t *Tree[K, V, A]) Cursor[K] {
	leafID := t.firstLeafID()
	leaf := t.store.GetLeaf(leafID)
	if leaf.Size() == 0 {
		return Cursor[K]{}
	}
	return Cursor[K]{key: leaf.Keys()[0], leafID: leafID, slot: 0, valid: true}
}

// GetCursor returns a cursor positioned at k, or an invalid cursor if k is
// absent.
func GetCursor[K any, V any, A any](t *Tree[K, V, A], k K) Cursor[K] {
	leafID, _ := t.descend(k)
	leaf := t.store.GetLeaf(leafID)
	found, idx := leaf.LocateSlot(t.less, k)
	if !found {
		return Cursor[K]{}
	}
	return Cursor[K]{key: k, leafID: leafID, slot: idx, valid: true}
}

// resolve re-locates c's key, since the leaf/slot it was last seen at may
// have moved under mutation. Returns the current leaf and slot, and false
// if the key is no longer present.
func resolve[K any, V any, A any](t *Tree[K, V, A], c Cursor[K]) (common.NodeId, int, bool) {
	leafID, idx, found := locate(t, c)
	if !found {
		return common.NilId, 0, false
	}
	return leafID, idx, true
}

// locate re-locates c's key like resolve, but also reports the position
// neighboring keys would occupy when c's key is no longer present - the
// insertion point a binary search would return. CursorNext/CursorPrev use
// this so a cursor whose key was removed can still advance to the correct
// neighbor, while CursorValue (via resolve) correctly reports no value
// for it.
func locate[K any, V any, A any](t *Tree[K, V, A], c Cursor[K]) (leafID common.NodeId, idx int, found bool) {
	if !c.valid {
		return common.NilId, 0, false
	}
	// c.leafID may have been freed (and its arena slot possibly reused for
	// an unrelated leaf) by a merge since the cursor was captured; a nil
	// leaf here means the hint is dead, so fall through to re-descending
	// by key rather than dereferencing it.
	if leaf := t.store.GetLeaf(c.leafID); leaf != nil && c.slot < leaf.Size() && t.less.Equal(leaf.Keys()[c.slot], c.key) {
		return c.leafID, c.slot, true
	}
	leafID, _ = t.descend(c.key)
	found, idx = t.store.GetLeaf(leafID).LocateSlot(t.less, c.key)
	return leafID, idx, found
}

// CursorValue returns the value at c's key, re-resolving c first.
func CursorValue[K any, V any, A any](t *Tree[K, V, A], c Cursor[K]) (V, bool) {
	var zero V
	leafID, idx, ok := resolve(t, c)
	if !ok {
		return zero, false
	}
	return t.store.GetLeaf(leafID).Values()[idx], true
}

// CursorNext returns a cursor at the key immediately after c's, re-
// resolving c first. If c's key was removed, idx already names the
// position of the first remaining key greater than it, so the same index
// serves as "next" without adjustment. Returns an invalid cursor past the
// last entry.
func CursorNext[K any, V any, A any](t *Tree[K, V, A], c Cursor[K]) Cursor[K] {
	leafID, idx, found := locate(t, c)
	if leafID == common.NilId {
		return Cursor[K]{}
	}
	leaf := t.store.GetLeaf(leafID)
	next := idx
	if found {
		next = idx + 1
	}
	if next < leaf.Size() {
		return Cursor[K]{key: leaf.Keys()[next], leafID: leafID, slot: next, valid: true}
	}
	nextID := leaf.Next()
	if !nextID.Valid() {
		return Cursor[K]{}
	}
	nextLeaf := t.store.GetLeaf(nextID)
	if nextLeaf.Size() == 0 {
		return Cursor[K]{}
	}
	return Cursor[K]{key: nextLeaf.Keys()[0], leafID: nextID, slot: 0, valid: true}
}

// CursorPrev returns a cursor at the key immediately before c's, re-
// resolving c first. If c's key was removed, idx names the position of
// the first remaining key greater than it, so idx-1 is the predecessor.
// Returns an invalid cursor before the first entry.
func CursorPrev[K any, V any, A any](t *Tree[K, V, A], c Cursor[K]) Cursor[K] {
	leafID, idx, _ := locate(t, c)
	if leafID == common.NilId {
		return Cursor[K]{}
	}
	if idx > 0 {
		leaf := t.store.GetLeaf(leafID)
		return Cursor[K]{key: leaf.Keys()[idx-1], leafID: leafID, slot: idx - 1, valid: true}
	}
	prevID := t.store.GetLeaf(leafID).Prev()
	if !prevID.Valid() {
		return Cursor[K]{}
	}
	prevLeaf := t.store.GetLeaf(prevID)
	n := prevLeaf.Size()
	if n == 0 {
		return Cursor[K]{}
	}
	return Cursor[K]{key: prevLeaf.Keys()[n-1], leafID: prevID, slot: n - 1, valid: true}
}

// Valid reports whether c refers to a position rather than being empty.
// It does not re-check presence; use CursorValue for that.
func (c Cursor[K]) Valid() bool { return c.valid }

// Key returns the key c was positioned at.
func (c Cursor[K]) Key() K { return c.key }
