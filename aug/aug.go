// Package aug defines the augmentation framework: a pluggable, per-inner-
// node summary of a subtree's contents, plus the default no-op
// implementation clients pay nothing for when they do not need one.
package aug

// Augmentation folds a subtree's contents into a summary value of type A.
// A tree is parameterized by one Augmentation implementation for its
// whole lifetime; the zero-cost default is None.
type Augmentation[K any, A any] interface {
	// FromLeaf folds a leaf's in-order key sequence into a summary.
	FromLeaf(keys []K) A

	// FromInner folds an inner node's separator keys and its children's
	// summaries (left to right) into this node's summary.
	FromInner(separators []K, children []A) A
}

// Query is implemented by augmentations that support descending the tree
// to answer an order-statistic-style question, e.g. "the i-th key in
// group g". Q is the query type, adjusted at each level as the search
// descends past earlier siblings.
type Query[K any, A any, Q any] interface {
	Augmentation[K, A]

	// LocateInLeaf returns the index of the key answering q within this
	// leaf's key sequence, or false if q is not answered here.
	LocateInLeaf(q Q, keys []K) (int, bool)

	// LocateInInner returns which child to descend into to answer q,
	// along with q adjusted for the entries already passed over in
	// earlier siblings. Returns false if no child can answer q.
	LocateInInner(q Q, separators []K, children []A) (childSlot int, next Q, ok bool)
}

// None is the default, no-op augmentation: every summary is the empty
// struct, so a tree that never asks for one pays no storage or fold cost
// beyond a single zero-sized value per inner node.
type None[K any] struct{}

// FromLeaf implements Augmentation.
func (None[K]) FromLeaf(_ []K) struct{} { return struct{}{} }

// FromInner implements Augmentation.
func (None[K]) FromInner(_ []K, _ []struct{}) struct{} { return struct{}{} }
