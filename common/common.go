// Package common holds types shared across the store, tree, and facade
// packages.
package common

// Kind tags a NodeId as addressing the leaf or inner arena.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindInner
)

// noIndex marks a NodeId as not referring to any node, regardless of Kind.
const noIndex = ^uint32(0)

// NodeId is a small tagged identifier addressing a slot in one of the
// node store's arenas.
type NodeId struct {
	Kind Kind
	Idx  uint32
}

// NilId is the identifier that refers to no node, used for leaf sibling
// links at the ends of the chain and for absent siblings or lookup results.
var NilId = NodeId{Idx: noIndex}

// LeafId tags idx as addressing the leaf arena.
func LeafId(idx uint32) NodeId { return NodeId{Kind: KindLeaf, Idx: idx} }

// InnerId tags idx as addressing the inner arena.
func InnerId(idx uint32) NodeId { return NodeId{Kind: KindInner, Idx: idx} }

// Valid reports whether id refers to an actual node.
func (id NodeId) Valid() bool { return id.Idx != noIndex }

// IsLeaf reports whether id addresses the leaf arena.
func (id NodeId) IsLeaf() bool { return id.Kind == KindLeaf }

// IsInner reports whether id addresses the inner arena.
func (id NodeId) IsInner() bool { return id.Kind == KindInner }

// Statistic exposes rebalancing counters for observability: how many
// splits, merges, and rotations the tree has performed over its lifetime.
type Statistic struct {
	Splits  int
	Merges  int
	Rotates int
}
