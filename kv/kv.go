// Package kv supplies the comparator type the tree uses to order keys of
// any type: a single Less function plus the derived Equal/GreaterEqual
// helpers, so the same tree engine can order ints, strings, or composite
// struct keys.
package kv

import "golang.org/x/exp/constraints"

// Less reports whether a sorts strictly before b under the caller's total
// order over K. Every ordering decision in the tree flows through a Less
// value captured once at construction, never through a built-in operator.
type Less[K any] func(a, b K) bool

// Ordered builds a Less from the built-in "<" operator, for keys that
// already satisfy constraints.Ordered. Composite keys (e.g. the (group,
// seq) tuple used by the augmentation demo) must supply their own Less.
func Ordered[K constraints.Ordered]() Less[K] {
	return func(a, b K) bool { return a < b }
}

// Equal reports whether a and b are equivalent under less: neither sorts
// before the other.
func (less Less[K]) Equal(a, b K) bool {
	return !less(a, b) && !less(b, a)
}

// GreaterEqual reports whether a does not sort before b.
func (less Less[K]) GreaterEqual(a, b K) bool {
	return !less(a, b)
}
