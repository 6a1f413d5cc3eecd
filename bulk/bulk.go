// Package bulk builds a Map directly from a pre-sorted key/value sequence
// in one pass, instead of paying for n repeated Insert calls and their
// splits: the leaf level is built first, then the previous level's nodes
// are repeatedly grouped into parents until one root remains.
package bulk

import (
	"github.com/daicang/ordmap/aug"
	"github.com/daicang/ordmap/common"
	"github.com/daicang/ordmap/kv"
	"github.com/daicang/ordmap/logs"
	"github.com/daicang/ordmap/ordmap"
	"github.com/daicang/ordmap/store"
	"github.com/daicang/ordmap/tree"
)

// Load builds a Map from keys and values, which must already be sorted in
// strictly ascending order per less and have equal length; behavior is
// undefined otherwise. Runs in a single pass over the input plus O(n/LN)
// work to assemble the inner levels, rather than the O(n log n) a
// from-scratch sequence of Inserts would cost.
func Load[K any, V any](keys []K, values []V, less kv.Less[K], opts ordmap.Options) *ordmap.Map[K, V] {
	in, ln := ordmap.ResolveFanout(opts)
	s := store.New[K, V, struct{}](in, ln)

	if len(keys) == 0 {
		t := tree.New[K, V, struct{}](s, less, aug.None[K]{}, logs.Discard())
		return ordmap.FromTree(t)
	}

	leafIDs, firstKeys := buildLeaves[K, V, struct{}](s, less, ln, keys, values)
	rootID := buildLevels[K, V, struct{}](s, in, leafIDs, firstKeys)

	t := tree.NewFromRoot[K, V, struct{}](s, less, aug.None[K]{}, logs.Discard(), rootID, len(keys))
	return ordmap.FromTree(t)
}

// chunkSizes splits n items into groups no larger than maxSize, each as
// close to equal as possible. A single resulting group is exempt from
// the tree's minimum occupancy rule, since it is about to become the
// root; for more than one group, base stays at or above the minimum for
// even fan-outs.
func chunkSizes(n, maxSize int) []int {
	if n <= maxSize {
		return []int{n}
	}
	count := (n + maxSize - 1) / maxSize
	base := n / count
	rem := n % count
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}

func buildLeaves[K any, V any, A any](s tree.Store[K, V, A], less kv.Less[K], ln int, keys []K, values []V) ([]common.NodeId, []K) {
	sizes := chunkSizes(len(keys), ln)

	ids := make([]common.NodeId, len(sizes))
	firstKeys := make([]K, len(sizes))

	offset := 0
	for i, size := range sizes {
		leaf := tree.NewLeaf[K, V]()
		for j := 0; j < size; j++ {
			leaf.Upsert(less, ln, keys[offset+j], values[offset+j])
		}
		id := s.ReserveLeaf()
		s.AssignLeaf(id, leaf)
		ids[i] = id
		firstKeys[i] = keys[offset]
		offset += size
	}

	for i := range ids {
		prev, next := common.NilId, common.NilId
		if i > 0 {
			prev = ids[i-1]
		}
		if i+1 < len(ids) {
			next = ids[i+1]
		}
		leaf := s.GetLeaf(ids[i])
		leaf.SetPrev(prev)
		leaf.SetNext(next)
	}

	return ids, firstKeys
}

// buildLevels repeatedly groups the previous level's node ids into parent
// inner nodes until a single root id remains.
func buildLevels[K any, V any, A any](s tree.Store[K, V, A], in int, childIDs []common.NodeId, firstKeys []K) common.NodeId {
	for len(childIDs) > 1 {
		sizes := chunkSizes(len(childIDs), in+1)

		newIDs := make([]common.NodeId, len(sizes))
		newFirstKeys := make([]K, len(sizes))

		offset := 0
		for i, size := range sizes {
			inner := tree.NewInnerWithFirstChild[K, A](childIDs[offset])
			for j := offset + 1; j < offset+size; j++ {
				inner.Push(firstKeys[j], childIDs[j])
			}
			id := s.ReserveInner()
			s.AssignInner(id, inner)
			newIDs[i] = id
			newFirstKeys[i] = firstKeys[offset]
			offset += size
		}

		childIDs, firstKeys = newIDs, newFirstKeys
	}

	return childIDs[0]
}
