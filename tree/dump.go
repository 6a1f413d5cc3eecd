package tree

import (
	"fmt"

	"github.com/daicang/ordmap/common"
	"github.com/xlab/treeprint"
)

// Dump renders the tree's structure for debugging: each inner node as a
// branch labeled with its separator keys, each leaf as a terminal node
// labeled with its key range.
func (t *Tree[K, V, A]) Dump() string {
	root := treeprint.New()
	t.dumpNode(root, t.root)
	return root.String()
}

func (t *Tree[K, V, A]) dumpNode(parent treeprint.Tree, id common.NodeId) {
	if id.IsLeaf() {
		leaf := t.store.GetLeaf(id)
		if leaf.Size() == 0 {
			parent.AddNode("leaf (empty)")
			return
		}
		first, last, _ := leaf.KeyRange()
		parent.AddNode(fmt.Sprintf("leaf [%v .. %v] (%d)", first, last, leaf.Size()))
		return
	}

	inner := t.store.GetInner(id)
	branch := parent.AddBranch(fmt.Sprintf("inner %v", inner.Keys()))
	for _, child := range inner.Children() {
		t.dumpNode(branch, child)
	}
}
