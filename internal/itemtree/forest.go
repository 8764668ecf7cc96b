// Package itemtree assembles flat item rows into parent/child forests and
// walks descendant sets for subtree deletion.
package itemtree

import "smartchecklist/internal/models"

// Forest is the result of arranging a flat item list into trees.
type Forest struct {
	// Roots holds top-level items in input order.
	Roots []*models.ItemNode
	// Dangling lists ids of items whose parent was not part of the input.
	// They are left out of Roots and of every subtree.
	Dangling []uint
}

// BuildForest arranges items into trees by parent id in two linear passes.
// Children keep the relative order they had in items. Records caught in a
// parent cycle are never attached to a root, so every tree reachable from
// Roots is finite.
func BuildForest(items []*models.Item) Forest {
	nodes := make(map[uint]*models.ItemNode, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		nodes[item.ID] = models.NewItemNode(item)
	}

	forest := Forest{Roots: []*models.ItemNode{}}
	for _, item := range items {
		if item == nil {
			continue
		}
		node := nodes[item.ID]
		if item.ParentItemID == nil {
			forest.Roots = append(forest.Roots, node)
			continue
		}
		parent, ok := nodes[*item.ParentItemID]
		if !ok {
			forest.Dangling = append(forest.Dangling, item.ID)
			continue
		}
		parent.Subitems = append(parent.Subitems, node)
	}
	return forest
}

// Count returns the number of items reachable from the roots.
func (f Forest) Count() int {
	n := 0
	f.Walk(func(*models.ItemNode, int) { n++ })
	return n
}

// Flatten returns the reachable items in depth-first, pre-order sequence.
func (f Forest) Flatten() []*models.Item {
	out := make([]*models.Item, 0, len(f.Roots))
	f.Walk(func(node *models.ItemNode, _ int) {
		out = append(out, node.Item)
	})
	return out
}

// Walk visits every reachable node depth-first with its depth (roots are 0).
func (f Forest) Walk(fn func(node *models.ItemNode, depth int)) {
	type frame struct {
		node  *models.ItemNode
		depth int
	}
	stack := make([]frame, 0, len(f.Roots))
	for i := len(f.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{f.Roots[i], 0})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(top.node, top.depth)
		for i := len(top.node.Subitems) - 1; i >= 0; i-- {
			stack = append(stack, frame{top.node.Subitems[i], top.depth + 1})
		}
	}
}
