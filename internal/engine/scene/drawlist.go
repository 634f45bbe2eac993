package scene

import (
	"cmp"
	"slices"

	"github.com/Faultbox/floorview/pkg/math"
)

// DrawItem is one visible leaf with its resolved transform.
type DrawItem struct {
	Node  *Node
	World math.Mat4
	// Root is the index of the root the leaf was collected from.
	Root int
}

// DrawList collects the visible leaves of roots in draw order. Opaque leaves
// of every root come before any transparent leaf; within each pass leaves
// follow root order, then their RenderOrder. A hidden node hides its
// subtree.
func DrawList(dst []DrawItem, roots ...*Node) []DrawItem {
	dst = dst[:0]
	for i, root := range roots {
		dst = collect(dst, root, math.Identity(), i)
	}
	slices.SortStableFunc(dst, func(a, b DrawItem) int {
		at, bt := a.Node.Material.Transparent, b.Node.Material.Transparent
		if at != bt {
			if !at {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.Root, b.Root); c != 0 {
			return c
		}
		return cmp.Compare(a.Node.Material.RenderOrder, b.Node.Material.RenderOrder)
	})
	return dst
}

func collect(dst []DrawItem, n *Node, parent math.Mat4, root int) []DrawItem {
	if n == nil || !n.Visible {
		return dst
	}
	world := parent.Mul(n.LocalMatrix())
	if n.IsLeaf() && n.Mesh != nil && n.Material.Opacity > 0 {
		dst = append(dst, DrawItem{Node: n, World: world, Root: root})
	}
	for _, c := range n.Children {
		dst = collect(dst, c, world, root)
	}
	return dst
}
