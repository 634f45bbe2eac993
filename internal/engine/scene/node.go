// Package scene provides the scene-graph nodes animated and drawn by the viewer.
package scene

import (
	"strconv"

	"github.com/Faultbox/floorview/pkg/math"
)

// Shape identifies a primitive mesh geometry.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeSphere
)

// String returns the shape name used in model files.
func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Mesh is primitive geometry centered on the node origin.
type Mesh struct {
	Shape Shape
	// Size is the box extent, or the sphere diameter on each axis.
	Size math.Vec3
	// Segments is the sphere tessellation (ignored for boxes).
	Segments int
}

// Material describes how a leaf is composited.
type Material struct {
	Color       [3]float32
	Opacity     float32
	Transparent bool
	DepthWrite  bool
	RenderOrder int
}

// Node is a scene-graph node with a local transform.
// A node carrying a Material is a leaf and is drawn by the renderer.
type Node struct {
	// ID is stable for the lifetime of one loaded asset: the slash-joined
	// name path from the asset root.
	ID       string
	Name     string
	Position math.Vec3
	Scale    math.Vec3
	Visible  bool

	Mesh     *Mesh
	Material *Material

	Children []*Node
	parent   *Node
}

// NewGroup creates an empty transform node.
func NewGroup(name string) *Node {
	return &Node{
		ID:      name,
		Name:    name,
		Scale:   math.One,
		Visible: true,
	}
}

// NewMesh creates a leaf node with the given geometry and material.
func NewMesh(name string, mesh Mesh, mat Material) *Node {
	n := NewGroup(name)
	n.Mesh = &mesh
	n.Material = &mat
	return n
}

// Add attaches children and assigns their IDs below n.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		c.parent = n
		n.Children = append(n.Children, c)
	}
	n.AssignIDs()
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLeaf reports whether the node carries a material.
func (n *Node) IsLeaf() bool {
	return n.Material != nil
}

// AssignIDs recomputes IDs for the subtree rooted at n. Duplicate sibling
// names get a "#i" suffix so every ID is unique within the tree.
func (n *Node) AssignIDs() {
	seen := make(map[string]int, len(n.Children))
	for _, c := range n.Children {
		name := c.Name
		if k := seen[c.Name]; k > 0 {
			name = c.Name + "#" + strconv.Itoa(k)
		}
		seen[c.Name]++
		c.ID = n.ID + "/" + name
		c.AssignIDs()
	}
}

// Traverse visits n and its descendants depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Leaves returns all leaves in traversal order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Traverse(func(c *Node) {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
	})
	return leaves
}

// Find returns the node with the given ID, or nil.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Traverse(func(c *Node) {
		if found == nil && c.ID == id {
			found = c
		}
	})
	return found
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.TRS(n.Position, n.Scale)
}

// WorldMatrix returns the node transform relative to the tree root's parent space.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Clone deep-copies the subtree. The clone is a root (no parent).
func (n *Node) Clone() *Node {
	c := &Node{
		ID:       n.ID,
		Name:     n.Name,
		Position: n.Position,
		Scale:    n.Scale,
		Visible:  n.Visible,
	}
	if n.Mesh != nil {
		mesh := *n.Mesh
		c.Mesh = &mesh
	}
	if n.Material != nil {
		mat := *n.Material
		c.Material = &mat
	}
	for _, child := range n.Children {
		cc := child.Clone()
		cc.parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}
