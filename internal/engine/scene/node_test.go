package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/floorview/pkg/math"
)

func testTree() *Node {
	root := NewGroup("myhal1")
	walls := NewGroup("walls")
	walls.Add(
		NewMesh("glass", Mesh{Shape: ShapeBox, Size: math.V3(1, 1, 0.1)}, Material{Opacity: 0.5}),
		NewMesh("glass", Mesh{Shape: ShapeBox, Size: math.V3(1, 1, 0.1)}, Material{Opacity: 0.5}),
	)
	root.Add(
		NewMesh("slab", Mesh{Shape: ShapeBox, Size: math.V3(5, 0.2, 5)}, Material{Opacity: 1}),
		walls,
	)
	return root
}

func TestAssignIDsDisambiguatesSiblings(t *testing.T) {
	root := testTree()

	var ids []string
	for _, l := range root.Leaves() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"myhal1/slab", "myhal1/walls/glass", "myhal1/walls/glass#1"}, ids)
}

func TestFind(t *testing.T) {
	root := testTree()

	n := root.Find("myhal1/walls/glass#1")
	require.NotNil(t, n)
	assert.Equal(t, "glass", n.Name)
	assert.Nil(t, root.Find("myhal1/missing"))
}

func TestWorldMatrix(t *testing.T) {
	root := NewGroup("root")
	root.Scale = math.V3(100, 100, 100)
	child := NewMesh("leaf", Mesh{Shape: ShapeBox, Size: math.One}, Material{Opacity: 1})
	child.Position = math.V3(0, 1, 0)
	root.Add(child)
	root.Position = math.V3(0, 100, 0)

	got := child.WorldMatrix().TransformVec3(math.Vec3{})
	assert.Equal(t, math.V3(0, 200, 0), got)
}

func TestCloneIsIndependent(t *testing.T) {
	root := testTree()
	clone := root.Clone()

	clone.Leaves()[0].Material.Opacity = 0.1
	clone.Position = math.V3(1, 2, 3)

	assert.Equal(t, float32(1), root.Leaves()[0].Material.Opacity)
	assert.Equal(t, math.Vec3{}, root.Position)
	assert.Equal(t, "myhal1/walls/glass#1", clone.Leaves()[2].ID)
	assert.Same(t, clone, clone.Children[0].Parent())
}

func TestPropertyAccess(t *testing.T) {
	n := NewMesh("leaf", Mesh{Shape: ShapeSphere, Size: math.One}, Material{Opacity: 0.3})
	buf := make([]float32, 3)

	n.Set(PropertyPosition, []float32{1, 2, 3})
	n.Get(PropertyPosition, buf)
	assert.Equal(t, []float32{1, 2, 3}, buf)

	n.Get(PropertyOpacity, buf[:1])
	assert.Equal(t, float32(0.3), buf[0])

	n.Set(PropertyOpacity, []float32{0.8})
	assert.Equal(t, float32(0.8), n.Material.Opacity)

	group := NewGroup("g")
	group.Get(PropertyOpacity, buf[:1])
	assert.Equal(t, float32(1), buf[0])
	assert.Equal(t, 1, PropertyOpacity.Size())
	assert.Equal(t, 3, PropertyScale.Size())
}
