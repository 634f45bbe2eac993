package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/floorview/pkg/math"
)

func leafAt(name string, transparent bool, order int) *Node {
	n := NewMesh(name, Mesh{Shape: ShapeBox, Size: math.One}, Material{Opacity: 1, Transparent: transparent, RenderOrder: order})
	return n
}

func TestDrawListOrder(t *testing.T) {
	a := NewGroup("a")
	a.Add(leafAt("glass", true, 1), leafAt("slab", false, 0))
	b := NewGroup("b")
	b.Add(leafAt("pane2", true, 2), leafAt("pane1", true, 1), leafAt("wall", false, 0))

	items := DrawList(nil, a, b)
	var names []string
	for _, it := range items {
		names = append(names, it.Node.ID)
	}
	assert.Equal(t, []string{"a/slab", "b/wall", "a/glass", "b/pane1", "b/pane2"}, names)
}

func TestDrawListSkipsHiddenAndInvisible(t *testing.T) {
	root := NewGroup("root")
	hidden := NewGroup("hidden")
	hidden.Visible = false
	hidden.Add(leafAt("inner", false, 0))
	faded := leafAt("faded", true, 0)
	faded.Material.Opacity = 0
	root.Add(hidden, faded, leafAt("shown", false, 0))

	items := DrawList(nil, root)
	require.Len(t, items, 1)
	assert.Equal(t, "root/shown", items[0].Node.ID)
}

func TestDrawListWorldMatrix(t *testing.T) {
	root := NewGroup("floor")
	root.Position = math.V3(0, 100, 0)
	model := NewGroup("model")
	model.Position = math.V3(0, -80, 0)
	model.Scale = math.V3(2, 2, 2)
	leaf := leafAt("slab", false, 0)
	leaf.Position = math.V3(1, 0, 0)
	model.Add(leaf)
	root.Add(model)

	items := DrawList(nil, root)
	require.Len(t, items, 1)
	p := items[0].World.TransformVec3(math.Vec3{})
	assert.Equal(t, math.V3(2, 20, 0), p)
}
