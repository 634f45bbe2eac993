package camera

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/floorview/pkg/math"
)

func presets() []Preset {
	return []Preset{
		{Name: "default", Position: math.V3(400, 200, 400)},
		{Name: "floor1View", Position: math.V3(300, 300, 300)},
	}
}

func TestRigStartsAtFirstPreset(t *testing.T) {
	r := NewRig(math.Vec3{}, presets(), nil)
	assert.Equal(t, math.V3(400, 200, 400), r.Position())
	assert.Equal(t, "default", r.Preset())
}

func TestRigShowAnimates(t *testing.T) {
	r := NewRig(math.Vec3{}, presets(), nil)

	require.True(t, r.Show("floor1View", time.Second))
	assert.False(t, r.Show("missing", time.Second))

	r.Update(0.5)
	assert.InDelta(t, 350, r.Position().X, 1e-3)
	assert.InDelta(t, 250, r.Position().Y, 1e-3)

	r.Update(0.6)
	assert.Equal(t, math.V3(300, 300, 300), r.Position())
	assert.Equal(t, "floor1View", r.Preset())
}

func TestRigNextWraps(t *testing.T) {
	r := NewRig(math.Vec3{}, presets(), nil)

	assert.Equal(t, "floor1View", r.Next(0))
	r.Update(0)
	assert.Equal(t, math.V3(300, 300, 300), r.Position())

	// The held transition cross-fades into the next one.
	assert.Equal(t, "default", r.Next(0))
	r.Update(0.2)
	assert.Equal(t, math.V3(400, 200, 400), r.Position())
}

func TestRigDragKeepsDistance(t *testing.T) {
	r := NewRig(math.Vec3{}, presets(), nil)
	before := r.Position().Length()

	r.HandleDrag(100, 20)
	assert.InDelta(t, before, r.Position().Length(), 1e-2)
	assert.NotEqual(t, math.V3(400, 200, 400), r.Position())
}

func TestRigDragCancelsTransition(t *testing.T) {
	r := NewRig(math.Vec3{}, presets(), nil)
	done := r.AnimateTo(math.V3(0, 500, 10), time.Second)
	r.Update(0.1)

	r.HandleDrag(10, 0)
	assert.True(t, done.Resolved())
	assert.False(t, done.Finished())

	pos := r.Position()
	r.Update(0.5)
	assert.Equal(t, pos, r.Position())
}

func TestRigZoomClamps(t *testing.T) {
	r := NewRig(math.Vec3{}, presets(), nil)
	for range 100 {
		r.HandleZoom(5)
	}
	assert.InDelta(t, r.MinDistance, r.Position().Length(), 1e-2)
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	r := NewRig(math.V3(0, 10, 0), presets(), nil)
	view := r.ViewMatrix()
	p := view.TransformVec3(r.Target)
	assert.InDelta(t, 0, p.X, 1e-3)
	assert.InDelta(t, 0, p.Y, 1e-3)
	assert.Less(t, p.Z, float32(0))
}
