package building

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/floorview/internal/engine/frame"
	"github.com/Faultbox/floorview/pkg/math"
)

func TestOpacityBoxSmoothing(t *testing.T) {
	box, ctl := NewOpacityBox(BoxOptions{
		Name:     "highlight",
		Position: math.V3(0, 20, 0),
		Size:     math.V3(500, 100, 500),
		Opacity:  0.5,
	})
	mesh := box.Root().Children[0]
	assert.Equal(t, float32(0), mesh.Material.Opacity)
	assert.True(t, mesh.Material.Transparent)
	assert.False(t, mesh.Material.DepthWrite)

	box.Mount(frame.NewLoop())
	prev := float32(0)
	for range 100 {
		box.Update(tick)
		cur := mesh.Material.Opacity
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, float32(0.5), mesh.Material.Opacity)

	ctl.AnimateOpacity(3, time.Second)
	_, target := box.Opacity()
	assert.Equal(t, float32(1), target)
}

func TestOpacityBoxFirstStep(t *testing.T) {
	box, _ := NewOpacityBox(BoxOptions{Name: "b", Opacity: 1})
	box.Update(tick)
	current, _ := box.Opacity()
	assert.InDelta(t, DefaultSmoothing, current, 1e-6)
}

func TestOpacityBoxIgnoredUntilMounted(t *testing.T) {
	box, ctl := NewOpacityBox(BoxOptions{Name: "b", Opacity: 0.5})

	ctl.AnimateOpacity(0.1, time.Second)
	done := ctl.AnimateToPosition(math.V3(0, -80, 0), time.Second, nil)
	_, target := box.Opacity()
	assert.Equal(t, float32(0.5), target)
	assert.True(t, done.Resolved())

	box.Mount(frame.NewLoop())
	calls := 0
	done = ctl.AnimateToPosition(math.V3(0, -80, 0), time.Second, func() { calls++ })
	run(box, 70)
	assert.Equal(t, math.V3(0, -80, 0), box.Root().Position)
	assert.Equal(t, 1, calls)
	assert.True(t, done.Finished())
}

func TestLocationPingPulse(t *testing.T) {
	ping, _ := NewLocationPing(PingOptions{
		Name:        "ping",
		Position:    math.V3(10, 0, 10),
		Opacity:     1,
		PulseRange:  0.5,
		PulsePeriod: time.Second,
	})
	sphere := ping.Sphere()
	require.NotNil(t, sphere.Mesh)
	assert.Equal(t, math.V3(200, 200, 200), sphere.Mesh.Size)
	assert.Equal(t, 32, sphere.Mesh.Segments)

	ping.Mount(frame.NewLoop())
	ping.StartPulsing()
	assert.True(t, ping.Pulsing())

	ping.Update(0)
	assert.InDelta(t, 1, sphere.Scale.X, 1e-6)
	ping.Update(0.25)
	assert.InDelta(t, 1.25, sphere.Scale.Y, 1e-6)
	ping.Update(0.25)
	assert.InDelta(t, 1.5, sphere.Scale.Z, 1e-6)
	ping.Update(0.25)
	assert.InDelta(t, 1.25, sphere.Scale.X, 1e-6)
	ping.Update(0.5)
	assert.InDelta(t, 1.25, sphere.Scale.X, 1e-6)

	ping.StopPulsing()
	assert.False(t, ping.Pulsing())
	assert.Equal(t, math.One, sphere.Scale)
	run(ping, 10)
	assert.Equal(t, math.One, sphere.Scale)
}

func TestLocationPingFades(t *testing.T) {
	ping, ctl := NewLocationPing(PingOptions{Name: "ping", Opacity: 0.6})
	current, target := ping.Opacity()
	assert.Equal(t, float32(1), current)
	assert.Equal(t, float32(0.6), target)

	ping.Mount(frame.NewLoop())
	run(ping, 100)
	assert.Equal(t, float32(0.6), ping.Sphere().Material.Opacity)

	ctl.AnimateOpacity(-1, 0)
	run(ping, 100)
	assert.Equal(t, float32(0), ping.Sphere().Material.Opacity)
}

func TestLocationPingUnmountStopsPulse(t *testing.T) {
	ping, _ := NewLocationPing(PingOptions{Name: "ping"})
	loop := frame.NewLoop()
	ping.Mount(loop)
	ping.StartPulsing()
	ping.Update(0.3)
	ping.Unmount()

	assert.False(t, ping.Pulsing())
	assert.Equal(t, math.One, ping.Sphere().Scale)
	assert.Zero(t, loop.Len())
}
