package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/floorview/internal/assets"
	"github.com/Faultbox/floorview/internal/config"
	"github.com/Faultbox/floorview/internal/engine/input"
	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

type memLoader struct {
	models      map[string]*scene.Node
	invalidated []string
}

func (l *memLoader) LoadAsync(_ context.Context, path string) <-chan assets.Result {
	ch := make(chan assets.Result, 1)
	if root, ok := l.models[path]; ok {
		ch <- assets.Result{Root: root.Clone()}
	} else {
		ch <- assets.Result{Err: fmt.Errorf("%w: %s", assets.ErrAssetNotFound, path)}
	}
	return ch
}

func (l *memLoader) Invalidate(path string) {
	l.invalidated = append(l.invalidated, path)
}

func slabModel(name string) *scene.Node {
	root := scene.NewGroup(name)
	root.Add(scene.NewMesh("slab",
		scene.Mesh{Shape: scene.ShapeBox, Size: math.V3(500, 10, 500)},
		scene.Material{Color: [3]float32{0.8, 0.8, 0.8}, Opacity: 1, DepthWrite: true},
	))
	return root
}

type clock struct {
	now time.Time
}

func (c *clock) run(s *Scene, d time.Duration) {
	end := c.now.Add(d)
	for c.now.Before(end) {
		c.now = c.now.Add(time.Second / 60)
		s.Frame(c.now)
	}
}

func newScene(t *testing.T) (*Scene, *memLoader, *clock) {
	t.Helper()
	cfg := config.Default()
	loader := &memLoader{models: map[string]*scene.Node{}}
	for _, f := range cfg.Scene.Floors {
		loader.models[cfg.ModelPath(f.Model)] = slabModel(f.Name)
	}
	s := New(cfg, loader, nil)
	s.Mount()

	c := &clock{now: time.Unix(0, 0)}
	s.Frame(c.now)
	for _, name := range []string{"myhal1", "myhal2", "myhal150"} {
		require.True(t, s.Floor(name).Ready(), name)
	}
	return s, loader, c
}

func TestSceneRoots(t *testing.T) {
	s, _, _ := newScene(t)
	roots := s.Roots()
	require.Len(t, roots, 5)
	assert.Equal(t, math.V3(0, 100, -334), roots[2].Position)
	assert.Same(t, s.Box().Root(), roots[3])
	assert.Same(t, s.Ping().Root(), roots[4])
}

func TestSceneRaiseAndReset(t *testing.T) {
	s, _, c := newScene(t)

	require.True(t, s.Handle(CmdRaise))
	c.run(s, 1500*time.Millisecond)

	assert.Equal(t, math.Vec3{}, s.Floor("myhal1").Model().Position)
	assert.Equal(t, math.V3(0, 200, 0), s.Floor("myhal2").Model().Position)
	assert.Equal(t, math.V3(0, 200, 0), s.Floor("myhal150").Model().Position)
	assert.Equal(t, math.V3(300, 300, 300), s.Camera().Position())

	require.True(t, s.Handle(CmdReset))
	c.run(s, 1500*time.Millisecond)

	assert.Equal(t, math.Vec3{}, s.Floor("myhal2").Model().Position)
	assert.Equal(t, math.V3(400, 200, 400), s.Camera().Position())
}

func TestSceneFadeUpperFloors(t *testing.T) {
	s, _, c := newScene(t)
	slab := func(floor string) *scene.Node {
		return s.Floor(floor).Root().Find(floor + "/" + floor + "/slab")
	}
	require.NotNil(t, slab("myhal2"))

	s.Handle(CmdFade)
	c.run(s, time.Second)
	assert.InDelta(t, 0.2, slab("myhal2").Material.Opacity, 1e-6)
	assert.InDelta(t, 0.2, slab("myhal150").Material.Opacity, 1e-6)
	assert.Equal(t, float32(1), slab("myhal1").Material.Opacity)
	assert.True(t, slab("myhal2").Material.Transparent)

	s.Handle(CmdRestore)
	c.run(s, time.Second)
	assert.Equal(t, float32(1), slab("myhal2").Material.Opacity)
	assert.False(t, slab("myhal2").Material.Transparent)
	assert.True(t, slab("myhal2").Material.DepthWrite)
}

func TestSceneHighlightAndPulse(t *testing.T) {
	s, _, c := newScene(t)
	cfg := config.Default().Scene

	s.Handle(CmdToggleHighlight)
	c.run(s, 1500*time.Millisecond)
	current, _ := s.Box().Opacity()
	assert.Equal(t, cfg.Box.Opacity, current)
	assert.Equal(t, cfg.Box.AnimatedPosition, s.Box().Root().Position)

	s.Handle(CmdToggleHighlight)
	c.run(s, 1500*time.Millisecond)
	current, _ = s.Box().Opacity()
	assert.Equal(t, float32(0), current)
	assert.Equal(t, cfg.Box.Position, s.Box().Root().Position)

	s.Handle(CmdTogglePulse)
	assert.True(t, s.Ping().Pulsing())
	s.Handle(CmdTogglePulse)
	assert.False(t, s.Ping().Pulsing())
}

func TestSceneNextCamera(t *testing.T) {
	s, _, c := newScene(t)
	s.Handle(CmdNextCamera)
	c.run(s, 1500*time.Millisecond)
	assert.Equal(t, "floor1View", s.Camera().Preset())
	assert.Equal(t, math.V3(300, 300, 300), s.Camera().Position())
}

type events []input.Event

func (e events) PollEvents(dst []input.Event) []input.Event {
	return append(dst, e...)
}

func TestSceneHandleInput(t *testing.T) {
	s, _, _ := newScene(t)
	in := input.New()

	in.Update(events{{Type: input.EventKeyDown, Key: input.Key6}})
	assert.True(t, s.HandleInput(in))
	assert.True(t, s.Ping().Pulsing())

	in.Update(events{{Type: input.EventKeyDown, Key: input.Key6, Repeat: true}})
	assert.True(t, s.HandleInput(in))
	assert.True(t, s.Ping().Pulsing())

	in.Update(events{{Type: input.EventKeyDown, Key: input.KeyEscape}})
	assert.False(t, s.HandleInput(in))
}

func TestSceneModelChanged(t *testing.T) {
	s, loader, c := newScene(t)
	path := filepath.Join("models", "myhal2.yaml")

	updated := slabModel("myhal2")
	updated.Children[0].Material.Opacity = 0.5
	loader.models[path] = updated

	assert.Equal(t, 1, s.ModelChanged("./"+path))
	assert.Equal(t, []string{path}, loader.invalidated)

	c.run(s, 50*time.Millisecond)
	slab := s.Floor("myhal2").Root().Find("myhal2/myhal2/slab")
	require.NotNil(t, slab)
	assert.Equal(t, float32(0.5), slab.Material.Opacity)
	assert.True(t, slab.Material.Transparent)

	assert.Zero(t, s.ModelChanged("models/unknown.yaml"))
}

func TestSceneUnmountCancelsMoves(t *testing.T) {
	s, _, c := newScene(t)
	s.Handle(CmdRaise)
	c.run(s, 200*time.Millisecond)
	pos := s.Floor("myhal2").Model().Position

	s.Unmount()
	c.run(s, time.Second)
	assert.Equal(t, pos, s.Floor("myhal2").Model().Position)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "raise", CmdRaise.String())
	assert.Equal(t, "unknown", Command(99).String())
	assert.Equal(t, CmdQuit, Bindings[input.KeyEscape])
}
