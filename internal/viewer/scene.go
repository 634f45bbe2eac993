// Package viewer composes the building scene: floors, the highlight box,
// the location ping and the camera rig, driven by viewer commands.
package viewer

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/building"
	"github.com/Faultbox/floorview/internal/config"
	"github.com/Faultbox/floorview/internal/engine/camera"
	"github.com/Faultbox/floorview/internal/engine/frame"
	"github.com/Faultbox/floorview/internal/engine/scene"
)

// Loader loads models in the background and forgets cached ones on demand.
type Loader interface {
	building.ModelLoader
	Invalidate(path string)
}

type floorEntry struct {
	cfg   config.FloorConfig
	path  string
	floor *building.Floor
	ctl   building.Controller
}

// Scene owns every animated object of the viewer and the frame loop that
// ticks them.
type Scene struct {
	cfg    *config.Config
	loop   *frame.Loop
	loader Loader
	log    *zap.Logger

	floors  []*floorEntry
	box     *building.OpacityBox
	boxCtl  building.Controller
	ping    *building.LocationPing
	pingCtl building.Controller
	rig     *camera.Rig
	unrig   func()

	raised      bool
	faded       bool
	highlighted bool
	mounted     bool
}

// New builds the scene described by cfg. Nothing loads until Mount.
func New(cfg *config.Config, loader Loader, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	sc := cfg.Scene
	s := &Scene{
		cfg:    cfg,
		loop:   frame.NewLoop(),
		loader: loader,
		log:    log,
	}

	for _, fc := range sc.Floors {
		path := cfg.ModelPath(fc.Model)
		f, ctl := building.NewFloor(loader, building.FloorOptions{
			Name:      fc.Name,
			ModelPath: path,
			Position:  fc.Position,
			Scale:     fc.Scale,
			Logger:    log,
		})
		s.floors = append(s.floors, &floorEntry{cfg: fc, path: path, floor: f, ctl: ctl})
	}

	s.box, s.boxCtl = building.NewOpacityBox(building.BoxOptions{
		Name:      "highlight",
		Position:  sc.Box.Position,
		Size:      sc.Box.Size,
		Color:     sc.Box.Color,
		Smoothing: sc.Animation.BoxSmoothing,
		Logger:    log,
	})
	s.ping, s.pingCtl = building.NewLocationPing(building.PingOptions{
		Name:        "ping",
		Position:    sc.Ping.Position,
		Radius:      sc.Ping.Radius,
		Color:       sc.Ping.Color,
		Opacity:     sc.Ping.Opacity,
		PulseRange:  sc.Ping.PulseRange,
		PulsePeriod: sc.Ping.PulsePeriod,
		Smoothing:   sc.Animation.BoxSmoothing,
		Logger:      log,
	})

	presets := make([]camera.Preset, 0, len(sc.Camera.Presets))
	for _, p := range sc.Camera.Presets {
		presets = append(presets, camera.Preset{Name: p.Name, Position: p.Position})
	}
	s.rig = camera.NewRig(sc.Camera.Target, presets, log.Named("camera"))
	return s
}

// Mount starts loading floors and registers every object with the frame
// loop.
func (s *Scene) Mount() {
	if s.mounted {
		return
	}
	s.mounted = true
	for _, e := range s.floors {
		e.floor.Mount(s.loop)
	}
	s.box.Mount(s.loop)
	s.ping.Mount(s.loop)
	s.unrig = s.loop.Register(s.rig.Update)
	s.log.Info("scene mounted", zap.Int("floors", len(s.floors)))
}

// Unmount stops every object. Pending completions resolve as cancelled.
func (s *Scene) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	for _, e := range s.floors {
		e.floor.Unmount()
	}
	s.box.Unmount()
	s.ping.Unmount()
	s.unrig()
}

// Frame advances the scene to now.
func (s *Scene) Frame(now time.Time) {
	s.loop.Frame(now)
}

// Roots returns the renderable roots in draw order.
func (s *Scene) Roots() []*scene.Node {
	roots := make([]*scene.Node, 0, len(s.floors)+2)
	for _, e := range s.floors {
		roots = append(roots, e.floor.Root())
	}
	return append(roots, s.box.Root(), s.ping.Root())
}

// Camera returns the camera rig.
func (s *Scene) Camera() *camera.Rig {
	return s.rig
}

// Floor returns the named floor, or nil.
func (s *Scene) Floor(name string) *building.Floor {
	for _, e := range s.floors {
		if e.cfg.Name == name {
			return e.floor
		}
	}
	return nil
}

// Box returns the highlight box.
func (s *Scene) Box() *building.OpacityBox {
	return s.box
}

// Ping returns the location ping.
func (s *Scene) Ping() *building.LocationPing {
	return s.ping
}

// ModelChanged reloads every floor showing the model at path.
func (s *Scene) ModelChanged(path string) int {
	path = filepath.Clean(path)
	s.loader.Invalidate(path)
	n := 0
	for _, e := range s.floors {
		if e.path == path {
			e.floor.SetModelPath(path)
			n++
		}
	}
	if n > 0 {
		s.log.Info("model reloaded", zap.String("path", path), zap.Int("floors", n))
	}
	return n
}

// ModelPaths returns the resolved model path of every floor.
func (s *Scene) ModelPaths() []string {
	paths := make([]string, 0, len(s.floors))
	for _, e := range s.floors {
		paths = append(paths, e.path)
	}
	return paths
}

func (s *Scene) raise() {
	anim := s.cfg.Scene.Animation
	for _, e := range s.floors {
		if e.cfg.Raised == nil {
			continue
		}
		name := e.cfg.Name
		e.ctl.AnimateToPosition(*e.cfg.Raised, anim.FloorMove, func() {
			s.log.Debug("floor raised", zap.String("floor", name))
		})
	}
	s.raised = true
}

func (s *Scene) reset() {
	anim := s.cfg.Scene.Animation
	for _, e := range s.floors {
		if e.cfg.Raised == nil {
			continue
		}
		e.ctl.AnimateToPosition(e.floor.Home(), anim.FloorMove, nil)
	}
	s.raised = false
}

func (s *Scene) fadeUpper(target float32) {
	for _, e := range s.floors {
		if e.cfg.Upper {
			e.ctl.AnimateOpacity(target, s.cfg.Scene.Animation.Fade)
		}
	}
	s.faded = target < 1
}

func (s *Scene) toggleHighlight() {
	box := s.cfg.Scene.Box
	d := s.cfg.Scene.Animation.FloorMove
	s.highlighted = !s.highlighted
	if s.highlighted {
		s.boxCtl.AnimateOpacity(box.Opacity, 0)
		s.boxCtl.AnimateToPosition(box.AnimatedPosition, d, nil)
		return
	}
	s.boxCtl.AnimateOpacity(0, 0)
	s.boxCtl.AnimateToPosition(box.Position, d, nil)
}

func (s *Scene) togglePulse() {
	if s.ping.Pulsing() {
		s.ping.StopPulsing()
		return
	}
	s.ping.StartPulsing()
}
