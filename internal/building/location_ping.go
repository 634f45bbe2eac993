package building

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/anim"
	"github.com/Faultbox/floorview/internal/engine/frame"
	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

// Location ping defaults.
const (
	DefaultPingRadius   = 100
	DefaultPingSegments = 32
	DefaultPulseRange   = 0.5
	DefaultPulsePeriod  = time.Second
)

// PingOptions configures a location ping.
type PingOptions struct {
	Name     string
	Position math.Vec3
	Radius   float32
	Segments int
	Color    [3]float32
	Opacity  float32
	// PulseRange is the extra scale reached at the middle of a pulse.
	PulseRange float32
	// PulsePeriod is the length of one grow-and-shrink cycle.
	PulsePeriod time.Duration
	Smoothing   float32
	Logger      *zap.Logger
}

// LocationPing is a sphere marking a point of interest. It can pulse in
// scale and eases its opacity like OpacityBox.
type LocationPing struct {
	animator

	group   *scene.Node
	mesh    *scene.Node
	opacity smoother
	pulse   *anim.Action
}

// NewLocationPing creates the ping and its controller.
func NewLocationPing(opts PingOptions) (*LocationPing, Controller) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Radius <= 0 {
		opts.Radius = DefaultPingRadius
	}
	if opts.Segments <= 0 {
		opts.Segments = DefaultPingSegments
	}
	if opts.PulseRange == 0 {
		opts.PulseRange = DefaultPulseRange
	}
	if opts.PulsePeriod <= 0 {
		opts.PulsePeriod = DefaultPulsePeriod
	}
	if opts.Smoothing <= 0 {
		opts.Smoothing = DefaultSmoothing
	}
	target := math.Clamp(opts.Opacity, 0, 1)

	d := 2 * opts.Radius
	mesh := scene.NewMesh("sphere",
		scene.Mesh{Shape: scene.ShapeSphere, Size: math.V3(d, d, d), Segments: opts.Segments},
		scene.Material{Color: opts.Color, Opacity: 1, Transparent: true},
	)
	group := scene.NewGroup(opts.Name)
	group.Position = opts.Position
	group.Add(mesh)

	p := &LocationPing{
		animator: newAnimator(log.Named("ping").With(zap.String("ping", opts.Name))),
		group:    group,
		mesh:     mesh,
		opacity:  smoother{current: 1, target: target, speed: opts.Smoothing},
	}
	p.pulse = p.pulseAction(opts.PulseRange, seconds(opts.PulsePeriod))
	return p, pingController{p}
}

func (p *LocationPing) pulseAction(pulseRange, period float32) *anim.Action {
	peak := 1 + pulseRange
	track, err := anim.NewTrack(p.mesh, scene.PropertyScale,
		[]float32{0, period / 2, period},
		[]float32{1, 1, 1, peak, peak, peak, 1, 1, 1},
	)
	if err != nil {
		p.log.Error("building pulse track", zap.Error(err))
		return nil
	}
	clip, err := anim.NewClip(TagPulse, period, track)
	if err != nil {
		p.log.Error("building pulse clip", zap.Error(err))
		return nil
	}
	action := p.mixer.ClipAction(clip)
	action.Tag = TagPulse
	action.Loop = anim.LoopRepeat
	return action
}

// Root returns the ping group.
func (p *LocationPing) Root() *scene.Node {
	return p.group
}

// Sphere returns the pulsing mesh node.
func (p *LocationPing) Sphere() *scene.Node {
	return p.mesh
}

// Opacity returns the current and target opacity.
func (p *LocationPing) Opacity() (current, target float32) {
	return p.opacity.current, p.opacity.target
}

// Pulsing reports whether the pulse loop is playing.
func (p *LocationPing) Pulsing() bool {
	return p.pulse != nil && p.pulse.Playing()
}

// Mount registers the ping with loop.
func (p *LocationPing) Mount(loop *frame.Loop) {
	p.mount(loop, p.Update)
}

// Unmount stops ticking, the pulse included.
func (p *LocationPing) Unmount() {
	p.unmount()
	p.mesh.Scale = math.One
}

// StartPulsing plays the scale pulse from the start of its cycle.
func (p *LocationPing) StartPulsing() {
	if p.pulse == nil {
		return
	}
	p.pulse.Play()
}

// StopPulsing stops the pulse and restores unit scale.
func (p *LocationPing) StopPulsing() {
	if p.pulse == nil || !p.pulse.Playing() {
		return
	}
	p.pulse.Stop()
	p.mesh.Scale = math.One
}

// Update eases the opacity and advances the mixer by dt seconds.
func (p *LocationPing) Update(dt float32) {
	if p.opacity.step() {
		p.mesh.Material.Opacity = p.opacity.current
	}
	p.mixer.Update(dt)
}

type pingController struct {
	p *LocationPing
}

func (c pingController) AnimateToPosition(target math.Vec3, d time.Duration, onComplete func()) *anim.Completion {
	if !c.p.mounted() {
		return anim.Cancelled()
	}
	return c.p.moveTo(c.p.group, target, d, onComplete)
}

func (c pingController) AnimateOpacity(target float32, _ time.Duration) {
	if !c.p.mounted() {
		return
	}
	c.p.opacity.target = math.Clamp(target, 0, 1)
}
