package building

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/anim"
	"github.com/Faultbox/floorview/internal/engine/frame"
	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

// BoxOptions configures an opacity box.
type BoxOptions struct {
	Name     string
	Position math.Vec3
	Size     math.Vec3
	Color    [3]float32
	// Opacity is the initial target; the box fades in from zero.
	Opacity float32
	// Smoothing is the fraction of the remaining distance covered per
	// tick. Zero selects DefaultSmoothing.
	Smoothing float32
	Logger    *zap.Logger
}

// OpacityBox is a translucent box used to highlight a region of a floor.
type OpacityBox struct {
	animator

	group   *scene.Node
	mesh    *scene.Node
	opacity smoother
}

// NewOpacityBox creates the box and its controller. The controller acts
// once the box is mounted.
func NewOpacityBox(opts BoxOptions) (*OpacityBox, Controller) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	speed := opts.Smoothing
	if speed <= 0 {
		speed = DefaultSmoothing
	}

	mesh := scene.NewMesh("box",
		scene.Mesh{Shape: scene.ShapeBox, Size: opts.Size},
		scene.Material{Color: opts.Color, Transparent: true},
	)
	group := scene.NewGroup(opts.Name)
	group.Position = opts.Position
	group.Add(mesh)

	b := &OpacityBox{
		animator: newAnimator(log.Named("box").With(zap.String("box", opts.Name))),
		group:    group,
		mesh:     mesh,
		opacity:  smoother{target: math.Clamp(opts.Opacity, 0, 1), speed: speed},
	}
	return b, boxController{b}
}

// Root returns the box group.
func (b *OpacityBox) Root() *scene.Node {
	return b.group
}

// Opacity returns the current and target opacity.
func (b *OpacityBox) Opacity() (current, target float32) {
	return b.opacity.current, b.opacity.target
}

// Mount registers the box with loop.
func (b *OpacityBox) Mount(loop *frame.Loop) {
	b.mount(loop, b.Update)
}

// Unmount stops ticking and drops running animations.
func (b *OpacityBox) Unmount() {
	b.unmount()
}

// Update eases the opacity and advances the mixer by dt seconds.
func (b *OpacityBox) Update(dt float32) {
	if b.opacity.step() {
		b.mesh.Material.Opacity = b.opacity.current
	}
	b.mixer.Update(dt)
}

type boxController struct {
	b *OpacityBox
}

func (c boxController) AnimateToPosition(target math.Vec3, d time.Duration, onComplete func()) *anim.Completion {
	if !c.b.mounted() {
		return anim.Cancelled()
	}
	return c.b.moveTo(c.b.group, target, d, onComplete)
}

// AnimateOpacity retargets the smoothing; the easing rate is fixed so d is
// not used.
func (c boxController) AnimateOpacity(target float32, _ time.Duration) {
	if !c.b.mounted() {
		return
	}
	c.b.opacity.target = math.Clamp(target, 0, 1)
}
