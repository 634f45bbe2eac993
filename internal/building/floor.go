package building

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/assets"
	"github.com/Faultbox/floorview/internal/engine/anim"
	"github.com/Faultbox/floorview/internal/engine/frame"
	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/internal/engine/transparency"
	"github.com/Faultbox/floorview/pkg/math"
)

// ModelLoader resolves a model path in the background.
type ModelLoader interface {
	LoadAsync(ctx context.Context, path string) <-chan assets.Result
}

// FloorOptions configures a floor.
type FloorOptions struct {
	Name      string
	ModelPath string
	// Position places the floor group in the scene.
	Position math.Vec3
	// Scale overrides the model's own scale when non-zero.
	Scale  float32
	Logger *zap.Logger
}

// Floor is one building level loaded from a model file. Its model can be
// moved and faded to reveal the levels below.
type Floor struct {
	animator

	opts   FloorOptions
	loader ModelLoader
	group  *scene.Node

	model     *scene.Node
	home      math.Vec3
	leaves    []*scene.Node
	baselines *transparency.Baselines
	blending  bool

	pending <-chan assets.Result
	cancel  context.CancelFunc
	err     error
}

// NewFloor creates an unloaded floor and its controller. Mount starts the
// model load.
func NewFloor(loader ModelLoader, opts FloorOptions) (*Floor, Controller) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("floor").With(zap.String("floor", opts.Name))

	group := scene.NewGroup(opts.Name)
	group.Position = opts.Position

	f := &Floor{
		animator:  newAnimator(log),
		opts:      opts,
		loader:    loader,
		group:     group,
		baselines: transparency.NewBaselines(),
	}
	return f, floorController{f}
}

// Root returns the floor group. The model is attached once loaded.
func (f *Floor) Root() *scene.Node {
	return f.group
}

// Model returns the loaded model root, or nil.
func (f *Floor) Model() *scene.Node {
	return f.model
}

// Home returns the authored position of the loaded model within the floor
// group.
func (f *Floor) Home() math.Vec3 {
	return f.home
}

// Ready reports whether a model is loaded.
func (f *Floor) Ready() bool {
	return f.model != nil
}

// Err returns the last load failure.
func (f *Floor) Err() error {
	return f.err
}

// ModelPath returns the current model path.
func (f *Floor) ModelPath() string {
	return f.opts.ModelPath
}

// Baseline returns the authored state of a leaf of the loaded model.
func (f *Floor) Baseline(id string) (transparency.Baseline, bool) {
	return f.baselines.Get(id)
}

// Mount starts loading the model and registers the floor with loop.
func (f *Floor) Mount(loop *frame.Loop) {
	if f.mounted() {
		return
	}
	f.mount(loop, f.Update)
	f.Reload()
}

// Unmount stops ticking, abandons any pending load and drops running
// animations without firing their callbacks.
func (f *Floor) Unmount() {
	f.unmount()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.pending = nil
}

// SetModelPath switches to another model. The current model stays visible
// until the new one is installed.
func (f *Floor) SetModelPath(path string) {
	f.opts.ModelPath = path
	f.Reload()
}

// Reload requests the model at the current path again.
func (f *Floor) Reload() {
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.pending = f.loader.LoadAsync(ctx, f.opts.ModelPath)
	f.log.Debug("loading model", zap.String("path", f.opts.ModelPath))
}

// Update installs a finished load, advances animations by dt seconds and
// maintains the compositing flags of the model.
func (f *Floor) Update(dt float32) {
	f.poll()
	if f.model == nil {
		return
	}
	f.mixer.Update(dt)
	if f.blending && f.mixer.Settled(TagOpacity) {
		f.settle()
	}
}

func (f *Floor) poll() {
	if f.pending == nil {
		return
	}
	select {
	case res := <-f.pending:
		f.pending = nil
		f.cancel = nil
		if res.Err != nil {
			f.err = res.Err
			f.log.Error("model load failed", zap.String("path", f.opts.ModelPath), zap.Error(res.Err))
			return
		}
		f.err = nil
		f.install(res.Root)
	default:
	}
}

// install replaces the model. Baselines of the previous model are
// discarded and captured fresh from the new one.
func (f *Floor) install(root *scene.Node) {
	f.mixer.StopAll()
	if f.model != nil {
		f.group.Children = nil
	}

	if f.opts.Scale != 0 {
		root.Scale = math.V3(f.opts.Scale, f.opts.Scale, f.opts.Scale)
	}
	f.group.Add(root)
	f.model = root
	f.home = root.Position

	f.baselines = transparency.NewBaselines()
	leaves := root.Leaves()
	f.baselines.Capture(leaves)
	transparency.Normalize(leaves, f.baselines)
	f.leaves = transparency.Sort(leaves)
	f.blending = false

	f.log.Info("model installed",
		zap.String("path", f.opts.ModelPath),
		zap.Int("leaves", len(f.leaves)),
	)
}

func (f *Floor) animateToPosition(target math.Vec3, d time.Duration, onComplete func()) *anim.Completion {
	if f.model == nil {
		return anim.Cancelled()
	}
	return f.moveTo(f.model, target, d, onComplete)
}

// animateOpacity fades every leaf in lock-step from its current opacity to
// baseline*target.
func (f *Floor) animateOpacity(target float32, d time.Duration) {
	if f.model == nil {
		return
	}
	requested := math.Clamp(target, 0, 1)
	secs := seconds(d)

	tracks := make([]*anim.Track, 0, len(f.leaves))
	for _, leaf := range f.leaves {
		base, ok := f.baselines.Get(leaf.ID)
		if !ok {
			continue
		}
		to := transparency.Target(base, requested)
		tr, err := anim.ScalarTrack(leaf, scene.PropertyOpacity, leaf.Material.Opacity, to, secs)
		if err != nil {
			f.log.Error("building opacity track", zap.String("leaf", leaf.ID), zap.Error(err))
			return
		}
		tracks = append(tracks, tr)
	}
	clip, err := anim.NewClip(TagOpacity, secs, tracks...)
	if err != nil {
		f.log.Error("building opacity clip", zap.Error(err))
		return
	}

	action := f.mixer.ClipAction(clip)
	action.Tag = TagOpacity
	action.Loop = anim.LoopOnce
	action.ClampWhenFinished = true
	if f.mixer.Running(TagOpacity) {
		action.FadeIn(f.mixer.CrossFade)
	}
	action.Play()

	transparency.ForceBlend(f.leaves)
	f.leaves = transparency.Sort(f.leaves)
	f.blending = true

	f.log.Debug("fade",
		zap.Float32("target", requested),
		zap.Duration("duration", d),
		zap.Int("leaves", len(tracks)),
	)
}

func (f *Floor) settle() {
	f.blending = false
	atBaseline := transparency.Settle(f.leaves, f.baselines)
	f.leaves = transparency.Sort(f.leaves)
	f.log.Debug("opacity settled", zap.Bool("baseline", atBaseline))
}

type floorController struct {
	f *Floor
}

func (c floorController) AnimateToPosition(target math.Vec3, d time.Duration, onComplete func()) *anim.Completion {
	return c.f.animateToPosition(target, d, onComplete)
}

func (c floorController) AnimateOpacity(target float32, d time.Duration) {
	c.f.animateOpacity(target, d)
}
