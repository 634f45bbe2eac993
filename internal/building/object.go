// Package building implements the animated objects of the building viewer:
// floors loaded from model files, highlight boxes and location pings.
package building

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/anim"
	"github.com/Faultbox/floorview/internal/engine/frame"
	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

// Action tags. A new request with a tag supersedes the in-flight one.
const (
	TagMove    = "move"
	TagOpacity = "opacity"
	TagPulse   = "pulse"
)

// Controller is the imperative animation surface of an object. It is handed
// out at construction; calls made before the object is ready are ignored.
type Controller interface {
	// AnimateToPosition moves the object to target over d. onComplete, if
	// set, runs once when the motion ends naturally and never when it is
	// superseded or the object is unmounted.
	AnimateToPosition(target math.Vec3, d time.Duration, onComplete func()) *anim.Completion
	// AnimateOpacity fades the object to target, a multiplier of the
	// authored opacity clamped to [0, 1].
	AnimateOpacity(target float32, d time.Duration)
}

// Object is a renderable scene object driven by frame ticks.
type Object interface {
	Root() *scene.Node
	Mount(loop *frame.Loop)
	Unmount()
}

// animator holds the per-object mixer and tick registration.
type animator struct {
	mixer      *anim.Mixer
	log        *zap.Logger
	unregister func()
}

func newAnimator(log *zap.Logger) animator {
	if log == nil {
		log = zap.NewNop()
	}
	return animator{
		mixer: anim.NewMixer(log),
		log:   log,
	}
}

func (a *animator) mount(loop *frame.Loop, tick frame.Handler) {
	if a.unregister != nil {
		return
	}
	a.unregister = loop.Register(tick)
}

// unmount stops ticking and drops every action without running callbacks.
func (a *animator) unmount() {
	if a.unregister != nil {
		a.unregister()
		a.unregister = nil
	}
	a.mixer.StopAll()
}

func (a *animator) mounted() bool {
	return a.unregister != nil
}

// moveTo plays a clamped two-key position clip on node from its current
// position, cross-fading out any move still in flight.
func (a *animator) moveTo(node *scene.Node, target math.Vec3, d time.Duration, onComplete func()) *anim.Completion {
	secs := seconds(d)
	track, err := anim.VectorTrack(node, scene.PropertyPosition, node.Position, target, secs)
	if err != nil {
		a.log.Error("building move track", zap.Error(err))
		return anim.Cancelled()
	}
	clip, err := anim.NewClip(TagMove, secs, track)
	if err != nil {
		a.log.Error("building move clip", zap.Error(err))
		return anim.Cancelled()
	}

	action := a.mixer.ClipAction(clip)
	action.Tag = TagMove
	action.Loop = anim.LoopOnce
	action.ClampWhenFinished = true
	action.OnComplete = onComplete
	if a.mixer.Running(TagMove) {
		action.FadeIn(a.mixer.CrossFade)
	}
	action.Play()

	a.log.Debug("move",
		zap.String("node", node.ID),
		zap.Any("from", node.Position),
		zap.Any("to", target),
		zap.Duration("duration", d),
	)
	return action.Done()
}

func seconds(d time.Duration) float32 {
	if d <= 0 {
		return 0
	}
	return float32(d.Seconds())
}
