// Package camera provides the viewer's orbiting camera rig with animated
// preset transitions.
package camera

import (
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/anim"
	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

const tagMove = "camera"

// Preset is a named eye position.
type Preset struct {
	Name     string
	Position math.Vec3
}

// Rig orbits an eye around a target point. Preset changes animate the eye
// through its own mixer so the motion blends like any object move.
type Rig struct {
	Target math.Vec3

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	eye     *scene.Node
	mixer   *anim.Mixer
	presets []Preset
	current int
	log     *zap.Logger
}

// NewRig creates a rig at the first preset.
func NewRig(target math.Vec3, presets []Preset, log *zap.Logger) *Rig {
	if log == nil {
		log = zap.NewNop()
	}
	eye := scene.NewGroup("eye")
	if len(presets) > 0 {
		eye.Position = presets[0].Position
	}
	return &Rig{
		Target:          target,
		MinDistance:     50,
		MaxDistance:     5000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		eye:             eye,
		mixer:           anim.NewMixer(log),
		presets:         presets,
		log:             log,
	}
}

// Position returns the eye position in world space.
func (r *Rig) Position() math.Vec3 {
	return r.eye.Position
}

// Preset returns the current preset name.
func (r *Rig) Preset() string {
	if len(r.presets) == 0 {
		return ""
	}
	return r.presets[r.current].Name
}

// ViewMatrix returns the view matrix looking from the eye at the target.
func (r *Rig) ViewMatrix() math.Mat4 {
	return math.LookAt(r.eye.Position, r.Target, math.V3(0, 1, 0))
}

// AnimateTo moves the eye to position over d.
func (r *Rig) AnimateTo(position math.Vec3, d time.Duration) *anim.Completion {
	secs := float32(0)
	if d > 0 {
		secs = float32(d.Seconds())
	}
	track, err := anim.VectorTrack(r.eye, scene.PropertyPosition, r.eye.Position, position, secs)
	if err != nil {
		r.log.Error("camera track", zap.Error(err))
		return anim.Cancelled()
	}
	clip, err := anim.NewClip(tagMove, secs, track)
	if err != nil {
		r.log.Error("camera clip", zap.Error(err))
		return anim.Cancelled()
	}
	action := r.mixer.ClipAction(clip)
	action.Tag = tagMove
	action.ClampWhenFinished = true
	if r.mixer.Running(tagMove) {
		action.FadeIn(r.mixer.CrossFade)
	}
	action.Play()
	return action.Done()
}

// Show animates to the named preset. It reports whether the preset exists.
func (r *Rig) Show(name string, d time.Duration) bool {
	for i, p := range r.presets {
		if p.Name == name {
			r.current = i
			r.AnimateTo(p.Position, d)
			r.log.Debug("camera preset", zap.String("preset", name))
			return true
		}
	}
	return false
}

// Next animates to the preset after the current one, wrapping around, and
// returns its name.
func (r *Rig) Next(d time.Duration) string {
	if len(r.presets) == 0 {
		return ""
	}
	name := r.presets[(r.current+1)%len(r.presets)].Name
	r.Show(name, d)
	return name
}

// Update advances preset transitions by dt seconds.
func (r *Rig) Update(dt float32) {
	r.mixer.Update(dt)
}

// HandleDrag orbits the eye around the target. Manual control cancels any
// preset transition.
func (r *Rig) HandleDrag(deltaX, deltaY float32) {
	r.mixer.StopAll()
	dist, pitch, yaw := r.spherical()
	yaw -= deltaX * r.DragSensitivity
	pitch = math.Clamp(pitch+deltaY*r.DragSensitivity, r.MinPitch, r.MaxPitch)
	r.setSpherical(dist, pitch, yaw)
}

// HandleZoom moves the eye along its view direction.
func (r *Rig) HandleZoom(delta float32) {
	r.mixer.StopAll()
	dist, pitch, yaw := r.spherical()
	dist = math.Clamp(dist-delta*dist*r.ZoomSensitivity, r.MinDistance, r.MaxDistance)
	r.setSpherical(dist, pitch, yaw)
}

func (r *Rig) spherical() (dist, pitch, yaw float32) {
	off := r.eye.Position.Sub(r.Target)
	dist = off.Length()
	if dist == 0 {
		return 0, 0, 0
	}
	return dist, math32.Asin(off.Y / dist), math32.Atan2(off.X, off.Z)
}

func (r *Rig) setSpherical(dist, pitch, yaw float32) {
	horiz := dist * math32.Cos(pitch)
	r.eye.Position = r.Target.Add(math.V3(
		horiz*math32.Sin(yaw),
		dist*math32.Sin(pitch),
		horiz*math32.Cos(yaw),
	))
}
