// Package anim implements keyframe tracks, clips, playable actions and the
// mixer that advances them against scene-node properties.
package anim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

var (
	ErrEmptyTrack   = errors.New("anim: track has no keyframes")
	ErrTrackStart   = errors.New("anim: first keyframe must be at time 0")
	ErrTrackOrder   = errors.New("anim: keyframe times must be strictly increasing")
	ErrTrackValues  = errors.New("anim: value count does not match keyframe count")
	ErrClipDuration = errors.New("anim: invalid clip duration")
)

// Track is a linearly interpolated keyframe sequence for one node property.
// Values are flattened: keyframe i occupies Values[i*stride:(i+1)*stride].
type Track struct {
	Node     *scene.Node
	Property scene.Property
	Times    []float32
	Values   []float32
}

// NewTrack validates and creates a track.
func NewTrack(node *scene.Node, prop scene.Property, times, values []float32) (*Track, error) {
	if len(times) == 0 {
		return nil, ErrEmptyTrack
	}
	if times[0] != 0 {
		return nil, ErrTrackStart
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, fmt.Errorf("%w: times[%d]=%g after %g", ErrTrackOrder, i, times[i], times[i-1])
		}
	}
	if len(values) != len(times)*prop.Size() {
		return nil, fmt.Errorf("%w: got %d values for %d keys of %s", ErrTrackValues, len(values), len(times), prop)
	}
	return &Track{Node: node, Property: prop, Times: times, Values: values}, nil
}

// VectorTrack builds a two-key track from one vector to another over duration
// seconds. A non-positive duration yields a single key holding the end value.
func VectorTrack(node *scene.Node, prop scene.Property, from, to math.Vec3, duration float32) (*Track, error) {
	if duration <= 0 {
		return NewTrack(node, prop, []float32{0}, []float32{to.X, to.Y, to.Z})
	}
	return NewTrack(node, prop, []float32{0, duration}, []float32{from.X, from.Y, from.Z, to.X, to.Y, to.Z})
}

// ScalarTrack builds a two-key track between scalar values, following the
// same conventions as VectorTrack.
func ScalarTrack(node *scene.Node, prop scene.Property, from, to, duration float32) (*Track, error) {
	if duration <= 0 {
		return NewTrack(node, prop, []float32{0}, []float32{to})
	}
	return NewTrack(node, prop, []float32{0, duration}, []float32{from, to})
}

// Duration returns the time of the last keyframe.
func (t *Track) Duration() float32 {
	return t.Times[len(t.Times)-1]
}

// Path names the animated property for logs.
func (t *Track) Path() string {
	id := "<nil>"
	if t.Node != nil {
		id = t.Node.ID
	}
	return id + "." + t.Property.String()
}

// Sample writes the interpolated value at time at into dst.
// Times outside the keyframe range clamp to the nearest endpoint.
func (t *Track) Sample(at float32, dst []float32) {
	stride := t.Property.Size()
	n := len(t.Times)

	if n == 1 || math32.IsNaN(at) || at <= t.Times[0] {
		copy(dst, t.Values[:stride])
		return
	}
	if at >= t.Times[n-1] {
		copy(dst, t.Values[(n-1)*stride:n*stride])
		return
	}

	next := sort.Search(n, func(i int) bool { return t.Times[i] > at })
	prev := next - 1
	u := (at - t.Times[prev]) / (t.Times[next] - t.Times[prev])

	v0 := t.Values[prev*stride : next*stride]
	v1 := t.Values[next*stride : (next+1)*stride]
	for i := 0; i < stride; i++ {
		dst[i] = math.Lerp(v0[i], v1[i], u)
	}
}
