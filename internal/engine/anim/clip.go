package anim

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Clip is a named, fixed-duration bundle of tracks played in lock-step.
type Clip struct {
	Name     string
	Duration float32
	Tracks   []*Track
}

// NewClip validates and creates a clip. A zero duration is allowed and
// describes an instantaneous change that completes on the next update.
func NewClip(name string, duration float32, tracks ...*Track) (*Clip, error) {
	if duration < 0 || math32.IsNaN(duration) || math32.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: %q has duration %g", ErrClipDuration, name, duration)
	}
	for _, tr := range tracks {
		if tr.Duration() > duration {
			return nil, fmt.Errorf("%w: track %s ends at %g after clip %q end %g",
				ErrClipDuration, tr.Path(), tr.Duration(), name, duration)
		}
	}
	return &Clip{Name: name, Duration: duration, Tracks: tracks}, nil
}
