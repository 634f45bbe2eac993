package anim

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/floorview/pkg/math"
)

// LoopMode controls what happens when an action reaches the end of its clip.
type LoopMode int

const (
	// LoopOnce plays the clip a single time.
	LoopOnce LoopMode = iota
	// LoopRepeat wraps local time modulo the clip duration until stopped.
	LoopRepeat
)

// Action is a playable instance of a clip bound to one mixer.
type Action struct {
	mixer *Mixer
	clip  *Clip

	// Loop is the loop policy.
	Loop LoopMode
	// ClampWhenFinished holds the last sampled value once a LoopOnce
	// action ends instead of restoring the pre-play value.
	ClampWhenFinished bool
	// Tag names the purpose of the action ("move", "opacity").
	// Playing an action supersedes in-flight actions with the same tag.
	Tag string
	// OnComplete runs once when the action reaches the end of its clip.
	// It never runs for cancelled actions.
	OnComplete func()

	time     float32
	playing  bool
	paused   bool
	finished bool

	weight   float32
	fading   bool
	fadeFrom float32
	fadeTo   float32
	fadeLen  float32
	fadeT    float32
	// dropAfterFade removes the action once a fade-out reaches zero.
	dropAfterFade bool

	rest       [][]float32
	completion *Completion
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip {
	return a.clip
}

// Time returns the local playback time in seconds.
func (a *Action) Time() float32 {
	return a.time
}

// Weight returns the current envelope weight.
func (a *Action) Weight() float32 {
	return a.weight
}

// Playing reports whether the action is registered and advancing or holding.
func (a *Action) Playing() bool {
	return a.playing
}

// Finished reports whether a LoopOnce action reached the end of its clip.
func (a *Action) Finished() bool {
	return a.finished
}

// Done returns the completion owned by the current play of this action.
func (a *Action) Done() *Completion {
	return a.completion
}

// FadeIn ramps the weight from 0 to 1 over d seconds.
func (a *Action) FadeIn(d float32) *Action {
	a.startFade(0, 1, d, false)
	return a
}

// FadeOut ramps the weight from its current value to 0 over d seconds and
// then drops the action from its mixer.
func (a *Action) FadeOut(d float32) *Action {
	a.startFade(a.weight, 0, d, true)
	return a
}

func (a *Action) startFade(from, to, d float32, drop bool) {
	a.dropAfterFade = drop
	if d <= 0 {
		a.fading = false
		a.weight = to
		return
	}
	a.fading = true
	a.fadeFrom, a.fadeTo, a.fadeLen, a.fadeT = from, to, d, 0
	a.weight = from
}

// Play resets local time to zero and registers the action with its mixer.
// In-flight actions with the same non-empty Tag are faded out.
func (a *Action) Play() *Action {
	if a.completion == nil || a.completion.Resolved() {
		a.completion = newCompletion()
	}
	a.time = 0
	a.paused = false
	a.finished = false
	if a.dropAfterFade {
		a.dropAfterFade = false
		a.fading = false
	}
	if !a.fading {
		a.weight = 1
	}
	a.captureRest()
	a.playing = true
	a.mixer.activate(a)
	return a
}

// Stop removes the action from its mixer, leaving targets at their last
// written values. A pending completion resolves as cancelled.
func (a *Action) Stop() {
	a.mixer.deactivate(a)
	a.halt(false)
}

func (a *Action) halt(finished bool) {
	a.playing = false
	a.fading = false
	if !finished {
		a.OnComplete = nil
	}
	if a.completion != nil {
		a.completion.resolve(finished)
	}
}

func (a *Action) captureRest() {
	a.rest = a.rest[:0]
	for _, tr := range a.clip.Tracks {
		buf := make([]float32, tr.Property.Size())
		if tr.Node != nil {
			tr.Node.Get(tr.Property, buf)
		}
		a.rest = append(a.rest, buf)
	}
}

// advance moves local time and the weight envelope forward. It reports
// whether a LoopOnce action reached its end during this step and whether a
// fade-out has run out.
func (a *Action) advance(dt float32) (reachedEnd, fadedOut bool) {
	if !a.paused {
		a.time += dt
		d := a.clip.Duration
		switch a.Loop {
		case LoopOnce:
			if a.time >= d {
				a.time = d
				reachedEnd = !a.finished
			}
		case LoopRepeat:
			if d > 0 {
				a.time = math32.Mod(a.time, d)
			} else {
				a.time = 0
			}
		}
	}

	if a.fading {
		a.fadeT += dt
		u := a.fadeT / a.fadeLen
		if u >= 1 {
			a.weight = a.fadeTo
			a.fading = false
		} else {
			a.weight = math.Lerp(a.fadeFrom, a.fadeTo, u)
		}
	}
	fadedOut = a.dropAfterFade && !a.fading && a.weight <= 0
	return reachedEnd, fadedOut
}
