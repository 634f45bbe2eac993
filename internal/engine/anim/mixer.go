package anim

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/scene"
)

// DefaultCrossFade is how long a superseded action fades out, in seconds.
const DefaultCrossFade = 0.1

type bindingKey struct {
	node *scene.Node
	prop scene.Property
}

type binding struct {
	node   *scene.Node
	prop   scene.Property
	weight float32
	acc    [3]float32
}

// Mixer advances the actions of one animated object and writes their
// blended values onto scene-node properties. It is not safe for concurrent
// use; the owner drives it from its frame callback.
type Mixer struct {
	// CrossFade is the fade-out applied to superseded actions, in seconds.
	CrossFade float32

	actions  []*Action
	bindings map[bindingKey]*binding
	order    []*binding
	sample   [3]float32
	log      *zap.Logger
}

// NewMixer creates an empty mixer. A nil logger disables logging.
func NewMixer(log *zap.Logger) *Mixer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mixer{
		CrossFade: DefaultCrossFade,
		bindings:  make(map[bindingKey]*binding),
		log:       log,
	}
}

// ClipAction creates an action for clip bound to this mixer. The action is
// idle until Play is called.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	return &Action{mixer: m, clip: clip, weight: 1}
}

// Active returns the number of registered actions, including held and
// fading ones.
func (m *Mixer) Active() int {
	return len(m.actions)
}

// Running reports whether an action with the tag is registered and not
// being faded out.
func (m *Mixer) Running(tag string) bool {
	for _, a := range m.actions {
		if a.Tag == tag && !a.dropAfterFade {
			return true
		}
	}
	return false
}

// InFlight reports whether an action with the tag is still advancing
// towards the end of its clip.
func (m *Mixer) InFlight(tag string) bool {
	for _, a := range m.actions {
		if a.Tag == tag && !a.finished {
			return true
		}
	}
	return false
}

// Settled reports whether every action with the tag has reached the end of
// its clip at full weight, so the values it writes no longer change.
func (m *Mixer) Settled(tag string) bool {
	for _, a := range m.actions {
		if a.Tag != tag {
			continue
		}
		if !a.finished || a.fading || a.dropAfterFade {
			return false
		}
	}
	return true
}

// Supersede fades out every registered action with the tag except keep.
// It returns the number of actions affected.
func (m *Mixer) Supersede(tag string, keep *Action) int {
	n := 0
	for _, a := range m.actions {
		if a == keep || a.Tag != tag || a.dropAfterFade {
			continue
		}
		a.halt(false)
		a.playing = true
		a.FadeOut(m.CrossFade)
		n++
	}
	if n > 0 {
		m.log.Debug("superseded actions", zap.String("tag", tag), zap.Int("count", n))
	}
	return n
}

// StopAll removes every action without running completion callbacks.
func (m *Mixer) StopAll() {
	actions := m.actions
	m.actions = nil
	for _, a := range actions {
		a.halt(false)
	}
	m.prune()
}

func (m *Mixer) activate(a *Action) {
	if a.Tag != "" {
		m.Supersede(a.Tag, a)
	}
	if !slices.Contains(m.actions, a) {
		m.actions = append(m.actions, a)
	}
	m.log.Debug("play action",
		zap.String("clip", a.clip.Name),
		zap.Float32("duration", a.clip.Duration),
		zap.Int("tracks", len(a.clip.Tracks)),
	)
}

func (m *Mixer) deactivate(a *Action) {
	m.actions = slices.DeleteFunc(m.actions, func(x *Action) bool { return x == a })
}

// Update advances all actions by dt seconds and applies the blended result.
// For each property the weighted samples are combined as
// sum(w*v) + max(0, 1-sum(w))*current, normalized when the weights exceed 1.
func (m *Mixer) Update(dt float32) {
	if len(m.actions) == 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}

	for _, b := range m.order {
		b.weight = 0
		b.acc = [3]float32{}
	}

	var finished, restored, dropped []*Action
	for _, a := range m.actions {
		reachedEnd, fadedOut := a.advance(dt)
		if reachedEnd {
			a.finished = true
			if a.ClampWhenFinished || a.dropAfterFade {
				a.paused = true
			} else {
				restored = append(restored, a)
			}
			finished = append(finished, a)
		}
		if fadedOut {
			dropped = append(dropped, a)
			continue
		}
		m.accumulate(a)
	}

	for _, b := range m.order {
		m.apply(b)
	}

	for _, a := range restored {
		for i, tr := range a.clip.Tracks {
			if tr.Node != nil {
				tr.Node.Set(tr.Property, a.rest[i])
			}
		}
		m.deactivate(a)
		a.playing = false
	}
	for _, a := range dropped {
		m.deactivate(a)
		a.halt(false)
	}
	for _, a := range finished {
		if slices.Contains(dropped, a) {
			continue
		}
		m.log.Debug("action finished", zap.String("clip", a.clip.Name))
		cb := a.OnComplete
		a.OnComplete = nil
		a.completion.resolve(true)
		if cb != nil {
			cb()
		}
	}

	m.prune()
}

func (m *Mixer) accumulate(a *Action) {
	w := a.weight
	if w <= 0 {
		return
	}
	for _, tr := range a.clip.Tracks {
		if tr.Node == nil {
			continue
		}
		b := m.bind(tr.Node, tr.Property)
		v := m.sample[:tr.Property.Size()]
		tr.Sample(a.time, v)
		for i := range v {
			b.acc[i] += w * v[i]
		}
		b.weight += w
	}
}

func (m *Mixer) bind(node *scene.Node, prop scene.Property) *binding {
	key := bindingKey{node, prop}
	b, ok := m.bindings[key]
	if !ok {
		b = &binding{node: node, prop: prop}
		m.bindings[key] = b
		m.order = append(m.order, b)
	}
	return b
}

func (m *Mixer) apply(b *binding) {
	if b.weight <= 0 {
		return
	}
	n := b.prop.Size()
	out := b.acc[:n]
	if b.weight < 1 {
		var cur [3]float32
		b.node.Get(b.prop, cur[:n])
		rest := 1 - b.weight
		for i := range out {
			out[i] += rest * cur[i]
		}
	} else if b.weight > 1 {
		for i := range out {
			out[i] /= b.weight
		}
	}
	b.node.Set(b.prop, out)
}

// prune forgets bindings no registered action still targets.
func (m *Mixer) prune() {
	if len(m.actions) > 0 {
		return
	}
	clear(m.bindings)
	m.order = m.order[:0]
}
