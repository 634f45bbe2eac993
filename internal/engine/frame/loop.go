// Package frame dispatches per-frame ticks to registered handlers.
package frame

import "time"

// Handler receives the seconds elapsed since its previous tick.
type Handler func(dt float32)

type registration struct {
	fn   Handler
	last time.Time
	// live is cleared on unregister so a frame in progress skips the handler.
	live bool
}

// Loop is a display-refresh tick source. The host calls Frame once per
// refresh; every handler gets its own delta so a handler registered late
// starts from zero instead of the loop's age.
type Loop struct {
	regs []*registration
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Register adds a handler and returns its unregister function. The first
// tick a handler receives has dt == 0. Unregistering twice is harmless.
func (l *Loop) Register(fn Handler) (unregister func()) {
	r := &registration{fn: fn, live: true}
	l.regs = append(l.regs, r)
	return func() {
		if !r.live {
			return
		}
		r.live = false
		r.last = time.Time{}
		for i, x := range l.regs {
			if x == r {
				l.regs = append(l.regs[:i:i], l.regs[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of registered handlers.
func (l *Loop) Len() int {
	return len(l.regs)
}

// Frame ticks every handler registered before the call.
func (l *Loop) Frame(now time.Time) {
	regs := append([]*registration(nil), l.regs...)
	for _, r := range regs {
		if !r.live {
			continue
		}
		var dt float32
		if !r.last.IsZero() {
			dt = float32(now.Sub(r.last).Seconds())
			if dt < 0 {
				dt = 0
			}
		}
		r.last = now
		r.fn(dt)
	}
}
