package anim

// Completion is a single-shot notification owned by one Action.
// Done is closed exactly once when the action ends, whether it ran to the
// end of its clip or was cancelled.
type Completion struct {
	done     chan struct{}
	finished bool
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Cancelled returns a completion that has already ended without finishing.
// It stands in for requests that could not start.
func Cancelled() *Completion {
	c := newCompletion()
	c.resolve(false)
	return c
}

// Done returns a channel closed when the action ends.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Finished reports whether the action reached the end of its clip.
// It is only meaningful after Done is closed.
func (c *Completion) Finished() bool {
	select {
	case <-c.done:
		return c.finished
	default:
		return false
	}
}

// Resolved reports whether the action has ended.
func (c *Completion) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Completion) resolve(finished bool) {
	if c.Resolved() {
		return
	}
	c.finished = finished
	close(c.done)
}
