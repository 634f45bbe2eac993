// Package input turns window events into per-frame viewer input.
// It is independent of the windowing backend; the window package feeds it.
package input

// EventType classifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key identifies a keyboard key by its printed name ("1", "C", "Escape").
type Key string

// Keys the viewer binds.
const (
	KeyEscape Key = "Escape"
	KeyC      Key = "C"
	Key1      Key = "1"
	Key2      Key = "2"
	Key3      Key = "3"
	Key4      Key = "4"
	Key5      Key = "5"
	Key6      Key = "6"
)

// Mouse buttons.
const (
	ButtonLeft uint8 = 1
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
}

// Source produces the events that arrived since the previous call.
type Source interface {
	PollEvents(dst []Event) []Event
}

// Input collects one frame of events and tracks drag state.
type Input struct {
	events   []Event
	dragging bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls src. It returns true if the viewer should quit.
func (i *Input) Update(src Source) bool {
	i.events = src.PollEvents(i.events[:0])

	quit := false
	for _, e := range i.events {
		switch e.Type {
		case EventQuit:
			quit = true
		case EventMouseDown:
			if e.Button == ButtonLeft {
				i.dragging = true
			}
		case EventMouseUp:
			if e.Button == ButtonLeft {
				i.dragging = false
			}
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether key went down this frame. Auto-repeat is
// ignored.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}

// Drag returns the mouse motion made with the left button held this frame.
func (i *Input) Drag() (dx, dy float32) {
	if !i.dragging {
		return 0, 0
	}
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += float32(e.DeltaX)
			dy += float32(e.DeltaY)
		}
	}
	return dx, dy
}

// Wheel returns the scroll amount this frame.
func (i *Input) Wheel() float32 {
	var w float32
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			w += e.Wheel
		}
	}
	return w
}

// Resized returns the latest window size reported this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}
