package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/floorview/internal/engine/input"
)

// PollEvents drains the SDL event queue into dst.
func (w *Window) PollEvents(dst []input.Event) []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			dst = append(dst, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.DrawableSize()
				dst = append(dst, input.Event{
					Type:   input.EventWindowResize,
					Width:  width,
					Height: height,
				})
			}

		case *sdl.KeyboardEvent:
			ev := input.Event{
				Key:    input.Key(sdl.GetKeyName(e.Keysym.Sym)),
				Repeat: e.Repeat != 0,
			}
			switch e.Type {
			case sdl.KEYDOWN:
				ev.Type = input.EventKeyDown
			case sdl.KEYUP:
				ev.Type = input.EventKeyUp
			default:
				continue
			}
			dst = append(dst, ev)

		case *sdl.MouseMotionEvent:
			dst = append(dst, input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := input.Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			switch e.Type {
			case sdl.MOUSEBUTTONDOWN:
				ev.Type = input.EventMouseDown
			case sdl.MOUSEBUTTONUP:
				ev.Type = input.EventMouseUp
			default:
				continue
			}
			dst = append(dst, ev)

		case *sdl.MouseWheelEvent:
			dst = append(dst, input.Event{
				Type:  input.EventMouseWheel,
				Wheel: float32(e.Y),
			})
		}
	}
	return dst
}
