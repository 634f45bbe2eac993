package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/input"
)

// Command is a viewer action.
type Command int

const (
	CmdNone Command = iota
	CmdRaise
	CmdReset
	CmdFade
	CmdRestore
	CmdToggleHighlight
	CmdTogglePulse
	CmdNextCamera
	CmdQuit
)

var commandNames = [...]string{
	CmdNone:            "none",
	CmdRaise:           "raise",
	CmdReset:           "reset",
	CmdFade:            "fade",
	CmdRestore:         "restore",
	CmdToggleHighlight: "highlight",
	CmdTogglePulse:     "pulse",
	CmdNextCamera:      "camera",
	CmdQuit:            "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Bindings maps keys to commands.
var Bindings = map[input.Key]Command{
	input.Key1:      CmdRaise,
	input.Key2:      CmdReset,
	input.Key3:      CmdFade,
	input.Key4:      CmdRestore,
	input.Key5:      CmdToggleHighlight,
	input.Key6:      CmdTogglePulse,
	input.KeyC:      CmdNextCamera,
	input.KeyEscape: CmdQuit,
}

// Handle runs cmd. It returns false when the viewer should quit.
func (s *Scene) Handle(cmd Command) bool {
	s.log.Debug("command", zap.Stringer("command", cmd))
	switch cmd {
	case CmdRaise:
		s.raise()
		s.rig.Show("floor1View", s.cfg.Scene.Animation.CameraMove)
	case CmdReset:
		s.reset()
		s.rig.Show("default", s.cfg.Scene.Animation.CameraMove)
	case CmdFade:
		s.fadeUpper(s.cfg.Scene.Animation.FadeOpacity)
	case CmdRestore:
		s.fadeUpper(1)
	case CmdToggleHighlight:
		s.toggleHighlight()
	case CmdTogglePulse:
		s.togglePulse()
	case CmdNextCamera:
		s.rig.Next(s.cfg.Scene.Animation.CameraMove)
	case CmdQuit:
		return false
	}
	return true
}

// HandleInput runs the commands bound to keys pressed this frame and feeds
// mouse orbiting to the camera. It returns false when the viewer should
// quit.
func (s *Scene) HandleInput(in *input.Input) bool {
	for _, e := range in.Events() {
		if e.Type != input.EventKeyDown || e.Repeat {
			continue
		}
		if cmd, ok := Bindings[e.Key]; ok && !s.Handle(cmd) {
			return false
		}
	}
	if dx, dy := in.Drag(); dx != 0 || dy != 0 {
		s.rig.HandleDrag(dx, dy)
	}
	if w := in.Wheel(); w != 0 {
		s.rig.HandleZoom(w)
	}
	return true
}
