package building

import "github.com/chewxy/math32"

// Opacity smoothing defaults for overlay primitives.
const (
	DefaultSmoothing = 0.2
	smoothEpsilon    = 0.001
)

// smoother eases a value towards a target by a fixed fraction per tick.
type smoother struct {
	current float32
	target  float32
	speed   float32
}

// step advances one tick and reports whether the value changed. Within
// epsilon of the target the value snaps onto it.
func (s *smoother) step() bool {
	diff := s.target - s.current
	if diff == 0 {
		return false
	}
	if math32.Abs(diff) <= smoothEpsilon {
		s.current = s.target
		return true
	}
	s.current += diff * s.speed
	return true
}
