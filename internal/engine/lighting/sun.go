// Package lighting provides the directional light the viewer shades with.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/floorview/pkg/math"
)

// Sun is a directional light with an ambient term.
type Sun struct {
	// Direction points towards the light.
	Direction math.Vec3
	Ambient   [3]float32
	Diffuse   [3]float32
}

// DefaultSun lights the building from above and in front of the default
// camera.
func DefaultSun() Sun {
	return Sun{
		Direction: SunDirection(45, 60),
		Ambient:   [3]float32{0.45, 0.45, 0.5},
		Diffuse:   [3]float32{0.6, 0.6, 0.55},
	}
}

// SunDirection converts longitude/latitude in degrees to a normalized
// direction. Longitude rotates around Y, latitude is elevation from the
// horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180
	return math.V3(
		math32.Cos(lat)*math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat)*math32.Cos(lon),
	)
}
