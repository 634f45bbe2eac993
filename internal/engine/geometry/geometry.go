// Package geometry builds the unit primitives the renderer instances for
// every leaf: a unit cube and a unit-diameter UV sphere.
package geometry

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/floorview/internal/engine/scene"
)

// Stride is the number of floats per vertex: position then normal.
const Stride = 6

// Mesh is interleaved vertex data with triangle indices.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / Stride
}

// Key identifies a primitive shape for caching.
type Key struct {
	Shape    scene.Shape
	Segments int
}

// KeyOf returns the cache key for a scene mesh. Boxes ignore segments.
func KeyOf(m *scene.Mesh) Key {
	if m.Shape == scene.ShapeBox {
		return Key{Shape: scene.ShapeBox}
	}
	return Key{Shape: m.Shape, Segments: max(m.Segments, 3)}
}

// Build generates the unit primitive for key.
func Build(key Key) *Mesh {
	switch key.Shape {
	case scene.ShapeSphere:
		return Sphere(key.Segments)
	default:
		return Box()
	}
}

var boxFaces = [6]struct {
	normal [3]float32
	u, v   [3]float32
}{
	{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
	{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
	{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
	{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
	{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
	{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
}

// Box returns a unit cube centered on the origin with per-face normals and
// counter-clockwise winding.
func Box() *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, 24*Stride),
		Indices:  make([]uint32, 0, 36),
	}
	corners := [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
	for f, face := range boxFaces {
		for _, c := range corners {
			for i := 0; i < 3; i++ {
				m.Vertices = append(m.Vertices, face.normal[i]*0.5+face.u[i]*c[0]+face.v[i]*c[1])
			}
			m.Vertices = append(m.Vertices, face.normal[:]...)
		}
		base := uint32(f * 4)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Sphere returns a sphere of diameter 1 with the given number of
// longitudinal segments and half as many rings.
func Sphere(segments int) *Mesh {
	segments = max(segments, 3)
	rings := max(segments/2, 2)

	m := &Mesh{
		Vertices: make([]float32, 0, (rings+1)*(segments+1)*Stride),
		Indices:  make([]uint32, 0, rings*segments*6),
	}
	for r := 0; r <= rings; r++ {
		phi := math32.Pi * float32(r) / float32(rings)
		y := math32.Cos(phi)
		ring := math32.Sin(phi)
		for s := 0; s <= segments; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(segments)
			x := ring * math32.Sin(theta)
			z := ring * math32.Cos(theta)
			m.Vertices = append(m.Vertices, x*0.5, y*0.5, z*0.5, x, y, z)
		}
	}
	row := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*row + s
			b := a + row
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}
