package geometry

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/floorview/internal/engine/scene"
)

func TestBox(t *testing.T) {
	m := Box()
	assert.Equal(t, 24, m.VertexCount())
	assert.Len(t, m.Indices, 36)

	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertices[i*Stride : (i+1)*Stride]
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, math32.Abs(v[axis]), float32(0.5))
		}
		// The vertex lies on the face its normal points out of.
		dot := v[0]*v[3] + v[1]*v[4] + v[2]*v[5]
		assert.InDelta(t, 0.5, dot, 1e-6)
	}
}

func TestBoxWindingFacesOut(t *testing.T) {
	m := Box()
	for tri := 0; tri < len(m.Indices); tri += 3 {
		p := func(k int) [6]float32 {
			i := m.Indices[tri+k] * Stride
			return [6]float32(m.Vertices[i : i+Stride])
		}
		a, b, c := p(0), p(1), p(2)
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		assert.Greater(t, n[0]*a[3]+n[1]*a[4]+n[2]*a[5], float32(0), "triangle %d", tri/3)
	}
}

func TestSphere(t *testing.T) {
	m := Sphere(32)
	assert.Equal(t, 17*33, m.VertexCount())
	assert.Len(t, m.Indices, 16*32*6)

	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertices[i*Stride : (i+1)*Stride]
		r := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		assert.InDelta(t, 0.5, r, 1e-5)
	}
	for _, idx := range m.Indices {
		assert.Less(t, int(idx), m.VertexCount())
	}
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, Key{Shape: scene.ShapeBox}, KeyOf(&scene.Mesh{Shape: scene.ShapeBox, Segments: 12}))
	assert.Equal(t, Key{Shape: scene.ShapeSphere, Segments: 32}, KeyOf(&scene.Mesh{Shape: scene.ShapeSphere, Segments: 32}))
	assert.Equal(t, Key{Shape: scene.ShapeSphere, Segments: 3}, KeyOf(&scene.Mesh{Shape: scene.ShapeSphere}))
}
