// Package renderer draws the scene graph with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/geometry"
	"github.com/Faultbox/floorview/internal/engine/lighting"
	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/internal/engine/shader"
	"github.com/Faultbox/floorview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	FOV        float32 // Vertical field of view in degrees
	Near, Far  float32
	Background [3]float32
	Sun        lighting.Sun
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer draws scene leaves as lit primitives in draw-list order.
// Each leaf's material decides blending and depth writes.
type Renderer struct {
	config  Config
	program *shader.Program
	meshes  map[geometry.Key]*gpuMesh
	items   []scene.DrawItem
	log     *zap.Logger
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Near <= 0 {
		cfg.Near = 1
	}
	if cfg.Far <= cfg.Near {
		cfg.Far = 10000
	}
	if cfg.FOV <= 0 {
		cfg.FOV = 50
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.Compile(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return &Renderer{
		config:  cfg,
		program: program,
		meshes:  make(map[geometry.Key]*gpuMesh),
		log:     log,
	}, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	clear(r.meshes)
	r.program.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Projection returns the perspective projection for the current size.
func (r *Renderer) Projection() math.Mat4 {
	aspect := float32(r.config.Width) / float32(max(r.config.Height, 1))
	return math.Perspective(r.config.FOV*math32.Pi/180, aspect, r.config.Near, r.config.Far)
}

// Render clears the frame and draws every visible leaf under roots.
func (r *Renderer) Render(view math.Mat4, eye math.Vec3, roots ...*scene.Node) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.items = scene.DrawList(r.items, roots...)
	if len(r.items) == 0 {
		return
	}

	viewProj := r.Projection().Mul(view)
	sun := r.config.Sun

	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetVec3("uLightDir", sun.Direction.Array())
	r.program.SetVec3("uAmbient", sun.Ambient)
	r.program.SetVec3("uDiffuse", sun.Diffuse)
	r.program.SetVec3("uEye", eye.Array())

	blending := false
	depthWrite := true
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)

	for _, it := range r.items {
		mat := it.Node.Material
		if mat.Transparent != blending {
			blending = mat.Transparent
			if blending {
				gl.Enable(gl.BLEND)
			} else {
				gl.Disable(gl.BLEND)
			}
		}
		if mat.DepthWrite != depthWrite {
			depthWrite = mat.DepthWrite
			gl.DepthMask(depthWrite)
		}

		m := r.mesh(it.Node.Mesh)
		size := it.Node.Mesh.Size
		model := it.World.Mul(math.Scale(size.X, size.Y, size.Z))
		r.program.SetMat4("uModel", model)
		r.program.SetVec3("uColor", mat.Color)
		r.program.SetFloat("uOpacity", mat.Opacity)

		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
}

// mesh returns the uploaded unit primitive for m, uploading on first use.
func (r *Renderer) mesh(m *scene.Mesh) *gpuMesh {
	key := geometry.KeyOf(m)
	if g, ok := r.meshes[key]; ok {
		return g
	}
	data := geometry.Build(key)
	g := &gpuMesh{count: int32(len(data.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*4, unsafe.Pointer(&data.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, unsafe.Pointer(&data.Indices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, geometry.Stride*4, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, geometry.Stride*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	r.meshes[key] = g
	r.log.Debug("mesh uploaded",
		zap.Stringer("shape", key.Shape),
		zap.Int("segments", key.Segments),
		zap.Int("vertices", data.VertexCount()),
	)
	return g
}

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec3 vWorld;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorld = world.xyz;
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	gl_Position = uViewProj * world;
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vWorld;

uniform vec3 uLightDir;
uniform vec3 uAmbient;
uniform vec3 uDiffuse;
uniform vec3 uEye;
uniform vec3 uColor;
uniform float uOpacity;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	float diff = max(dot(n, normalize(uLightDir)), 0.0);
	vec3 rim = vec3(0.05) * pow(1.0 - max(dot(n, normalize(uEye - vWorld)), 0.0), 2.0);
	vec3 color = uColor * (uAmbient + uDiffuse * diff) + rim;
	FragColor = vec4(color, uOpacity);
}
`
