// Package assets loads building models and caches them by path.
package assets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/floorview/internal/engine/scene"
	"github.com/Faultbox/floorview/pkg/math"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrInvalidModel  = errors.New("invalid model")
)

// components decodes either a scalar or a sequence of floats.
type components []float32

func (c *components) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var f float32
		if err := node.Decode(&f); err != nil {
			return err
		}
		*c = components{f}
		return nil
	}
	var s []float32
	if err := node.Decode(&s); err != nil {
		return err
	}
	*c = s
	return nil
}

// modelFile is the on-disk YAML layout of a model.
type modelFile struct {
	Name     string      `yaml:"name"`
	Scale    components  `yaml:"scale"`
	Position []float32   `yaml:"position"`
	Nodes    []modelNode `yaml:"nodes"`
}

type modelNode struct {
	Name     string         `yaml:"name"`
	Position []float32      `yaml:"position"`
	Scale    components     `yaml:"scale"`
	Mesh     *modelMesh     `yaml:"mesh"`
	Material *modelMaterial `yaml:"material"`
	Children []modelNode    `yaml:"children"`
}

type modelMesh struct {
	Shape    string    `yaml:"shape"`
	Size     []float32 `yaml:"size"`
	Segments int       `yaml:"segments"`
}

type modelMaterial struct {
	Color       string   `yaml:"color"`
	Opacity     *float32 `yaml:"opacity"`
	Transparent bool     `yaml:"transparent"`
	DepthWrite  *bool    `yaml:"depth_write"`
}

// ParseModel decodes a YAML model description into a node tree.
func ParseModel(data []byte) (*scene.Node, error) {
	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if mf.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidModel)
	}

	root := scene.NewGroup(mf.Name)
	var err error
	if root.Position, err = vec(mf.Position, math.Vec3{}); err != nil {
		return nil, fmt.Errorf("%w: %s position: %v", ErrInvalidModel, mf.Name, err)
	}
	if root.Scale, err = scale(mf.Scale); err != nil {
		return nil, fmt.Errorf("%w: %s scale: %v", ErrInvalidModel, mf.Name, err)
	}

	for i := range mf.Nodes {
		child, err := buildNode(&mf.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidModel, mf.Name, err)
		}
		root.Add(child)
	}
	return root, nil
}

func buildNode(mn *modelNode) (*scene.Node, error) {
	if mn.Name == "" {
		return nil, errors.New("node without name")
	}
	n := scene.NewGroup(mn.Name)

	var err error
	if n.Position, err = vec(mn.Position, math.Vec3{}); err != nil {
		return nil, fmt.Errorf("%s position: %w", mn.Name, err)
	}
	if n.Scale, err = scale(mn.Scale); err != nil {
		return nil, fmt.Errorf("%s scale: %w", mn.Name, err)
	}

	if mn.Mesh != nil {
		if mn.Material == nil {
			return nil, fmt.Errorf("%s: mesh without material", mn.Name)
		}
		mesh, err := buildMesh(mn.Mesh)
		if err != nil {
			return nil, fmt.Errorf("%s mesh: %w", mn.Name, err)
		}
		mat, err := buildMaterial(mn.Material)
		if err != nil {
			return nil, fmt.Errorf("%s material: %w", mn.Name, err)
		}
		n.Mesh = &mesh
		n.Material = &mat
	}

	for i := range mn.Children {
		child, err := buildNode(&mn.Children[i])
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func buildMesh(mm *modelMesh) (scene.Mesh, error) {
	var mesh scene.Mesh
	switch strings.ToLower(mm.Shape) {
	case "", "box":
		mesh.Shape = scene.ShapeBox
	case "sphere":
		mesh.Shape = scene.ShapeSphere
		mesh.Segments = mm.Segments
		if mesh.Segments <= 0 {
			mesh.Segments = 32
		}
	default:
		return mesh, fmt.Errorf("unknown shape %q", mm.Shape)
	}
	size, err := vec(mm.Size, math.One)
	if err != nil {
		return mesh, err
	}
	mesh.Size = size
	return mesh, nil
}

func buildMaterial(mm *modelMaterial) (scene.Material, error) {
	mat := scene.Material{
		Color:       [3]float32{1, 1, 1},
		Opacity:     1,
		Transparent: mm.Transparent,
		DepthWrite:  true,
	}
	if mm.Color != "" {
		c, err := ParseColor(mm.Color)
		if err != nil {
			return mat, err
		}
		mat.Color = c
	}
	if mm.Opacity != nil {
		mat.Opacity = math.Clamp(*mm.Opacity, 0, 1)
	}
	if mm.DepthWrite != nil {
		mat.DepthWrite = *mm.DepthWrite
	}
	return mat, nil
}

// ParseColor parses a "#rrggbb" hex color into linear [0,1] components.
func ParseColor(s string) ([3]float32, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return [3]float32{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("color %q: %w", s, err)
	}
	return [3]float32{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

func vec(v []float32, def math.Vec3) (math.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return math.V3(v[0], v[1], v[2]), nil
	default:
		return def, fmt.Errorf("want 3 components, got %d", len(v))
	}
}

// scale accepts either a uniform scalar or three components.
func scale(v []float32) (math.Vec3, error) {
	if len(v) == 1 {
		return math.V3(v[0], v[0], v[0]), nil
	}
	return vec(v, math.One)
}
