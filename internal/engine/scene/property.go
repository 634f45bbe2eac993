package scene

// Property is an animatable node property.
type Property int

const (
	PropertyPosition Property = iota
	PropertyScale
	PropertyOpacity
)

// Size returns the number of float components of the property.
func (p Property) Size() int {
	if p == PropertyOpacity {
		return 1
	}
	return 3
}

// String returns the property path segment.
func (p Property) String() string {
	switch p {
	case PropertyPosition:
		return "position"
	case PropertyScale:
		return "scale"
	case PropertyOpacity:
		return "material.opacity"
	default:
		return "unknown"
	}
}

// Get copies the property value into dst, which must hold p.Size() floats.
// Opacity of a node without a material reads as 1.
func (n *Node) Get(p Property, dst []float32) {
	switch p {
	case PropertyPosition:
		dst[0], dst[1], dst[2] = n.Position.X, n.Position.Y, n.Position.Z
	case PropertyScale:
		dst[0], dst[1], dst[2] = n.Scale.X, n.Scale.Y, n.Scale.Z
	case PropertyOpacity:
		dst[0] = 1
		if n.Material != nil {
			dst[0] = n.Material.Opacity
		}
	}
}

// Set writes the property value from src.
func (n *Node) Set(p Property, src []float32) {
	switch p {
	case PropertyPosition:
		n.Position.X, n.Position.Y, n.Position.Z = src[0], src[1], src[2]
	case PropertyScale:
		n.Scale.X, n.Scale.Y, n.Scale.Z = src[0], src[1], src[2]
	case PropertyOpacity:
		if n.Material != nil {
			n.Material.Opacity = src[0]
		}
	}
}
